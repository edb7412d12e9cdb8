package handlers

import (
	"context"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/services"
)

// MockAuthService implements AuthService for testing
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, input services.RegisterInput) (*models.User, error)
	ConfirmFunc        func(ctx context.Context, verifyToken string) (*models.User, error)
	LoginFunc          func(ctx context.Context, email, password string) (*services.LoginResult, error)
	UpdateProfileFunc  func(ctx context.Context, token string, input services.UpdateProfileInput) (*services.Profile, error)
	UpdatePhotoFunc    func(ctx context.Context, token, email, photo string) (*services.Profile, error)
	ChangePasswordFunc func(ctx context.Context, token, email, oldPassword, newPassword string) error
	ForgotPasswordFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordFunc  func(ctx context.Context, secret, newPassword string) error
}

func (m *MockAuthService) Register(ctx context.Context, input services.RegisterInput) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, input)
	}
	return nil, models.ErrInternalServer
}

func (m *MockAuthService) Confirm(ctx context.Context, verifyToken string) (*models.User, error) {
	if m.ConfirmFunc != nil {
		return m.ConfirmFunc(ctx, verifyToken)
	}
	return nil, models.ErrLinkExpired
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*services.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	return nil, models.ErrNotFound
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, token string, input services.UpdateProfileInput) (*services.Profile, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, token, input)
	}
	return nil, models.ErrNoToken
}

func (m *MockAuthService) UpdatePhoto(ctx context.Context, token, email, photo string) (*services.Profile, error) {
	if m.UpdatePhotoFunc != nil {
		return m.UpdatePhotoFunc(ctx, token, email, photo)
	}
	return nil, models.ErrNoToken
}

func (m *MockAuthService) ChangePassword(ctx context.Context, token, email, oldPassword, newPassword string) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, token, email, oldPassword, newPassword)
	}
	return models.ErrNoToken
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, email)
	}
	return "", models.ErrNotFound
}

func (m *MockAuthService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, secret, newPassword)
	}
	return models.ErrLinkExpired
}

// MockProductService implements ProductService for testing
type MockProductService struct {
	CreateFunc func(ctx context.Context, userID string, input services.ProductInput) (*models.Product, error)
	GetFunc    func(ctx context.Context, userID, productID string) (*models.Product, error)
	ListFunc   func(ctx context.Context, userID string) ([]*models.Product, error)
	UpdateFunc func(ctx context.Context, userID, productID string, input services.ProductInput) (*models.Product, error)
	DeleteFunc func(ctx context.Context, userID, productID string) error
}

func (m *MockProductService) Create(ctx context.Context, userID string, input services.ProductInput) (*models.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, input)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductService) Get(ctx context.Context, userID, productID string) (*models.Product, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, productID)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductService) List(ctx context.Context, userID string) ([]*models.Product, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return []*models.Product{}, nil
}

func (m *MockProductService) Update(ctx context.Context, userID, productID string, input services.ProductInput) (*models.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, userID, productID, input)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductService) Delete(ctx context.Context, userID, productID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, productID)
	}
	return models.ErrNotFound
}

// MockTokenValidator implements TokenValidator for testing
type MockTokenValidator struct {
	ValidateTokenFunc func(tokenString string) (string, error)
}

func (m *MockTokenValidator) ValidateToken(tokenString string) (string, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	return "", models.ErrSessionExpired
}
