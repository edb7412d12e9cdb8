package services

import (
	"context"
	"time"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/storage"
)

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc           func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc          func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc       func(ctx context.Context, email string) (*models.User, error)
	GetByVerifyTokenFunc func(ctx context.Context, verifyToken string) (*models.User, error)
	MarkVerifiedFunc     func(ctx context.Context, id string) error
	UpdateProfileFunc    func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePhotoFunc      func(ctx context.Context, id, photo string) (*models.User, error)
	UpdatePasswordFunc   func(ctx context.Context, id, passwordHash string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByVerifyToken(ctx context.Context, verifyToken string) (*models.User, error) {
	if m.GetByVerifyTokenFunc != nil {
		return m.GetByVerifyTokenFunc(ctx, verifyToken)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id string) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, user)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePhoto(ctx context.Context, id, photo string) (*models.User, error) {
	if m.UpdatePhotoFunc != nil {
		return m.UpdatePhotoFunc(ctx, id, photo)
	}
	return nil, models.ErrInternalServer
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, passwordHash)
	}
	return nil
}

// MockSessionTokens implements SessionTokens for testing
type MockSessionTokens struct {
	GenerateTokenFunc func(userID string) (string, error)
	ValidateTokenFunc func(tokenString string) (string, error)
}

func (m *MockSessionTokens) GenerateToken(userID string) (string, error) {
	if m.GenerateTokenFunc != nil {
		return m.GenerateTokenFunc(userID)
	}
	return "mock-token", nil
}

func (m *MockSessionTokens) ValidateToken(tokenString string) (string, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(tokenString)
	}
	return "", models.ErrSessionExpired
}

// MockResetTokens implements ResetTokens for testing
type MockResetTokens struct {
	IssueFunc   func(ctx context.Context, userID string) (string, error)
	ConsumeFunc func(ctx context.Context, secret string) (string, error)
}

func (m *MockResetTokens) Issue(ctx context.Context, userID string) (string, error) {
	if m.IssueFunc != nil {
		return m.IssueFunc(ctx, userID)
	}
	return "mock-secret", nil
}

func (m *MockResetTokens) Consume(ctx context.Context, secret string) (string, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, secret)
	}
	return "", models.ErrLinkExpired
}

// MockResetTokenRepository implements ResetTokenRepository for testing
type MockResetTokenRepository struct {
	ReplaceFunc func(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error
	ConsumeFunc func(ctx context.Context, tokenHash string, now time.Time) (string, error)
}

func (m *MockResetTokenRepository) Replace(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, userID, tokenHash, createdAt, expiresAt)
	}
	return nil
}

func (m *MockResetTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	if m.ConsumeFunc != nil {
		return m.ConsumeFunc(ctx, tokenHash, now)
	}
	return "", models.ErrNotFound
}

// MockEmailSender implements EmailSender for testing
type MockEmailSender struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error
}

func (m *MockEmailSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

// MockProductRepository implements ProductRepository for testing
type MockProductRepository struct {
	CreateFunc      func(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByIDFunc     func(ctx context.Context, id string) (*models.Product, error)
	ListByOwnerFunc func(ctx context.Context, userID string) ([]*models.Product, error)
	UpdateFunc      func(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	DeleteFunc      func(ctx context.Context, id string) error
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, product)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockProductRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Product, error) {
	if m.ListByOwnerFunc != nil {
		return m.ListByOwnerFunc(ctx, userID)
	}
	return []*models.Product{}, nil
}

func (m *MockProductRepository) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, id, product)
	}
	return nil, models.ErrInternalServer
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockUploader implements storage.Uploader for testing
type MockUploader struct {
	UploadFunc func(ctx context.Context, data []byte, fileName, mimeType string) (*storage.UploadResult, error)
}

func (m *MockUploader) Upload(ctx context.Context, data []byte, fileName, mimeType string) (*storage.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, data, fileName, mimeType)
	}
	return &storage.UploadResult{
		URL:      "https://example.com/" + fileName,
		Size:     "1.00 KB",
		MimeType: mimeType,
	}, nil
}
