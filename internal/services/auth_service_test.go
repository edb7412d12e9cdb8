package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stockroom/stockroom/internal/models"
	pkgauth "github.com/stockroom/stockroom/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(
	userRepo *MockUserRepository,
	tokens *MockSessionTokens,
	resetTokens *MockResetTokens,
	mailer *MockEmailSender,
) *AuthService {
	if userRepo == nil {
		userRepo = &MockUserRepository{}
	}
	if tokens == nil {
		tokens = &MockSessionTokens{}
	}
	if resetTokens == nil {
		resetTokens = &MockResetTokens{}
	}
	if mailer == nil {
		mailer = &MockEmailSender{}
	}
	return NewAuthService(userRepo, tokens, resetTokens, mailer, "http://localhost:3000", slog.Default())
}

func hashForTest(t *testing.T, password string) string {
	t.Helper()
	hash, err := pkgauth.HashPassword(password)
	require.NoError(t, err)
	return hash
}

// ============================================================================
// Register Tests
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	var createdUser *models.User

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			user.CreatedAt = time.Now()
			user.UpdatedAt = time.Now()
			createdUser = user
			return user, nil
		},
	}

	sent := make(chan string, 1)
	mockMailer := &MockEmailSender{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			sent <- to
			return nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, mockMailer)

	user, err := authService.Register(context.Background(), RegisterInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "user@example.com",
		Password: "SecurePassword123!",
		Phone:    "+15551234567",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user123", user.ID)
	assert.False(t, user.IsVerified)
	assert.NotEmpty(t, user.VerifyToken)

	// Stored hash must verify against the submitted password and never equal it.
	assert.NotEqual(t, "SecurePassword123!", createdUser.PasswordHash)
	assert.NoError(t, pkgauth.ComparePassword(createdUser.PasswordHash, "SecurePassword123!"))

	select {
	case to := <-sent:
		assert.Equal(t, "user@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("confirmation email was never sent")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "existing", Email: email}, nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	user, err := authService.Register(context.Background(), RegisterInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "user@example.com",
		Password: "SecurePassword123!",
	})

	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Nil(t, user)
}

func TestAuthService_Register_EmailFailureDoesNotSurface(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = "user123"
			return user, nil
		},
	}

	var wg sync.WaitGroup
	wg.Add(1)
	mockMailer := &MockEmailSender{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			defer wg.Done()
			return models.ErrInternalServer
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, mockMailer)

	user, err := authService.Register(context.Background(), RegisterInput{
		Name:     "John",
		LastName: "Doe",
		Email:    "user@example.com",
		Password: "SecurePassword123!",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	wg.Wait()
}

// ============================================================================
// Confirm Tests
// ============================================================================

func TestAuthService_Confirm_Success(t *testing.T) {
	markedID := ""
	mockUserRepo := &MockUserRepository{
		GetByVerifyTokenFunc: func(ctx context.Context, verifyToken string) (*models.User, error) {
			assert.Equal(t, "abc123", verifyToken)
			return &models.User{ID: "user123", VerifyToken: verifyToken}, nil
		},
		MarkVerifiedFunc: func(ctx context.Context, id string) error {
			markedID = id
			return nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	user, err := authService.Confirm(context.Background(), "abc123")

	require.NoError(t, err)
	assert.Equal(t, "user123", user.ID)
	assert.Equal(t, "user123", markedID)
}

func TestAuthService_Confirm_UnknownToken(t *testing.T) {
	authService := newTestAuthService(nil, nil, nil, nil)

	user, err := authService.Confirm(context.Background(), "never-issued")

	assert.ErrorIs(t, err, models.ErrLinkExpired)
	assert.Nil(t, user)
}

// ============================================================================
// Login Tests
// ============================================================================

func TestAuthService_Login_Success(t *testing.T) {
	passwordHash := hashForTest(t, "SecurePassword123!")

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           "user123",
				Email:        email,
				PasswordHash: passwordHash,
				Name:         "John",
				LastName:     "Doe",
				IsVerified:   true,
			}, nil
		},
	}
	mockTokens := &MockSessionTokens{
		GenerateTokenFunc: func(userID string) (string, error) {
			assert.Equal(t, "user123", userID)
			return "signed-token", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	result, err := authService.Login(context.Background(), "user@example.com", "SecurePassword123!")

	require.NoError(t, err)
	assert.Equal(t, "signed-token", result.Token)
	assert.Equal(t, "user123", result.Profile.ID)
	assert.Equal(t, "John", result.Profile.Name)
	assert.Equal(t, "Doe", result.Profile.LastName)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService := newTestAuthService(nil, nil, nil, nil)

	result, err := authService.Login(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Nil(t, result)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	passwordHash := hashForTest(t, "SecurePassword123!")

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, PasswordHash: passwordHash, IsVerified: true}, nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	result, err := authService.Login(context.Background(), "user@example.com", "WrongPassword!")

	assert.ErrorIs(t, err, models.ErrPasswordIncorrect)
	assert.Nil(t, result)
}

func TestAuthService_Login_UnverifiedAccount(t *testing.T) {
	passwordHash := hashForTest(t, "SecurePassword123!")

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, PasswordHash: passwordHash, IsVerified: false}, nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	result, err := authService.Login(context.Background(), "user@example.com", "SecurePassword123!")

	assert.ErrorIs(t, err, models.ErrNotVerified)
	assert.Nil(t, result)
}

func TestAuthService_Login_CaseSensitiveEmail(t *testing.T) {
	seen := ""
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			seen = email
			return nil, models.ErrNotFound
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	_, err := authService.Login(context.Background(), "User@Example.COM", "whatever")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, "User@Example.COM", seen)
}

// ============================================================================
// UpdateProfile Tests
// ============================================================================

func TestAuthService_UpdateProfile_Success(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, Name: "Old", LastName: "Name"}, nil
		},
		UpdateProfileFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			assert.Equal(t, "user123", id)
			return user, nil
		},
	}
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "user123", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	profile, err := authService.UpdateProfile(context.Background(), "valid-token", UpdateProfileInput{
		Name:     "New",
		LastName: "Person",
		Email:    "user@example.com",
		Phone:    "+15550000000",
		Bio:      "hello",
	})

	require.NoError(t, err)
	assert.Equal(t, "New", profile.Name)
	assert.Equal(t, "Person", profile.LastName)
	assert.Equal(t, "+15550000000", profile.Phone)
	assert.Equal(t, "hello", profile.Bio)
}

func TestAuthService_UpdateProfile_MissingToken(t *testing.T) {
	authService := newTestAuthService(nil, nil, nil, nil)

	profile, err := authService.UpdateProfile(context.Background(), "", UpdateProfileInput{Email: "user@example.com"})

	assert.ErrorIs(t, err, models.ErrNoToken)
	assert.Nil(t, profile)
}

func TestAuthService_UpdateProfile_ExpiredToken(t *testing.T) {
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "", models.ErrSessionExpired
		},
	}

	authService := newTestAuthService(nil, mockTokens, nil, nil)

	profile, err := authService.UpdateProfile(context.Background(), "stale-token", UpdateProfileInput{Email: "user@example.com"})

	assert.ErrorIs(t, err, models.ErrSessionExpired)
	assert.Nil(t, profile)
}

func TestAuthService_UpdateProfile_OtherAccount(t *testing.T) {
	updated := false
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "victim", Email: email}, nil
		},
		UpdateProfileFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			updated = true
			return user, nil
		},
	}
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "attacker", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	profile, err := authService.UpdateProfile(context.Background(), "attacker-token", UpdateProfileInput{
		Email: "victim@example.com",
	})

	assert.ErrorIs(t, err, models.ErrUnauthorized)
	assert.Nil(t, profile)
	assert.False(t, updated)
}

// ============================================================================
// UpdatePhoto Tests
// ============================================================================

func TestAuthService_UpdatePhoto_Success(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email}, nil
		},
		UpdatePhotoFunc: func(ctx context.Context, id, photo string) (*models.User, error) {
			return &models.User{ID: id, Photo: photo}, nil
		},
	}
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "user123", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	profile, err := authService.UpdatePhoto(context.Background(), "valid-token", "user@example.com", "https://cdn.example.com/p.png")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/p.png", profile.Photo)
}

// ============================================================================
// ChangePassword Tests
// ============================================================================

func TestAuthService_ChangePassword_Success(t *testing.T) {
	passwordHash := hashForTest(t, "OldPassword123!")
	storedHash := passwordHash

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, PasswordHash: storedHash}, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, newHash string) error {
			storedHash = newHash
			return nil
		},
	}
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "user123", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	err := authService.ChangePassword(context.Background(), "valid-token", "user@example.com", "OldPassword123!", "NewPassword456!")

	require.NoError(t, err)
	assert.NotEqual(t, passwordHash, storedHash)
	assert.NoError(t, pkgauth.ComparePassword(storedHash, "NewPassword456!"))
}

func TestAuthService_ChangePassword_WrongOldPassword(t *testing.T) {
	passwordHash := hashForTest(t, "OldPassword123!")
	storedHash := passwordHash

	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, PasswordHash: storedHash}, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id, newHash string) error {
			storedHash = newHash
			return nil
		},
	}
	mockTokens := &MockSessionTokens{
		ValidateTokenFunc: func(tokenString string) (string, error) {
			return "user123", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, mockTokens, nil, nil)

	err := authService.ChangePassword(context.Background(), "valid-token", "user@example.com", "WrongOld!", "NewPassword456!")

	assert.ErrorIs(t, err, models.ErrOldPasswordIncorrect)
	assert.Equal(t, passwordHash, storedHash)
}

func TestAuthService_ChangePassword_AccountCheckedBeforeToken(t *testing.T) {
	// Missing account wins even when the session token is also missing.
	authService := newTestAuthService(nil, nil, nil, nil)

	err := authService.ChangePassword(context.Background(), "", "ghost@example.com", "old", "new")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAuthService_ChangePassword_MissingToken(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email}, nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	err := authService.ChangePassword(context.Background(), "", "user@example.com", "old", "new")

	assert.ErrorIs(t, err, models.ErrNoToken)
}

// ============================================================================
// ForgotPassword Tests
// ============================================================================

func TestAuthService_ForgotPassword_Success(t *testing.T) {
	mockUserRepo := &MockUserRepository{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "user123", Email: email, Name: "John"}, nil
		},
	}
	mockResetTokens := &MockResetTokens{
		IssueFunc: func(ctx context.Context, userID string) (string, error) {
			assert.Equal(t, "user123", userID)
			return "plaintext-secret", nil
		},
	}

	sent := make(chan string, 1)
	mockMailer := &MockEmailSender{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			assert.Equal(t, "Password Reset Request", subject)
			assert.Contains(t, htmlBody, "plaintext-secret")
			assert.Contains(t, htmlBody, "Hello John")
			sent <- to
			return nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, mockResetTokens, mockMailer)

	email, err := authService.ForgotPassword(context.Background(), "user@example.com")

	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)

	select {
	case to := <-sent:
		assert.Equal(t, "user@example.com", to)
	case <-time.After(2 * time.Second):
		t.Fatal("reset email was never sent")
	}
}

func TestAuthService_ForgotPassword_UnknownEmail(t *testing.T) {
	authService := newTestAuthService(nil, nil, nil, nil)

	email, err := authService.ForgotPassword(context.Background(), "ghost@example.com")

	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Empty(t, email)
}

// ============================================================================
// ResetPassword Tests
// ============================================================================

func TestAuthService_ResetPassword_Success(t *testing.T) {
	storedHash := ""
	mockUserRepo := &MockUserRepository{
		UpdatePasswordFunc: func(ctx context.Context, id, newHash string) error {
			assert.Equal(t, "user123", id)
			storedHash = newHash
			return nil
		},
	}
	mockResetTokens := &MockResetTokens{
		ConsumeFunc: func(ctx context.Context, secret string) (string, error) {
			assert.Equal(t, "plaintext-secret", secret)
			return "user123", nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, mockResetTokens, nil)

	err := authService.ResetPassword(context.Background(), "plaintext-secret", "NewPassword456!")

	require.NoError(t, err)
	assert.NoError(t, pkgauth.ComparePassword(storedHash, "NewPassword456!"))
}

func TestAuthService_ResetPassword_BadSecret(t *testing.T) {
	updated := false
	mockUserRepo := &MockUserRepository{
		UpdatePasswordFunc: func(ctx context.Context, id, newHash string) error {
			updated = true
			return nil
		},
	}

	authService := newTestAuthService(mockUserRepo, nil, nil, nil)

	err := authService.ResetPassword(context.Background(), "wrong-secret", "NewPassword456!")

	assert.ErrorIs(t, err, models.ErrLinkExpired)
	assert.False(t, updated)
}
