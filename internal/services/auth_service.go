package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockroom/stockroom/internal/models"
	pkgauth "github.com/stockroom/stockroom/pkg/auth"
	pkglogger "github.com/stockroom/stockroom/pkg/logger"
)

// UserRepository defines the interface for account data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByVerifyToken(ctx context.Context, verifyToken string) (*models.User, error)
	MarkVerified(ctx context.Context, id string) error
	UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdatePhoto(ctx context.Context, id, photo string) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// SessionTokens issues and verifies session tokens
type SessionTokens interface {
	GenerateToken(userID string) (string, error)
	ValidateToken(tokenString string) (string, error)
}

// ResetTokens issues and consumes password reset secrets
type ResetTokens interface {
	Issue(ctx context.Context, userID string) (string, error)
	Consume(ctx context.Context, secret string) (string, error)
}

// AuthService orchestrates the account lifecycle: registration with email
// confirmation, login, profile and password updates, forgot/reset password.
type AuthService struct {
	repo        UserRepository
	tokens      SessionTokens
	resetTokens ResetTokens
	mailer      EmailSender
	frontendURL string
	logger      *slog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	repo UserRepository,
	tokens SessionTokens,
	resetTokens ResetTokens,
	mailer EmailSender,
	frontendURL string,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		resetTokens: resetTokens,
		mailer:      mailer,
		frontendURL: frontendURL,
		logger:      logger,
	}
}

// Profile is an account as presented to clients; it never carries the
// password hash.
type Profile struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	LastName string `json:"lName"`
	Email    string `json:"email"`
	Photo    string `json:"photo"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token   string   `json:"token"`
	Profile *Profile `json:"formatUser"`
}

// RegisterInput holds the registration fields. All are required.
type RegisterInput struct {
	Name     string
	LastName string
	Email    string
	Password string
	Phone    string
}

// UpdateProfileInput holds the mutable profile fields. Email selects the
// account; it is not changed.
type UpdateProfileInput struct {
	Name     string
	LastName string
	Email    string
	Phone    string
	Bio      string
}

// Register creates an unverified account and sends a confirmation email as a
// detached side effect. The caller gets the created account back; email
// failures never surface.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	_, err := s.repo.GetByEmail(ctx, input.Email)
	if err == nil {
		s.logger.Info("registration failed: email already registered",
			slog.String("email", pkglogger.SanitizedEmail(input.Email)))
		return nil, models.ErrConflict
	}
	if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check for existing account", slog.Any("error", err))
		return nil, err
	}

	verifyToken, err := randomToken()
	if err != nil {
		return nil, err
	}

	hashedPassword, err := pkgauth.HashPassword(input.Password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, err
	}

	user := &models.User{
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Name:         input.Name,
		LastName:     input.LastName,
		Phone:        input.Phone,
		IsVerified:   false,
		VerifyToken:  verifyToken,
	}

	createdUser, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create account", slog.Any("error", err))
		return nil, err
	}

	s.sendAsync(createdUser.Email, "Confirm account",
		confirmEmailBody(s.frontendURL, createdUser.VerifyToken))

	s.logger.Info("account registered", slog.String("user_id", createdUser.ID))
	return createdUser, nil
}

// Confirm marks the account owning the verify token as verified and clears
// the token. A token that matches nothing, including one already cleared,
// yields models.ErrLinkExpired.
func (s *AuthService) Confirm(ctx context.Context, verifyToken string) (*models.User, error) {
	user, err := s.repo.GetByVerifyToken(ctx, verifyToken)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("confirmation failed: no matching verify token")
			return nil, models.ErrLinkExpired
		}
		s.logger.Error("failed to look up verify token", slog.Any("error", err))
		return nil, err
	}

	if err := s.repo.MarkVerified(ctx, user.ID); err != nil {
		s.logger.Error("failed to mark account verified",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("account verified", slog.String("user_id", user.ID))
	return user, nil
}

// Login authenticates credentials and issues a session token. The three
// failure modes stay distinct for the caller's messaging.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: account not found",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, err
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: password mismatch", slog.String("user_id", user.ID))
		return nil, models.ErrPasswordIncorrect
	}

	if !user.IsVerified {
		s.logger.Info("login blocked: account not verified", slog.String("user_id", user.ID))
		return nil, models.ErrNotVerified
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate session token",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	return &LoginResult{Token: token, Profile: userToProfile(user)}, nil
}

// UpdateProfile overwrites name, last name, phone and bio on the account
// selected by the submitted email. The session's user id must equal that
// account's id; this indirection is the only authorization barrier.
func (s *AuthService) UpdateProfile(ctx context.Context, token string, input UpdateProfileInput) (*Profile, error) {
	sessionUserID, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, err
	}

	if user.ID != sessionUserID {
		s.logger.Info("profile update rejected: session does not own account",
			slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	user.Name = input.Name
	user.LastName = input.LastName
	user.Phone = input.Phone
	user.Bio = input.Bio

	updatedUser, err := s.repo.UpdateProfile(ctx, user.ID, user)
	if err != nil {
		s.logger.Error("failed to update profile",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("profile updated", slog.String("user_id", user.ID))
	return userToProfile(updatedUser), nil
}

// UpdatePhoto overwrites the photo URL on the account selected by the
// submitted email, subject to the same ownership check as UpdateProfile.
func (s *AuthService) UpdatePhoto(ctx context.Context, token, email, photo string) (*Profile, error) {
	sessionUserID, err := s.authenticate(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return nil, err
	}

	if user.ID != sessionUserID {
		s.logger.Info("photo update rejected: session does not own account",
			slog.String("user_id", user.ID))
		return nil, models.ErrUnauthorized
	}

	updatedUser, err := s.repo.UpdatePhoto(ctx, user.ID, photo)
	if err != nil {
		s.logger.Error("failed to update photo",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("photo updated", slog.String("user_id", user.ID))
	return userToProfile(updatedUser), nil
}

// ChangePassword replaces the stored hash after verifying the old password.
// The account lookup happens before the session check, matching the
// operation's documented failure ordering.
func (s *AuthService) ChangePassword(ctx context.Context, token, email, oldPassword, newPassword string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return err
	}

	sessionUserID, err := s.authenticate(token)
	if err != nil {
		return err
	}

	if user.ID != sessionUserID {
		s.logger.Info("password change rejected: session does not own account",
			slog.String("user_id", user.ID))
		return models.ErrUnauthorized
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, oldPassword); err != nil {
		s.logger.Info("password change rejected: old password mismatch",
			slog.String("user_id", user.ID))
		return models.ErrOldPasswordIncorrect
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return err
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		s.logger.Error("failed to update password",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return err
	}

	s.logger.Info("password changed", slog.String("user_id", user.ID))
	return nil
}

// ForgotPassword issues a reset token and emails its secret as a detached
// side effect. Returns the address the mail was sent to.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("forgot password: account not found")
			return "", models.ErrNotFound
		}
		s.logger.Error("failed to get account by email", slog.Any("error", err))
		return "", err
	}

	secret, err := s.resetTokens.Issue(ctx, user.ID)
	if err != nil {
		return "", err
	}

	s.sendAsync(user.Email, "Password Reset Request",
		resetEmailBody(s.frontendURL, user.Name, secret))

	return user.Email, nil
}

// ResetPassword consumes the presented secret and overwrites the owning
// account's password hash.
func (s *AuthService) ResetPassword(ctx context.Context, secret, newPassword string) error {
	userID, err := s.resetTokens.Consume(ctx, secret)
	if err != nil {
		return err
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash new password", slog.Any("error", err))
		return err
	}

	if err := s.repo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		s.logger.Error("failed to update password",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return err
	}

	s.logger.Info("password reset", slog.String("user_id", userID))
	return nil
}

// authenticate maps a raw bearer token to a user id. An empty token is
// unauthenticated; anything the codec rejects reads as an expired session.
func (s *AuthService) authenticate(token string) (string, error) {
	if token == "" {
		return "", models.ErrNoToken
	}

	userID, err := s.tokens.ValidateToken(token)
	if err != nil {
		return "", models.ErrSessionExpired
	}

	return userID, nil
}

// sendAsync delivers an email without awaiting the result. Failures are
// logged inside the mailer and can never reach a request's response path.
func (s *AuthService) sendAsync(to, subject, htmlBody string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		_ = s.mailer.Send(ctx, to, subject, htmlBody)
	}()
}

func userToProfile(user *models.User) *Profile {
	return &Profile{
		ID:       user.ID,
		Name:     user.Name,
		LastName: user.LastName,
		Email:    user.Email,
		Photo:    user.Photo,
		Phone:    user.Phone,
		Bio:      user.Bio,
	}
}

func randomToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

func confirmEmailBody(frontendURL, verifyToken string) string {
	link := fmt.Sprintf("%s/confirm/%s", frontendURL, verifyToken)
	return fmt.Sprintf(`
      <h2>Welcome!</h2>
      <p>Please use the link below to confirm your account</p>

      <a href=%s target="_blank">%s</a>

      <p>Regards...</p>
      <p>Inventory Team</p>
    `, link, link)
}

func resetEmailBody(frontendURL, name, secret string) string {
	link := fmt.Sprintf("%s/resetpassword/%s", frontendURL, secret)
	return fmt.Sprintf(`
      <h2>Hello %s</h2>
      <p>Please use the url below to reset your password</p>
      <p>This reset link is valid for only 30minutes.</p>

      <a href=%s target="_blank">%s</a>

      <p>Regards...</p>
      <p>Inventory Team</p>
    `, name, link, link)
}
