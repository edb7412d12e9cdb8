package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/stockroom/stockroom/internal/models"
)

// ResetTokenRepository defines the interface for reset token persistence
type ResetTokenRepository interface {
	Replace(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error
	Consume(ctx context.Context, tokenHash string, now time.Time) (string, error)
}

// PasswordResetService issues and consumes single-use, time-limited password
// reset secrets. Only the SHA-256 hash of a secret is ever stored.
type PasswordResetService struct {
	repo   ResetTokenRepository
	expiry time.Duration
	logger *slog.Logger
}

// NewPasswordResetService creates a new PasswordResetService
func NewPasswordResetService(repo ResetTokenRepository, expiry time.Duration, logger *slog.Logger) *PasswordResetService {
	return &PasswordResetService{
		repo:   repo,
		expiry: expiry,
		logger: logger,
	}
}

// Issue generates a fresh secret for the user, replacing any live token.
// The user id is appended to the random part before hashing so two accounts
// can never share a hash; the plaintext secret is returned for the emailed
// link and never persisted.
func (s *PasswordResetService) Issue(ctx context.Context, userID string) (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		s.logger.Error("failed to generate reset secret", slog.Any("error", err))
		return "", fmt.Errorf("failed to generate reset secret: %w", err)
	}

	secret := hex.EncodeToString(randomBytes) + userID
	tokenHash := hashSecret(secret)

	now := time.Now()
	if err := s.repo.Replace(ctx, userID, tokenHash, now, now.Add(s.expiry)); err != nil {
		s.logger.Error("failed to store reset token",
			slog.String("user_id", userID),
			slog.Any("error", err))
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	s.logger.Info("reset token issued", slog.String("user_id", userID))
	return secret, nil
}

// Consume redeems a presented secret exactly once. Wrong and expired secrets
// are indistinguishable to the caller: both return models.ErrLinkExpired.
func (s *PasswordResetService) Consume(ctx context.Context, secret string) (string, error) {
	if secret == "" {
		return "", models.ErrLinkExpired
	}

	userID, err := s.repo.Consume(ctx, hashSecret(secret), time.Now())
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("reset token miss")
			return "", models.ErrLinkExpired
		}
		s.logger.Error("failed to consume reset token", slog.Any("error", err))
		return "", err
	}

	s.logger.Info("reset token consumed", slog.String("user_id", userID))
	return userID, nil
}

func hashSecret(secret string) string {
	hash := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(hash[:])
}
