package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordResetService_Issue_StoresHashNotSecret(t *testing.T) {
	var storedHash string
	var storedExpiry time.Time
	mockRepo := &MockResetTokenRepository{
		ReplaceFunc: func(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error {
			assert.Equal(t, "user123", userID)
			storedHash = tokenHash
			storedExpiry = expiresAt
			return nil
		},
	}

	service := NewPasswordResetService(mockRepo, 30*time.Minute, slog.Default())

	secret, err := service.Issue(context.Background(), "user123")

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(secret, "user123"))
	assert.Len(t, secret, 64+len("user123")) // 32 random bytes hex-encoded plus the id

	expected := sha256.Sum256([]byte(secret))
	assert.Equal(t, hex.EncodeToString(expected[:]), storedHash)
	assert.NotContains(t, storedHash, secret)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), storedExpiry, 5*time.Second)
}

func TestPasswordResetService_Issue_SecretsDiffer(t *testing.T) {
	mockRepo := &MockResetTokenRepository{
		ReplaceFunc: func(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error {
			return nil
		},
	}

	service := NewPasswordResetService(mockRepo, 30*time.Minute, slog.Default())

	first, err := service.Issue(context.Background(), "user123")
	require.NoError(t, err)
	second, err := service.Issue(context.Background(), "user123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordResetService_Consume_RoundTrip(t *testing.T) {
	var storedHash string
	mockRepo := &MockResetTokenRepository{
		ReplaceFunc: func(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error {
			storedHash = tokenHash
			return nil
		},
		ConsumeFunc: func(ctx context.Context, tokenHash string, now time.Time) (string, error) {
			if tokenHash == storedHash {
				return "user123", nil
			}
			return "", models.ErrNotFound
		},
	}

	service := NewPasswordResetService(mockRepo, 30*time.Minute, slog.Default())

	secret, err := service.Issue(context.Background(), "user123")
	require.NoError(t, err)

	userID, err := service.Consume(context.Background(), secret)
	require.NoError(t, err)
	assert.Equal(t, "user123", userID)
}

func TestPasswordResetService_Consume_WrongSecret(t *testing.T) {
	service := NewPasswordResetService(&MockResetTokenRepository{}, 30*time.Minute, slog.Default())

	userID, err := service.Consume(context.Background(), "never-issued")

	assert.ErrorIs(t, err, models.ErrLinkExpired)
	assert.Empty(t, userID)
}

func TestPasswordResetService_Consume_EmptySecret(t *testing.T) {
	called := false
	mockRepo := &MockResetTokenRepository{
		ConsumeFunc: func(ctx context.Context, tokenHash string, now time.Time) (string, error) {
			called = true
			return "", models.ErrNotFound
		},
	}

	service := NewPasswordResetService(mockRepo, 30*time.Minute, slog.Default())

	_, err := service.Consume(context.Background(), "")

	assert.ErrorIs(t, err, models.ErrLinkExpired)
	assert.False(t, called)
}
