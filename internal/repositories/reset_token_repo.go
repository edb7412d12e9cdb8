package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stockroom/stockroom/internal/database"
	"github.com/stockroom/stockroom/internal/models"
)

// ResetTokenRepository persists password reset tokens. The schema enforces
// at most one live token per user; Replace keeps that invariant atomic by
// running delete-then-insert inside a single transaction.
type ResetTokenRepository struct {
	db *database.DB
}

func NewResetTokenRepository(db *database.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

// Replace deletes any existing token for the user and inserts the new one.
func (r *ResetTokenRepository) Replace(ctx context.Context, userID, tokenHash string, createdAt, expiresAt time.Time) error {
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("failed to delete existing reset token: %w", err)
		}

		_, err := tx.Exec(ctx, `
			INSERT INTO password_reset_tokens (user_id, token_hash, created_at, expires_at)
			VALUES ($1, $2, $3, $4)
		`, userID, tokenHash, createdAt, expiresAt)
		if err != nil {
			return fmt.Errorf("failed to insert reset token: %w", err)
		}

		return nil
	})
	if err != nil {
		return database.MapPostgresError(err)
	}

	return nil
}

// Consume deletes the live token matching the hash and returns its owner.
// A single conditional DELETE makes the token single-use: wrong hash and
// expired token are the same miss, with no separate code path.
func (r *ResetTokenRepository) Consume(ctx context.Context, tokenHash string, now time.Time) (string, error) {
	var userID string

	err := r.db.Pool.QueryRow(ctx, `
		DELETE FROM password_reset_tokens
		WHERE token_hash = $1 AND expires_at > $2
		RETURNING user_id
	`, tokenHash, now).Scan(&userID)
	if err != nil {
		return "", database.MapPostgresError(err)
	}

	return userID, nil
}

// GetByUserID returns the live token for a user, if any.
func (r *ResetTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	var token models.PasswordResetToken

	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM password_reset_tokens
		WHERE user_id = $1
	`, userID).Scan(&token.ID, &token.UserID, &token.TokenHash, &token.CreatedAt, &token.ExpiresAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &token, nil
}
