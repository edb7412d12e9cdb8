package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockroom/stockroom/internal/database"
	"github.com/stockroom/stockroom/internal/models"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

const userColumns = `id, email, password_hash, name, last_name, phone, bio, photo, is_verified, verify_token, created_at, updated_at`

func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User

	err := scanner.Scan(
		&user.ID, &user.Email, &user.PasswordHash, &user.Name,
		&user.LastName, &user.Phone, &user.Bio, &user.Photo,
		&user.IsVerified, &user.VerifyToken,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, password_hash, name, last_name, phone, bio, photo, is_verified, verify_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	createdUser, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.Name,
		user.LastName, user.Phone, user.Bio, user.Photo,
		user.IsVerified, user.VerifyToken, user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	return createdUser, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

// GetByVerifyToken matches only pending confirmations; an empty token never
// matches anything.
func (r *UserRepository) GetByVerifyToken(ctx context.Context, verifyToken string) (*models.User, error) {
	if verifyToken == "" {
		return nil, models.ErrNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE verify_token = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, verifyToken))
}

// MarkVerified flips the account to verified and clears its verify token.
func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET is_verified = TRUE, verify_token = '', updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// UpdateProfile overwrites first name, last name, phone and bio.
func (r *UserRepository) UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error) {
	query := `
		UPDATE users SET name = $1, last_name = $2, phone = $3, bio = $4, updated_at = $5
		WHERE id = $6
		RETURNING ` + userColumns

	updatedUser, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.Name, user.LastName, user.Phone, user.Bio, time.Now(), id,
	))
	if err != nil {
		return nil, err
	}

	return updatedUser, nil
}

// UpdatePhoto overwrites the photo URL.
func (r *UserRepository) UpdatePhoto(ctx context.Context, id, photo string) (*models.User, error) {
	query := `
		UPDATE users SET photo = $1, updated_at = $2
		WHERE id = $3
		RETURNING ` + userColumns

	updatedUser, err := scanUserRow(r.pool.QueryRow(ctx, query, photo, time.Now(), id))
	if err != nil {
		return nil, err
	}

	return updatedUser, nil
}

// UpdatePassword overwrites the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, passwordHash, time.Now(), id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
