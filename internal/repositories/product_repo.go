package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stockroom/stockroom/internal/database"
	"github.com/stockroom/stockroom/internal/models"
)

// ProductRepository is the object store for inventory items: create, read,
// list-by-owner, update and delete against single rows.
type ProductRepository struct {
	pool *pgxpool.Pool
}

func NewProductRepository(db *database.DB) *ProductRepository {
	return &ProductRepository{pool: db.Pool}
}

const productColumns = `id, user_id, name, item_code, category, quantity, price, description,
	image_file_name, image_file_path, image_file_type, image_file_size, created_at, updated_at`

func scanProductRow(scanner rowScanner) (*models.Product, error) {
	var p models.Product

	err := scanner.Scan(
		&p.ID, &p.UserID, &p.Name, &p.ItemCode, &p.Category,
		&p.Quantity, &p.Price, &p.Description,
		&p.Image.FileName, &p.Image.FilePath, &p.Image.FileType, &p.Image.FileSize,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &p, nil
}

func scanProductRows(rows pgx.Rows) ([]*models.Product, error) {
	defer rows.Close()

	products := make([]*models.Product, 0)

	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	product.ID = uuid.New().String()

	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO products (id, user_id, name, item_code, category, quantity, price, description,
			image_file_name, image_file_path, image_file_type, image_file_size, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + productColumns

	createdProduct, err := scanProductRow(r.pool.QueryRow(ctx, query,
		product.ID, product.UserID, product.Name, product.ItemCode, product.Category,
		product.Quantity, product.Price, product.Description,
		product.Image.FileName, product.Image.FilePath, product.Image.FileType, product.Image.FileSize,
		product.CreatedAt, product.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	return createdProduct, nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	return scanProductRow(r.pool.QueryRow(ctx, query, id))
}

// ListByOwner returns a user's products, newest first.
func (r *ProductRepository) ListByOwner(ctx context.Context, userID string) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}

	return scanProductRows(rows)
}

func (r *ProductRepository) Update(ctx context.Context, id string, product *models.Product) (*models.Product, error) {
	query := `
		UPDATE products SET name = $1, category = $2, quantity = $3, price = $4, description = $5,
			image_file_name = $6, image_file_path = $7, image_file_type = $8, image_file_size = $9,
			updated_at = $10
		WHERE id = $11
		RETURNING ` + productColumns

	updatedProduct, err := scanProductRow(r.pool.QueryRow(ctx, query,
		product.Name, product.Category, product.Quantity, product.Price, product.Description,
		product.Image.FileName, product.Image.FilePath, product.Image.FileType, product.Image.FileSize,
		time.Now(), id,
	))
	if err != nil {
		return nil, err
	}

	return updatedProduct, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}

	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}
