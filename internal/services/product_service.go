package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/storage"
)

// ProductRepository defines the interface for product data access
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Product, error)
	Update(ctx context.Context, id string, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
}

// ProductInput holds the writable product fields plus an optional image
// payload. A nil ImageData means no file was attached.
type ProductInput struct {
	Name        string
	ItemCode    string
	Category    string
	Quantity    string
	Price       string
	Description string
	ImageData   []byte
	ImageName   string
	ImageType   string
}

// ProductService owns the inventory item lifecycle. Every operation is
// scoped to the authenticated owner; reads and writes against another
// account's items fail closed.
type ProductService struct {
	repo     ProductRepository
	uploader storage.Uploader
	logger   *slog.Logger
}

// NewProductService creates a new ProductService
func NewProductService(repo ProductRepository, uploader storage.Uploader, logger *slog.Logger) *ProductService {
	return &ProductService{
		repo:     repo,
		uploader: uploader,
		logger:   logger,
	}
}

// Create stores a new item for the owner, uploading the image first when one
// is attached. An upload failure aborts the create.
func (s *ProductService) Create(ctx context.Context, userID string, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		UserID:      userID,
		Name:        input.Name,
		ItemCode:    input.ItemCode,
		Category:    input.Category,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Description: input.Description,
	}

	if len(input.ImageData) > 0 {
		image, err := s.uploadImage(ctx, input)
		if err != nil {
			return nil, err
		}
		product.Image = *image
	}

	createdProduct, err := s.repo.Create(ctx, product)
	if err != nil {
		s.logger.Error("failed to create product", slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("product created",
		slog.String("product_id", createdProduct.ID),
		slog.String("user_id", userID))
	return createdProduct, nil
}

// Get returns one item. A missing item is ErrNotFound; an item owned by a
// different account is ErrUnauthorized.
func (s *ProductService) Get(ctx context.Context, userID, productID string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get product", slog.Any("error", err))
		return nil, err
	}

	if product.UserID != userID {
		s.logger.Info("product access rejected: not owner",
			slog.String("product_id", productID),
			slog.String("user_id", userID))
		return nil, models.ErrUnauthorized
	}

	return product, nil
}

// List returns the owner's items, newest first.
func (s *ProductService) List(ctx context.Context, userID string) ([]*models.Product, error) {
	products, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list products", slog.Any("error", err))
		return nil, err
	}

	return products, nil
}

// Update overwrites the mutable fields of an owned item. When no new image
// is attached the stored one is kept.
func (s *ProductService) Update(ctx context.Context, userID, productID string, input ProductInput) (*models.Product, error) {
	product, err := s.Get(ctx, userID, productID)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Category = input.Category
	product.Quantity = input.Quantity
	product.Price = input.Price
	product.Description = input.Description

	if len(input.ImageData) > 0 {
		image, err := s.uploadImage(ctx, input)
		if err != nil {
			return nil, err
		}
		product.Image = *image
	}

	updatedProduct, err := s.repo.Update(ctx, productID, product)
	if err != nil {
		s.logger.Error("failed to update product",
			slog.String("product_id", productID),
			slog.Any("error", err))
		return nil, err
	}

	s.logger.Info("product updated",
		slog.String("product_id", productID),
		slog.String("user_id", userID))
	return updatedProduct, nil
}

// Delete removes an owned item.
func (s *ProductService) Delete(ctx context.Context, userID, productID string) error {
	if _, err := s.Get(ctx, userID, productID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		s.logger.Error("failed to delete product",
			slog.String("product_id", productID),
			slog.Any("error", err))
		return err
	}

	s.logger.Info("product deleted",
		slog.String("product_id", productID),
		slog.String("user_id", userID))
	return nil
}

func (s *ProductService) uploadImage(ctx context.Context, input ProductInput) (*models.ProductImage, error) {
	result, err := s.uploader.Upload(ctx, input.ImageData, input.ImageName, input.ImageType)
	if err != nil {
		s.logger.Error("failed to upload product image",
			slog.String("file_name", input.ImageName),
			slog.Any("error", err))
		return nil, models.ErrUploadFailed
	}

	return &models.ProductImage{
		FileName: input.ImageName,
		FilePath: result.URL,
		FileType: result.MimeType,
		FileSize: result.Size,
	}, nil
}
