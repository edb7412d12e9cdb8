package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/services"
	pkghttp "github.com/stockroom/stockroom/pkg/http"
)

const maxUploadSize = 32 << 20 // 32 MB

// ProductService defines the interface for inventory item logic
type ProductService interface {
	Create(ctx context.Context, userID string, input services.ProductInput) (*models.Product, error)
	Get(ctx context.Context, userID, productID string) (*models.Product, error)
	List(ctx context.Context, userID string) ([]*models.Product, error)
	Update(ctx context.Context, userID, productID string, input services.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, userID, productID string) error
}

// TokenValidator verifies a session token and returns the owning user id
type TokenValidator interface {
	ValidateToken(tokenString string) (string, error)
}

// ProductHandler handles inventory item HTTP requests. Every route requires a
// session token; the bearer form is validated per request rather than in
// middleware so each operation keeps its own failure message.
type ProductHandler struct {
	service ProductService
	tokens  TokenValidator
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(service ProductService, tokens TokenValidator) *ProductHandler {
	return &ProductHandler{
		service: service,
		tokens:  tokens,
	}
}

// CreateProductForm represents the multipart fields for creating an item.
// itemCode is optional.
type CreateProductForm struct {
	Name        string `validate:"required"`
	Category    string `validate:"required"`
	Quantity    string `validate:"required"`
	Price       string `validate:"required"`
	Description string `validate:"required"`
}

// UpdatedProductListResponse is the delete response payload: the owner's
// refreshed item list.
type UpdatedProductListResponse struct {
	UpdatedProductList []*models.Product `json:"updatedProductList"`
}

// authenticate resolves the request's session to a user id, writing the
// operation-specific message for a missing token.
func (h *ProductHandler) authenticate(w http.ResponseWriter, r *http.Request, noTokenMessage string) (string, bool) {
	token := auth.TokenFromRequest(r)
	if token == "" {
		pkghttp.WriteUnauthorized(w, noTokenMessage)
		return "", false
	}

	userID, err := h.tokens.ValidateToken(token)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "session timeout please login again")
		return "", false
	}

	return userID, true
}

// productInput collects the writable fields plus the optional image part from
// a multipart (or urlencoded) form.
func productInput(r *http.Request) (services.ProductInput, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return services.ProductInput{}, err
	}

	input := services.ProductInput{
		Name:        r.FormValue("name"),
		ItemCode:    r.FormValue("itemCode"),
		Category:    r.FormValue("category"),
		Quantity:    r.FormValue("quantity"),
		Price:       r.FormValue("price"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return input, nil
		}
		return services.ProductInput{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.ProductInput{}, err
	}

	input.ImageData = data
	input.ImageName = header.Filename
	input.ImageType = header.Header.Get("Content-Type")

	return input, nil
}

// CreateProduct handles POST /api/products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, "Not Authorized")
	if !ok {
		return
	}

	input, err := productInput(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	form := CreateProductForm{
		Name:        input.Name,
		Category:    input.Category,
		Quantity:    input.Quantity,
		Price:       input.Price,
		Description: input.Description,
	}
	if err := ValidateRequest(form); err != nil {
		pkghttp.WriteUnauthorized(w, "Please fill all fields")
		return
	}

	if _, err := h.service.Create(r.Context(), userID, input); err != nil {
		if errors.Is(err, models.ErrUploadFailed) {
			pkghttp.WriteInternalError(w, "Image could not be uploaded")
			return
		}
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteMessage(w, http.StatusCreated, "Item added Successfully")
}

// GetProducts handles GET /api/products
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, "not Authorized")
	if !ok {
		return
	}

	products, err := h.service.List(r.Context(), userID)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, products)
}

// GetProduct handles GET /api/products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, "not authorized")
	if !ok {
		return
	}

	product, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "product not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "User not Authorized")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, product)
}

// DeleteProduct handles DELETE /api/products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, "Not Authorized")
	if !ok {
		return
	}

	err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "Product not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "User not Authorized")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	products, err := h.service.List(r.Context(), userID)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, UpdatedProductListResponse{UpdatedProductList: products})
}

// UpdateProduct handles PATCH /api/products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.authenticate(w, r, "not Authorized")
	if !ok {
		return
	}

	input, err := productInput(r)
	if err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	_, err = h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), input)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteNotFound(w, "product not found")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "User not Authorized")
		case errors.Is(err, models.ErrUploadFailed):
			pkghttp.WriteInternalError(w, "Image could not be uploaded")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, "Item updated Successfully")
}
