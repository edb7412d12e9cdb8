package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stockroom/stockroom/internal/auth"
	"github.com/stockroom/stockroom/internal/models"
	"github.com/stockroom/stockroom/internal/services"
	pkghttp "github.com/stockroom/stockroom/pkg/http"
)

// AuthService defines the interface for the account workflow logic
type AuthService interface {
	Register(ctx context.Context, input services.RegisterInput) (*models.User, error)
	Confirm(ctx context.Context, verifyToken string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.LoginResult, error)
	UpdateProfile(ctx context.Context, token string, input services.UpdateProfileInput) (*services.Profile, error)
	UpdatePhoto(ctx context.Context, token, email, photo string) (*services.Profile, error)
	ChangePassword(ctx context.Context, token, email, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) (string, error)
	ResetPassword(ctx context.Context, secret, newPassword string) error
}

// UserHandler handles the account lifecycle HTTP requests
type UserHandler struct {
	service AuthService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(service AuthService) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// Request DTOs

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	LastName string `json:"lName" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// LoginRequest represents the request body for login
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateUserRequest represents the request body for a profile update. The
// email selects the account; it is never changed.
type UpdateUserRequest struct {
	Name     string `json:"name"`
	LastName string `json:"lName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Bio      string `json:"bio"`
}

// UpdatePhotoRequest represents the request body for a photo update
type UpdatePhotoRequest struct {
	Email string `json:"email"`
	Photo string `json:"photo"`
}

// ChangePasswordRequest represents the request body for a password change
type ChangePasswordRequest struct {
	Email       string `json:"email"`
	OldPassword string `json:"oldpassword"`
	Password    string `json:"password"`
}

// ForgotPasswordRequest represents the request body for a reset request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents the request body for a password reset
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// Register handles POST /api/users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "all fields are mandotary")
		return
	}

	user, err := h.service.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			pkghttp.WriteBadRequest(w, "User already exists")
			return
		}
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteMessage(w, http.StatusCreated,
		fmt.Sprintf("account created successfully %s", user.Name))
}

// Confirm handles PATCH /api/users/confirm/{id}
func (h *UserHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	verifyToken := chi.URLParam(r, "id")

	user, err := h.service.Confirm(r.Context(), verifyToken)
	if err != nil {
		// Unknown token and persistence failure read the same to the client.
		pkghttp.WriteBadRequest(w, "user not exists or link expired")
		return
	}

	pkghttp.WriteMessage(w, http.StatusCreated,
		fmt.Sprintf("%s account has been verified successfully", user.Name))
}

// Login handles POST /api/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, "all fields are mandotary")
		return
	}

	result, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "user not exist/Please Sign-up")
		case errors.Is(err, models.ErrPasswordIncorrect):
			pkghttp.WriteUnauthorized(w, "password incorrect")
		case errors.Is(err, models.ErrNotVerified):
			pkghttp.WriteUnauthorized(w, "Account not verfied, kindly check your Email")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, result)
}

// UpdateUser handles PATCH /api/users/updateuser
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), token, services.UpdateProfileInput{
		Name:     req.Name,
		LastName: req.LastName,
		Email:    req.Email,
		Phone:    req.Phone,
		Bio:      req.Bio,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoToken):
			pkghttp.WriteUnauthorized(w, "Not Authorized")
		case errors.Is(err, models.ErrSessionExpired):
			pkghttp.WriteUnauthorized(w, "session timeout please login again")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "user not ")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteBadRequest(w, "user not exist")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// UpdateUserPhoto handles PATCH /api/users/updateuserphoto
func (h *UserHandler) UpdateUserPhoto(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)

	var req UpdatePhotoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	profile, err := h.service.UpdatePhoto(r.Context(), token, req.Email, req.Photo)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNoToken):
			pkghttp.WriteUnauthorized(w, "Not Authorized")
		case errors.Is(err, models.ErrSessionExpired):
			pkghttp.WriteUnauthorized(w, "session timeout please login again")
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "user not exist")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "user not authorized")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, profile)
}

// ChangePassword handles PATCH /api/users/changepassword
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	token := auth.TokenFromRequest(r)

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	err := h.service.ChangePassword(r.Context(), token, req.Email, req.OldPassword, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			pkghttp.WriteUnauthorized(w, "user not exist")
		case errors.Is(err, models.ErrNoToken):
			pkghttp.WriteUnauthorized(w, "Not Authorized")
		case errors.Is(err, models.ErrSessionExpired):
			pkghttp.WriteUnauthorized(w, "session timeout please login again")
		case errors.Is(err, models.ErrUnauthorized):
			pkghttp.WriteUnauthorized(w, "user not authorized")
		case errors.Is(err, models.ErrOldPasswordIncorrect):
			pkghttp.WriteUnauthorized(w, "old password incorrect")
		default:
			pkghttp.WriteBadRequest(w, err.Error())
		}
		return
	}

	// Success is a plain text body, not the usual JSON envelope.
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Password updated successfully"))
}

// ForgotPassword handles POST /api/users/forgotpassword
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	email, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			pkghttp.WriteBadRequest(w, "User not exists")
			return
		}
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteMessage(w, http.StatusCreated,
		fmt.Sprintf("Mail has been send to %s", email))
}

// ResetPassword handles PATCH /api/users/resetpassword/{resetToken}
func (h *UserHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	secret := chi.URLParam(r, "resetToken")

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), secret, req.Password); err != nil {
		if errors.Is(err, models.ErrLinkExpired) {
			pkghttp.WriteBadRequest(w, "Link Expired, Please try again")
			return
		}
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	pkghttp.WriteMessage(w, http.StatusOK, "Password updated Successfully, Please Login")
}
