package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")

	// Auth workflow errors
	ErrFieldsMissing        = errors.New("required fields missing")
	ErrNoToken              = errors.New("no bearer token")
	ErrSessionExpired       = errors.New("session expired")
	ErrPasswordIncorrect    = errors.New("password incorrect")
	ErrOldPasswordIncorrect = errors.New("old password incorrect")
	ErrNotVerified          = errors.New("account not verified")
	ErrLinkExpired          = errors.New("link expired or invalid")

	// Collaborator errors
	ErrUploadFailed = errors.New("upload failed")
)
