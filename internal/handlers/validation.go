package handlers

import (
	"github.com/go-playground/validator/v10"
)

// Global validator instance (reused across all handlers)
var validate = validator.New()

// ValidateRequest validates a request struct using go-playground/validator.
// Callers translate a failure into their operation's own message; field-level
// detail is never exposed on the wire.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
