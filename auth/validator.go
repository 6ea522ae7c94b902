package auth

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// TokenRequest is the payload of POST /auth/token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ValidateTokenRequest checks the token request before any lookup or
// cryptographic work happens.
func ValidateTokenRequest(req TokenRequest) error {
	return validate.Struct(req)
}
