package errors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnauthenticated = fmt.Errorf("unauthenticated")
	ErrForbidden       = fmt.Errorf("forbidden")
	ErrUserNotFound    = fmt.Errorf("user not found")
	ErrMessageNotFound = fmt.Errorf("message not found")
	ErrUsernameTaken   = fmt.Errorf("username already taken")
	ErrTokenGeneration = fmt.Errorf("token generation failed")
)

// Validation carries the exact client-facing message for a 422 response,
// e.g. "Missing field: username" or "Incorrect field value: from".
type Validation struct {
	Message string
}

func (v *Validation) Error() string {
	return v.Message
}

// NewValidation builds a Validation error from a rule name and the field it failed on.
func NewValidation(rule, field string) *Validation {
	return &Validation{Message: fmt.Sprintf("%s: %s", rule, field)}
}

// HTTPStatus maps a domain error to the status code and body message the API
// contract requires. Unknown errors are reported as a generic 500 so that
// store internals never leak to clients.
func HTTPStatus(err error) (int, string) {
	var validation *Validation
	switch {
	case errors.As(err, &validation):
		return http.StatusUnprocessableEntity, validation.Message
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	case errors.Is(err, ErrMessageNotFound):
		return http.StatusNotFound, "Message not found"
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusUnprocessableEntity, "Incorrect field value: username"
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}
