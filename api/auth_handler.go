package api

import (
	"encoding/json"
	goerrors "errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"sup-api/auth"
	"sup-api/errors"
	"sup-api/services"
)

// AuthHandler exchanges Basic credentials for a bearer token, so clients do
// not have to send the password on every call.
type AuthHandler struct {
	users  services.IUserService
	issuer *auth.TokenIssuer
	log    *slog.Logger
}

func NewAuthHandler(users services.IUserService, issuer *auth.TokenIssuer, log *slog.Logger) *AuthHandler {
	return &AuthHandler{users: users, issuer: issuer, log: log}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *gin.Context) {
	var req auth.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": bindFailureMessage(err)})
		return
	}
	if err := auth.ValidateTokenRequest(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": tokenRequestMessage(err)})
		return
	}

	identity, err := h.users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	token, err := h.issuer.Issue(identity.ID, identity.Username)
	if err != nil {
		respondError(c, h.log, errors.ErrTokenGeneration)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// bindFailureMessage names what went wrong during decoding: a wrong-typed
// field is reported by name, an empty body as the first missing field, and
// anything else as a malformed body.
func bindFailureMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	switch {
	case goerrors.As(err, &typeErr) && typeErr.Field != "":
		return "Incorrect field type: " + strings.ToLower(typeErr.Field)
	case goerrors.Is(err, io.EOF):
		return "Missing field: username"
	default:
		return "Invalid request body"
	}
}

// tokenRequestMessage names the first failing field the way the rest of the
// API reports validation failures.
func tokenRequestMessage(err error) string {
	var fieldErrors validator.ValidationErrors
	if goerrors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
		return "Missing field: " + strings.ToLower(fieldErrors[0].Field())
	}
	return "Missing field: username"
}
