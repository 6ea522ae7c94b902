package auth

import (
	"strings"

	"github.com/gin-gonic/gin"

	"sup-api/errors"
)

// Gin context keys under which the authenticated identity is stored.
const (
	UserIDKey   = "auth_user_id"
	UsernameKey = "auth_username"
)

// Identity is the authenticated caller handed to downstream handlers.
type Identity struct {
	ID       string
	Username string
}

// CredentialChecker resolves credentials against the credential store.
// Implemented by the user service; kept as an interface so the middleware
// stays free of storage concerns.
type CredentialChecker interface {
	// Authenticate verifies a username/password pair and returns the
	// matching identity, or errors.ErrUnauthenticated.
	Authenticate(username, password string) (Identity, error)
	// IdentityByID resolves a user id from a verified token back to a
	// live identity, so deleted users lose access immediately.
	IdentityByID(id string) (Identity, error)
}

// Middleware authenticates every request with HTTP Basic credentials, or a
// bearer token previously issued by POST /auth/token. On failure it writes
// 401 and aborts the chain so handlers never run unauthenticated.
func Middleware(creds CredentialChecker, issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := authenticate(c, creds, issuer)
		if err != nil {
			status, message := errors.HTTPStatus(errors.ErrUnauthenticated)
			c.AbortWithStatusJSON(status, gin.H{"message": message})
			return
		}
		c.Set(UserIDKey, identity.ID)
		c.Set(UsernameKey, identity.Username)
		c.Next()
	}
}

func authenticate(c *gin.Context, creds CredentialChecker, issuer *TokenIssuer) (Identity, error) {
	header := c.GetHeader("Authorization")

	if token, ok := strings.CutPrefix(header, "Bearer "); ok && issuer != nil {
		claims, err := issuer.Verify(token)
		if err != nil {
			return Identity{}, errors.ErrUnauthenticated
		}
		return creds.IdentityByID(claims.UserID)
	}

	username, password, ok := c.Request.BasicAuth()
	if !ok {
		return Identity{}, errors.ErrUnauthenticated
	}
	return creds.Authenticate(username, password)
}

// CallerID returns the authenticated user id set by Middleware.
func CallerID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
