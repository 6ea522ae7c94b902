package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_TokenIssuer_Roundtrip(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("user-id", "joe")
	req.NoError(err)
	req.NotEmpty(token)

	claims, err := issuer.Verify(token)
	req.NoError(err)
	req.Equal("user-id", claims.UserID)
	req.Equal("joe", claims.Username)
}

func Test_TokenIssuer_Rejects_Foreign_Signature(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", time.Hour)
	other := NewTokenIssuer("other-secret", time.Hour)

	token, err := issuer.Issue("user-id", "joe")
	req.NoError(err)

	_, err = other.Verify(token)
	req.Error(err)
}

func Test_TokenIssuer_Rejects_Expired_Token(t *testing.T) {
	req := require.New(t)
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue("user-id", "joe")
	req.NoError(err)

	_, err = issuer.Verify(token)
	req.Error(err)
}

func Test_ValidateTokenRequest(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateTokenRequest(TokenRequest{Username: "joe", Password: "abcd"}))
	req.Error(ValidateTokenRequest(TokenRequest{Password: "abcd"}))
	req.Error(ValidateTokenRequest(TokenRequest{Username: "joe"}))
}
