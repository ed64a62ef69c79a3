package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_Issue(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "go-quora-api")
	issuedAt := time.Now().Truncate(time.Second)
	expiresAt := issuedAt.Add(10 * time.Hour)

	token, err := issuer.Issue("user-uuid-1", issuedAt, expiresAt)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// The token is opaque to the guard, but it must still be a well-formed
	// signed JWT carrying the subject and window it was issued with.
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims := parsed.Claims.(*jwt.RegisteredClaims)
	assert.Equal(t, "user-uuid-1", claims.Subject)
	assert.Equal(t, "go-quora-api", claims.Issuer)
	assert.Equal(t, issuedAt.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, expiresAt.Unix(), claims.ExpiresAt.Unix())
}

func TestTokenIssuer_DistinctTokensPerSession(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", "go-quora-api")
	now := time.Now()

	token1, err := issuer.Issue("user-uuid-1", now, now.Add(time.Hour))
	require.NoError(t, err)
	token2, err := issuer.Issue("user-uuid-1", now.Add(time.Second), now.Add(time.Hour))
	require.NoError(t, err)
	assert.NotEqual(t, token1, token2)
}
