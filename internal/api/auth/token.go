package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenIssuer mints the opaque bearer tokens handed out at sign-in. Tokens
// are HS256-signed claims bound to the user's public id and the validity
// window, but the rest of the system treats them as lookup keys only:
// session validity is established against the store, never by decoding.
type TokenIssuer struct {
	secretKey []byte
	issuer    string
}

func NewTokenIssuer(secretKey, issuer string) *TokenIssuer {
	return &TokenIssuer{secretKey: []byte(secretKey), issuer: issuer}
}

// Issue produces the signed token string for the given identity and window.
func (t *TokenIssuer) Issue(userUUID string, issuedAt, expiresAt time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   userUUID,
		Issuer:    t.issuer,
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(t.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}
