package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltBytes    = 24
	hashBytes    = 64
	pbkdf2Rounds = 10000
)

// PasswordEncoder derives salted password hashes. Encoding with the same
// password and salt is deterministic, which is what verification relies on;
// the plaintext is never retained.
type PasswordEncoder struct{}

func NewPasswordEncoder() *PasswordEncoder {
	return &PasswordEncoder{}
}

// Encode generates a fresh random salt and the derived hash for password.
func (e *PasswordEncoder) Encode(password string) (salt string, hash string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate salt: %w", err)
	}
	salt = hex.EncodeToString(raw)
	return salt, e.EncodeWithSalt(password, salt), nil
}

// EncodeWithSalt recomputes the hash for password under a known salt.
func (e *PasswordEncoder) EncodeWithSalt(password, salt string) string {
	derived := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Rounds, hashBytes, sha512.New)
	return hex.EncodeToString(derived)
}

// Verify reports whether candidate matches the stored salt/hash pair.
func (e *PasswordEncoder) Verify(candidate, salt, hash string) bool {
	recomputed := e.EncodeWithSalt(candidate, salt)
	return subtle.ConstantTimeCompare([]byte(recomputed), []byte(hash)) == 1
}
