package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-notes-api/pkg/apierror"
)

const bcryptCost = 12

// HashPassword produces a salted one-way hash of the plaintext. bcrypt
// embeds a fresh random salt in every hash it generates.
func HashPassword(plaintext string) (string, error) {
	if strings.TrimSpace(plaintext) == "" {
		return "", apierror.Validation("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcryptCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// VerifyPassword reports whether plaintext matches the stored hash.
// bcrypt's comparison is constant-time.
func VerifyPassword(plaintext string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
