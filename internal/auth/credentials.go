package auth

import (
	"crypto/subtle"
	"errors"

	"intake-backend/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// Credentials checks a username/password pair against the configured admin.
type Credentials struct {
	admin models.AdminUser
}

func NewCredentials(username string, passwordHash string) *Credentials {
	return &Credentials{admin: models.AdminUser{
		Username:     username,
		PasswordHash: []byte(passwordHash),
	}}
}

// Verify returns ErrInvalidCredential on a mismatch. Any other error means the
// stored hash could not be evaluated.
func (c *Credentials) Verify(username, password string) error {
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.admin.Username)) != 1 {
		return ErrInvalidCredential
	}
	err := bcrypt.CompareHashAndPassword(c.admin.PasswordHash, []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredential
	}
	return err
}

func (c *Credentials) Username() string {
	return c.admin.Username
}

// HashPassword produces the ADMIN_PASSWORD_HASH value; see cmd/hash-password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
