// Package secret hashes and verifies shared secrets such as service API keys.
package secret

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default cost for bcrypt hashing
	DefaultCost = bcrypt.DefaultCost
)

var (
	ErrInvalidSecret   = errors.New("invalid secret")
	ErrEmptySecret     = errors.New("secret cannot be empty")
	ErrHashingSecret   = errors.New("error hashing secret")
	ErrVerifyingSecret = errors.New("error verifying secret")
)

// Hash generates a bcrypt hash of the secret
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrHashingSecret, err)
	}

	return string(bytes), nil
}

// Verify checks if the provided secret matches the hash
func Verify(secret, hash string) error {
	if secret == "" || hash == "" {
		return ErrInvalidSecret
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidSecret
		}

		return fmt.Errorf("%w: %w", ErrVerifyingSecret, err)
	}

	return nil
}
