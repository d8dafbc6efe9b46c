// Package apikey hashes and verifies the shared key internal producers present on the ingest endpoint.
package apikey

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultCost = bcrypt.DefaultCost
	keyBytes    = 32
)

var (
	ErrInvalidKey = errors.New("invalid api key")
	ErrEmptyKey   = errors.New("api key cannot be empty")
)

// Generate returns a random hex encoded key.
func Generate() (string, error) {
	buf := make([]byte, keyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

// Hash generates a bcrypt hash of the key, suitable for API_KEY_HASH.
func Hash(key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(key), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}

	return string(hashed), nil
}

// Verify checks key against hash and returns ErrInvalidKey on mismatch.
func Verify(key, hash string) error {
	if key == "" || hash == "" {
		return ErrInvalidKey
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(key))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidKey
		}

		return fmt.Errorf("failed to verify api key: %w", err)
	}

	return nil
}
