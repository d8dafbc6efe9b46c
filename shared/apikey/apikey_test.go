package apikey_test

import (
	"errors"
	"itinera/shared/apikey"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestGenerate(t *testing.T) {
	first, err := apikey.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := apikey.Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first) != 64 {
		t.Errorf("expected 64 hex characters, got %d", len(first))
	}

	if first == second {
		t.Error("expected two generated keys to differ")
	}
}

func TestHash(t *testing.T) {
	tests := []struct {
		name        string
		key         string
		expectedErr error
	}{
		{name: "valid key", key: "3f1c9a0b7d"},
		{name: "empty key", key: "", expectedErr: apikey.ErrEmptyKey},
		{name: "key with special characters", key: "k3y!#$%^&*()"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := apikey.Hash(tt.key)

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Errorf("expected error %v, got %v", tt.expectedErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !strings.HasPrefix(hash, "$2a$") {
				t.Errorf("expected bcrypt hash, got %s", hash)
			}

			cost, err := bcrypt.Cost([]byte(hash))
			if err != nil || cost != apikey.DefaultCost {
				t.Errorf("expected cost %d, got %d (%v)", apikey.DefaultCost, cost, err)
			}
		})
	}
}

func TestHashRejectsOversizedKey(t *testing.T) {
	if _, err := apikey.Hash(strings.Repeat("a", 100)); err == nil {
		t.Error("expected keys longer than 72 bytes to be rejected")
	}
}

func TestVerify(t *testing.T) {
	hash, err := apikey.Hash("internal-producer-key")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name        string
		key         string
		hash        string
		expectedErr error
	}{
		{name: "matching key", key: "internal-producer-key", hash: hash},
		{name: "wrong key", key: "other-key", hash: hash, expectedErr: apikey.ErrInvalidKey},
		{name: "empty key", key: "", hash: hash, expectedErr: apikey.ErrInvalidKey},
		{name: "empty hash", key: "internal-producer-key", hash: "", expectedErr: apikey.ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := apikey.Verify(tt.key, tt.hash)
			if !errors.Is(err, tt.expectedErr) {
				t.Errorf("expected %v, got %v", tt.expectedErr, err)
			}
		})
	}

	if err := apikey.Verify("internal-producer-key", "not-a-bcrypt-hash"); err == nil || errors.Is(err, apikey.ErrInvalidKey) {
		t.Errorf("expected malformed hash error, got %v", err)
	}
}
