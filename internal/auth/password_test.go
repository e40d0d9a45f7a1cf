package auth

import (
	"encoding/hex"
	"testing"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	password := "correct-horse-battery-staple"

	salt, hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// Salt and hash are hex-encoded with fixed lengths
	if len(salt) != pbkdf2SaltLen*2 {
		t.Errorf("salt hex length = %d, want %d", len(salt), pbkdf2SaltLen*2)
	}
	if len(hash) != pbkdf2KeyLen*2 {
		t.Errorf("hash hex length = %d, want %d", len(hash), pbkdf2KeyLen*2)
	}

	if _, err := hex.DecodeString(salt); err != nil {
		t.Errorf("salt is not valid hex: %v", err)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Errorf("hash is not valid hex: %v", err)
	}

	// Correct password should verify
	if !VerifyPassword(password, salt, hash) {
		t.Error("VerifyPassword() should return true for correct password")
	}
}

func TestHashPassword_WrongPassword(t *testing.T) {
	salt, hash, err := HashPassword("correct-password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if VerifyPassword("wrong-password", salt, hash) {
		t.Error("VerifyPassword() should return false for wrong password")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	password := "same-password"

	salt1, hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	salt2, hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if salt1 == salt2 {
		t.Error("two hashes of the same password should have different salts")
	}
	if hash1 == hash2 {
		t.Error("different salts should produce different hashes")
	}
}

func TestVerifyPassword_MalformedStoredValues(t *testing.T) {
	salt, hash, err := HashPassword("password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	tests := []struct {
		name string
		salt string
		hash string
	}{
		{"empty salt", "", hash},
		{"empty hash", salt, ""},
		{"non-hex salt", "zzzz", hash},
		{"non-hex hash", salt, "not-hex-at-all"},
		{"truncated hash", salt, hash[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("password", tt.salt, tt.hash) {
				t.Error("VerifyPassword() should return false for malformed stored values")
			}
		})
	}
}
