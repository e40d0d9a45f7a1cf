package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PBKDF2 parameters. The salt and derived key are stored hex-encoded
// alongside each credential, so these values are part of the on-disk format.
const (
	pbkdf2Iterations = 100_000
	pbkdf2KeyLen     = 32 // output hash length
	pbkdf2SaltLen    = 16 // salt length
)

// HashPassword derives a salted PBKDF2-HMAC-SHA256 hash from a plaintext
// password. It returns the salt and derived key as lowercase hex strings.
func HashPassword(password string) (saltHex, hashHex string, err error) {
	salt := make([]byte, pbkdf2SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	hash := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return hex.EncodeToString(salt), hex.EncodeToString(hash), nil
}

// VerifyPassword checks a plaintext password against a stored hex salt and
// hex hash. The comparison is constant-time. Returns false for malformed
// stored values rather than an error; a corrupt record must never verify.
func VerifyPassword(password, saltHex, hashHex string) bool {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	stored, err := hex.DecodeString(hashHex)
	if err != nil || len(stored) != pbkdf2KeyLen {
		return false
	}

	candidate := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)

	return subtle.ConstantTimeCompare(stored, candidate) == 1
}
