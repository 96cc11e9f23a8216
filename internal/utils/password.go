package utils // helpers for password hashing and token issuing

import (
	"crypto/rand"
	"crypto/sha1"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// Key-derivation parameters are fixed at compile time so no two installations
// can diverge. Changing any of them invalidates every stored hash.
const (
	pbkdf2Iterations = 10000
	pbkdf2KeyLen     = 32
	saltLen          = 16
)

// HashPassword derives a base64 digest from the password and salt. It is
// deterministic over its inputs and has no error conditions.
func HashPassword(password string, salt []byte) string {
	key := pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha1.New)
	return base64.StdEncoding.EncodeToString(key)
}

// NewSalt returns a fresh cryptographically random salt. A new salt is drawn
// every time a password is set or reset, never reused.
func NewSalt() ([]byte, error) {
	buf := make([]byte, saltLen)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}
