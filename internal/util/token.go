package util

import (
	"crypto/rand"
	"encoding/base64"
)

// GenerateToken returns a 32-byte URL-safe random API key.
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
