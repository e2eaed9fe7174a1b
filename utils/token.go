package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// APIKeyBytes is the entropy of an issued key; the hex form is twice as long.
const APIKeyBytes = 32

// GenerateRandomToken returns n random bytes from crypto/rand, hex-encoded.
func GenerateRandomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func GenerateAPIKey() (string, error) {
	return GenerateRandomToken(APIKeyBytes)
}
