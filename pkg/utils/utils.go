package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

type Map map[string]string

// GenerateStateToken returns a random hex nonce for the OAuth state parameter.
func GenerateStateToken() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
