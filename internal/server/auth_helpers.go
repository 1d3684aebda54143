package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// hashAPIKey returns the hex-encoded SHA-256 of an API key. Only the
// hash is ever stored.
func hashAPIKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:])
}

// truncateHash shortens a key hash for log output.
func truncateHash(keyHash string) string {
	if len(keyHash) <= 12 {
		return keyHash
	}
	return keyHash[:12] + "..."
}

// generateAPIKey creates a new random API key with the stk_ prefix.
func generateAPIKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate API key: %w", err)
	}
	return apiKeyPrefix + hex.EncodeToString(buf), nil
}
