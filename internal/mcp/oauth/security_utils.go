package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// generateSecureToken generates a cryptographically secure random token of
// the given byte length, encoded as unpadded base64url.
func generateSecureToken(length int) (string, error) {
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate secure token: %w", err)
	}
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b), nil
}

// hashForLogging returns a short SHA-256 digest of a sensitive value so log
// entries can be correlated without exposing the value itself.
func hashForLogging(value string) string {
	if value == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(value))
	return hex.EncodeToString(hash[:])[:16]
}

// boolToString converts a bool to "true"/"false" for log attributes.
func boolToString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
