package oauth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// GenerateCodeVerifier generates a random code verifier for PKCE.
// The code verifier is a cryptographically random string using the characters
// [A-Z] / [a-z] / [0-9] / "-" / "." / "_" / "~" with a minimum length of 43
// characters and a maximum length of 128 characters (RFC 7636).
func GenerateCodeVerifier() (string, error) {
	// 32 bytes (256 bits) encode to exactly 43 base64url characters
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateCodeChallenge generates the code challenge from a code verifier
// using the S256 method: BASE64URL(SHA256(ASCII(code_verifier)))
func GenerateCodeChallenge(verifier string) string {
	h := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(h[:])
}

// ValidateCodeChallenge validates that the code verifier matches the code
// challenge using the specified method ("S256" or "plain").
func ValidateCodeChallenge(verifier, challenge, method string) bool {
	switch method {
	case "S256":
		return GenerateCodeChallenge(verifier) == challenge
	case "plain":
		return verifier == challenge
	case "":
		// No method recorded means the challenge was registered as plain
		return verifier == challenge
	default:
		return false
	}
}
