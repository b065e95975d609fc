package oauth

import (
	"strings"
	"testing"
)

func TestGenerateCodeVerifier(t *testing.T) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	// 32 random bytes encode to exactly 43 base64url characters
	if len(verifier) != 43 {
		t.Errorf("verifier length = %d, want 43", len(verifier))
	}
	if strings.ContainsAny(verifier, "+/=") {
		t.Errorf("verifier %q contains non-base64url characters", verifier)
	}
}

func TestGenerateCodeVerifierUnique(t *testing.T) {
	a, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	b, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	if a == b {
		t.Error("two verifiers are identical")
	}
}

func TestGenerateCodeChallenge(t *testing.T) {
	// RFC 7636 appendix B test vector
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	expected := "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	if got := GenerateCodeChallenge(verifier); got != expected {
		t.Errorf("GenerateCodeChallenge(%q) = %q, want %q", verifier, got, expected)
	}
}

func TestValidateCodeChallenge(t *testing.T) {
	verifier := "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	challenge := GenerateCodeChallenge(verifier)

	tests := []struct {
		name      string
		verifier  string
		challenge string
		method    string
		expected  bool
	}{
		{name: "S256 match", verifier: verifier, challenge: challenge, method: "S256", expected: true},
		{name: "S256 mismatch", verifier: "wrong-verifier", challenge: challenge, method: "S256", expected: false},
		{name: "plain match", verifier: verifier, challenge: verifier, method: "plain", expected: true},
		{name: "plain mismatch", verifier: verifier, challenge: challenge, method: "plain", expected: false},
		{name: "empty method treated as plain", verifier: verifier, challenge: verifier, method: "", expected: true},
		{name: "empty method mismatch", verifier: verifier, challenge: challenge, method: "", expected: false},
		{name: "unknown method", verifier: verifier, challenge: challenge, method: "S512", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateCodeChallenge(tt.verifier, tt.challenge, tt.method); got != tt.expected {
				t.Errorf("ValidateCodeChallenge(%q, %q, %q) = %v, want %v",
					tt.verifier, tt.challenge, tt.method, got, tt.expected)
			}
		})
	}
}

func TestRoundTripVerifierChallenge(t *testing.T) {
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}
	challenge := GenerateCodeChallenge(verifier)
	if !ValidateCodeChallenge(verifier, challenge, "S256") {
		t.Error("generated verifier does not validate against its own challenge")
	}
}
