package oauth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// newTestHandler creates a handler on a loopback resource with fast expiry
// defaults. The modify callback can adjust the config before construction.
func newTestHandler(t *testing.T, modify func(*Config)) *Handler {
	t.Helper()
	config := DefaultConfig("http://localhost:8080")
	if modify != nil {
		modify(config)
	}
	h, err := NewHandler(config)
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	return h
}

// registerTestClient registers a public client for the given redirect URI and
// returns its ID.
func registerTestClient(t *testing.T, h *Handler, redirectURI string) string {
	t.Helper()
	body, _ := json.Marshal(ClientRegistrationRequest{
		RedirectURIs:            []string{redirectURI},
		TokenEndpointAuthMethod: "none",
		ClientName:              "test client",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeDynamicClientRegistration(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("registration status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp ClientRegistrationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode registration response: %v", err)
	}
	return resp.ClientID
}

func TestNewHandlerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil config", config: nil, wantErr: true},
		{name: "missing resource", config: &Config{}, wantErr: true},
		{name: "http on public host", config: DefaultConfig("http://garmin-mcp.example.com"), wantErr: true},
		{name: "http on localhost", config: DefaultConfig("http://localhost:8080"), wantErr: false},
		{name: "http on 127.0.0.1", config: DefaultConfig("http://127.0.0.1:8080"), wantErr: false},
		{name: "https on public host", config: DefaultConfig("https://garmin-mcp.example.com"), wantErr: false},
		{
			name: "allow-list without github credentials",
			config: func() *Config {
				c := DefaultConfig("http://localhost:8080")
				c.AllowedUser = "octocat"
				return c
			}(),
			wantErr: true,
		},
		{
			name: "allow-list with github credentials",
			config: func() *Config {
				c := DefaultConfig("http://localhost:8080")
				c.AllowedUser = "octocat"
				c.GitHubAuth = GitHubAuthConfig{ClientID: "id", ClientSecret: "secret"}
				return c
			}(),
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHandler(tt.config)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewHandler() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProtectedResourceMetadata(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-protected-resource", nil)
	rec := httptest.NewRecorder()
	h.ServeProtectedResourceMetadata(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var metadata ProtectedResourceMetadata
	if err := json.NewDecoder(rec.Body).Decode(&metadata); err != nil {
		t.Fatalf("failed to decode metadata: %v", err)
	}
	if metadata.Resource != "http://localhost:8080" {
		t.Errorf("resource = %q, want %q", metadata.Resource, "http://localhost:8080")
	}
	if len(metadata.AuthorizationServers) != 1 || metadata.AuthorizationServers[0] != "http://localhost:8080" {
		t.Errorf("authorization servers = %v", metadata.AuthorizationServers)
	}
	if len(metadata.ScopesSupported) == 0 {
		t.Error("expected supported scopes")
	}
}

func TestAuthorizationServerMetadata(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil)
	rec := httptest.NewRecorder()
	h.ServeAuthorizationServerMetadata(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var metadata AuthorizationServerMetadata
	if err := json.NewDecoder(rec.Body).Decode(&metadata); err != nil {
		t.Fatalf("failed to decode metadata: %v", err)
	}
	if metadata.Issuer != "http://localhost:8080" {
		t.Errorf("issuer = %q", metadata.Issuer)
	}
	if metadata.AuthorizationEndpoint != "http://localhost:8080/authorize" {
		t.Errorf("authorization endpoint = %q", metadata.AuthorizationEndpoint)
	}
	if metadata.TokenEndpoint != "http://localhost:8080/token" {
		t.Errorf("token endpoint = %q", metadata.TokenEndpoint)
	}
	if metadata.RegistrationEndpoint != "http://localhost:8080/register" {
		t.Errorf("registration endpoint = %q", metadata.RegistrationEndpoint)
	}
	// OAuth 2.1: only S256 unless plain is explicitly enabled
	if len(metadata.CodeChallengeMethodsSupported) != 1 || metadata.CodeChallengeMethodsSupported[0] != "S256" {
		t.Errorf("code challenge methods = %v, want [S256]", metadata.CodeChallengeMethodsSupported)
	}
}

func TestAuthorizationServerMetadataWithPlainPKCE(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.Security.AllowPlainPKCE = true
	})

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-authorization-server", nil)
	rec := httptest.NewRecorder()
	h.ServeAuthorizationServerMetadata(rec, req)

	var metadata AuthorizationServerMetadata
	if err := json.NewDecoder(rec.Body).Decode(&metadata); err != nil {
		t.Fatalf("failed to decode metadata: %v", err)
	}
	if !contains(metadata.CodeChallengeMethodsSupported, "plain") {
		t.Errorf("code challenge methods = %v, want plain included", metadata.CodeChallengeMethodsSupported)
	}
}

func TestServeRevoke(t *testing.T) {
	h := newTestHandler(t, nil)

	issued := &IssuedToken{
		Token:     "revoke-me",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := h.tokens.SaveAccessToken(issued); err != nil {
		t.Fatalf("SaveAccessToken() error = %v", err)
	}

	form := url.Values{"token": {"revoke-me"}}
	req := httptest.NewRequest(http.MethodPost, "/revoke", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeRevoke(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if _, err := h.tokens.GetAccessToken("revoke-me"); err == nil {
		t.Error("token still valid after revocation")
	}
}

func TestServeRevokeValidation(t *testing.T) {
	h := newTestHandler(t, nil)

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/revoke", nil)
		rec := httptest.NewRecorder()
		h.ServeRevoke(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
		}
	})

	t.Run("missing token parameter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/revoke", strings.NewReader(""))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeRevoke(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unknown token is not an error", func(t *testing.T) {
		form := url.Values{"token": {"never-issued"}}
		req := httptest.NewRequest(http.MethodPost, "/revoke", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		h.ServeRevoke(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	})
}

func TestSecurityHeaders(t *testing.T) {
	h := newTestHandler(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/.well-known/oauth-protected-resource", nil)
	rec := httptest.NewRecorder()
	h.ServeProtectedResourceMetadata(rec, req)

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
	} {
		if got := rec.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	// HSTS only on HTTPS resources
	if got := rec.Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Strict-Transport-Security set on HTTP resource: %q", got)
	}
}
