package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/mcp/oauth"
)

func newTestOAuthHTTPServer(t *testing.T) *OAuthHTTPServer {
	t.Helper()
	mcpSrv := mcpserver.NewMCPServer("garmin-mcp", "test",
		mcpserver.WithToolCapabilities(true),
	)
	sc := NewServerContext(context.Background(), nil)
	srv, err := NewOAuthHTTPServer(mcpSrv, sc, oauth.DefaultConfig("http://localhost:8080"))
	if err != nil {
		t.Fatalf("NewOAuthHTTPServer() error = %v", err)
	}
	return srv
}

func TestNewOAuthHTTPServerRejectsBadConfig(t *testing.T) {
	mcpSrv := mcpserver.NewMCPServer("garmin-mcp", "test")
	sc := NewServerContext(context.Background(), nil)

	_, err := NewOAuthHTTPServer(mcpSrv, sc, oauth.DefaultConfig("http://garmin-mcp.example.com"))
	if err == nil {
		t.Error("expected error for HTTP base URL on a public host")
	}
}

func TestRoutesServesDiscoveryMetadata(t *testing.T) {
	srv := newTestOAuthHTTPServer(t)
	routes := srv.Routes()

	for _, path := range []string{
		"/.well-known/oauth-authorization-server",
		"/.well-known/oauth-protected-resource",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Errorf("GET %s body is not JSON: %v", path, err)
		}
	}
}

func TestRoutesProtectsMCPEndpoint(t *testing.T) {
	srv := newTestOAuthHTTPServer(t)
	routes := srv.Routes()

	req := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated /mcp status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate challenge on /mcp")
	}
}

func TestRoutesServesHealthEndpoints(t *testing.T) {
	srv := newTestOAuthHTTPServer(t)
	routes := srv.Routes()

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}

// recordingHTTPMetrics captures RecordHTTPRequest calls for assertions.
type recordingHTTPMetrics struct {
	requests []recordedRequest
}

type recordedRequest struct {
	method string
	path   string
	status int
}

func (m *recordingHTTPMetrics) RecordHTTPRequest(_ context.Context, method, path string, statusCode int, _ time.Duration) {
	m.requests = append(m.requests, recordedRequest{method: method, path: path, status: statusCode})
}

func TestRoutesRecordHTTPMetrics(t *testing.T) {
	srv := newTestOAuthHTTPServer(t)
	metrics := &recordingHTTPMetrics{}
	srv.metrics = metrics
	routes := srv.Routes()

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	routes.ServeHTTP(httptest.NewRecorder(), req)

	// A rejected /mcp request must land in the metrics with its real status
	req = httptest.NewRequest(http.MethodPost, "/mcp", nil)
	routes.ServeHTTP(httptest.NewRecorder(), req)

	expected := []recordedRequest{
		{method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{method: http.MethodPost, path: "/mcp", status: http.StatusUnauthorized},
	}
	if len(metrics.requests) != len(expected) {
		t.Fatalf("recorded %d requests, want %d", len(metrics.requests), len(expected))
	}
	for i, want := range expected {
		if metrics.requests[i] != want {
			t.Errorf("request[%d] = %+v, want %+v", i, metrics.requests[i], want)
		}
	}
}

func TestValidateHTTPSRequirement(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{name: "https", baseURL: "https://garmin-mcp.example.com", wantErr: false},
		{name: "http localhost", baseURL: "http://localhost:8080", wantErr: false},
		{name: "http 127.0.0.1", baseURL: "http://127.0.0.1:8080", wantErr: false},
		{name: "http ipv6 loopback", baseURL: "http://[::1]:8080", wantErr: false},
		{name: "http public host", baseURL: "http://garmin-mcp.example.com", wantErr: true},
		{name: "other scheme", baseURL: "ftp://example.com", wantErr: true},
		{name: "empty", baseURL: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHTTPSRequirement(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPSRequirement(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}
