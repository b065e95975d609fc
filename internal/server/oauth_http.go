package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/garmin-mcp/internal/mcp/oauth"
)

// httpMetricsRecorder records per-request HTTP metrics. The
// instrumentation metrics recorder satisfies it.
type httpMetricsRecorder interface {
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// OAuthHTTPServer wraps an MCP server with a hand-built OAuth 2.1
// authorization server. It serves RFC 8414 and RFC 9728 metadata, RFC 7591
// dynamic client registration, the authorization code flow with mandatory
// PKCE, and the bearer-protected /mcp transport on a single listener.
type OAuthHTTPServer struct {
	mcpServer     *mcpserver.MCPServer
	oauthHandler  *oauth.Handler
	healthChecker *HealthChecker
	httpServer    *http.Server
	metrics       httpMetricsRecorder
}

// NewOAuthHTTPServer creates a new OAuth-enabled HTTP server for MCP.
// The oauth config carries the public base URL, the GitHub OAuth app
// credentials and the allow-list; sc provides the health checker with
// access to the Garmin session state and the metrics recorder.
func NewOAuthHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config *oauth.Config) (*OAuthHTTPServer, error) {
	oauthHandler, err := oauth.NewHandler(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create OAuth handler: %w", err)
	}

	s := &OAuthHTTPServer{
		mcpServer:     mcpServer,
		oauthHandler:  oauthHandler,
		healthChecker: NewHealthChecker(sc),
	}
	if m := sc.Metrics(); m != nil {
		s.metrics = m
		oauthHandler.SetMetrics(m)
	}
	return s, nil
}

// Start starts the OAuth-enabled HTTP server and blocks until the listener
// fails or the server is shut down.
func (s *OAuthHTTPServer) Start(addr string) error {
	// Validate HTTPS requirement for OAuth 2.1
	// Exception: loopback addresses may use HTTP for development
	if err := validateHTTPSRequirement(s.oauthHandler.Resource()); err != nil {
		return err
	}

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Routes builds the HTTP mux: discovery metadata, the OAuth endpoints, the
// health endpoints and the bearer-protected /mcp transport. Everything
// except the health probes sits behind the per-IP rate limiter.
func (s *OAuthHTTPServer) Routes() http.Handler {
	mux := http.NewServeMux()
	limit := s.oauthHandler.RateLimiter().Middleware

	// Discovery metadata (RFC 8414 and RFC 9728)
	mux.Handle("/.well-known/oauth-authorization-server",
		limit(http.HandlerFunc(s.oauthHandler.ServeAuthorizationServerMetadata)))
	mux.Handle("/.well-known/oauth-protected-resource",
		limit(http.HandlerFunc(s.oauthHandler.ServeProtectedResourceMetadata)))

	// Authorization server endpoints
	mux.Handle("/register", limit(http.HandlerFunc(s.oauthHandler.ServeDynamicClientRegistration)))
	mux.Handle("/authorize", limit(http.HandlerFunc(s.oauthHandler.ServeAuthorization)))
	mux.Handle("/auth/callback", limit(http.HandlerFunc(s.oauthHandler.ServeCallback)))
	mux.Handle("/token", limit(http.HandlerFunc(s.oauthHandler.ServeToken)))
	mux.Handle("/revoke", limit(http.HandlerFunc(s.oauthHandler.ServeRevoke)))

	// MCP transport, bearer-protected. Tokens carrying a denied identity
	// pass through here; the tool layer rejects each call with a readable
	// error instead of a bare 401.
	streamable := mcpserver.NewStreamableHTTPServer(s.mcpServer,
		mcpserver.WithEndpointPath("/mcp"),
	)
	mux.Handle("/mcp", limit(s.oauthHandler.ValidateToken(streamable)))

	// Health endpoints stay unauthenticated and unthrottled for probes
	s.healthChecker.RegisterHealthEndpoints(mux)

	return s.instrument(mux)
}

// instrument wraps the mux so every request lands in the HTTP metrics.
// The route paths are fixed, so the path label stays low-cardinality.
func (s *OAuthHTTPServer) instrument(next http.Handler) http.Handler {
	if s.metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.metrics.RecordHTTPRequest(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps the streamable transport's SSE responses flowing through
// the wrapper.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Shutdown gracefully shuts down the server
func (s *OAuthHTTPServer) Shutdown(ctx context.Context) error {
	s.healthChecker.SetReady(false)
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// OAuthHandler returns the OAuth handler for testing or direct access
func (s *OAuthHTTPServer) OAuthHandler() *oauth.Handler {
	return s.oauthHandler
}

// HealthChecker returns the health checker so callers can flip readiness
// during startup and drain.
func (s *OAuthHTTPServer) HealthChecker() *HealthChecker {
	return s.healthChecker
}

// validateHTTPSRequirement ensures OAuth 2.1 HTTPS compliance
// Allows HTTP only for loopback addresses (localhost, 127.0.0.1, ::1)
func validateHTTPSRequirement(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("base URL cannot be empty")
	}

	// Parse URL to properly validate scheme and host
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid base URL: %w", err)
	}

	// Allow HTTP only for loopback addresses
	if u.Scheme == "http" {
		host := u.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			return fmt.Errorf("OAuth 2.1 requires HTTPS for production (got: %s). Use HTTPS or localhost for development", baseURL)
		}
	} else if u.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: %s. Must be http (localhost only) or https", u.Scheme)
	}

	return nil
}
