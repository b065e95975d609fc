package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// MetricsRecorder counts authorization outcomes. The instrumentation
// metrics recorder satisfies it; a nil recorder disables counting.
type MetricsRecorder interface {
	RecordOAuthAuth(ctx context.Context, result string)
	RecordOAuthTokenRefresh(ctx context.Context, result string)
}

// Metric result values for authorization outcomes.
const (
	metricResultSuccess = "success"
	metricResultFailure = "failure"
)

// Handler is the OAuth 2.1 authorization server. It owns the client, flow
// and token stores, the rate limiter, the GitHub identity delegate and the
// access policy.
type Handler struct {
	config      *Config
	tokens      TokenStore
	clientStore *ClientStore
	flowStore   *FlowStore
	rateLimiter *RateLimiter
	delegate    *IdentityDelegate
	policy      AccessPolicy
	audit       *AuditLogger
	metrics     MetricsRecorder
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewHandler creates and validates the authorization server.
//
// Resource must be an absolute URL; HTTPS is required unless the host is a
// loopback address. Configuring AllowedUser without GitHub credentials is an
// error: the allow-list would be unenforceable with no identity to check.
func NewHandler(config *Config) (*Handler, error) {
	if config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if config.Resource == "" {
		return nil, fmt.Errorf("config.Resource is required")
	}

	resourceURL, err := url.Parse(config.Resource)
	if err != nil {
		return nil, fmt.Errorf("invalid resource URL: %w", err)
	}
	if resourceURL.Scheme != "https" && !isLoopback(resourceURL.Hostname()) {
		return nil, fmt.Errorf("resource URL must use HTTPS (got %q); HTTP is only allowed on loopback addresses", config.Resource)
	}

	githubConfigured := config.GitHubAuth.ClientID != "" && config.GitHubAuth.ClientSecret != ""
	if config.AllowedUser != "" && !githubConfigured {
		return nil, fmt.Errorf("allowed GitHub user is configured but GitHub OAuth credentials are missing; the allow-list cannot be enforced without an identity provider")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(config.SupportedScopes) == 0 {
		config.SupportedScopes = []string{"garmin:read", "garmin:write"}
	}
	if config.CleanupInterval <= 0 {
		config.CleanupInterval = DefaultCleanupInterval
	}
	if config.Security.RefreshTokenTTL <= 0 {
		config.Security.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	if config.Security.AccessTokenTTL <= 0 {
		config.Security.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.Security.MaxClientsPerIP <= 0 {
		config.Security.MaxClientsPerIP = DefaultMaxClientsPerIP
	}
	if len(config.Security.AllowedCustomSchemes) == 0 {
		config.Security.AllowedCustomSchemes = DefaultRFC3986SchemePattern
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	policy := AccessPolicy{AllowedUser: config.AllowedUser}

	// Startup warnings for every relaxed security setting
	if !githubConfigured {
		logger.Warn("⚠️  GitHub identity delegation is disabled; every token holder is anonymous and granted access")
	} else if policy.Open() {
		logger.Warn("⚠️  no allowed GitHub user configured; any authenticated GitHub user will be granted access")
	}
	if config.Security.RegistrationAccessToken == "" {
		logger.Warn("⚠️  client registration is open; set a registration access token to restrict it")
	}
	if config.Security.AllowPlainPKCE {
		logger.Warn("⚠️  plain PKCE method enabled; OAuth 2.1 requires S256")
	}
	if config.Security.AllowInsecureAuthWithoutState {
		logger.Warn("⚠️  authorization without state parameter enabled; CSRF protection is weakened")
	}
	if config.Security.DisableRefreshTokenRotation {
		logger.Warn("⚠️  refresh token rotation disabled")
	}

	rate := config.RateLimit.Rate
	if rate <= 0 {
		rate = DefaultRateLimitRate
	}
	burst := config.RateLimit.Burst
	if burst <= 0 {
		burst = 2 * rate
	}

	var delegate *IdentityDelegate
	if githubConfigured {
		auth := config.GitHubAuth
		if auth.RedirectURL == "" {
			auth.RedirectURL = strings.TrimSuffix(config.Resource, "/") + "/auth/callback"
		}
		delegate = NewIdentityDelegate(auth, httpClient, logger)
	}

	h := &Handler{
		config:      config,
		tokens:      NewMemoryTokenStoreWithInterval(logger, config.CleanupInterval),
		clientStore: NewClientStore(logger),
		flowStore:   NewFlowStore(logger, config.CleanupInterval),
		rateLimiter: NewRateLimiter(rate, burst, config.RateLimit.TrustProxy, config.RateLimit.CleanupInterval, logger),
		delegate:    delegate,
		policy:      policy,
		audit:       NewAuditLogger(logger, true),
		httpClient:  httpClient,
		logger:      logger,
	}
	return h, nil
}

// Policy returns the access policy.
func (h *Handler) Policy() AccessPolicy {
	return h.policy
}

// SetMetrics installs a metrics recorder for token grant outcomes.
func (h *Handler) SetMetrics(m MetricsRecorder) {
	h.metrics = m
}

// recordAuth counts an authorization_code grant outcome.
func (h *Handler) recordAuth(ctx context.Context, result string) {
	if h.metrics != nil {
		h.metrics.RecordOAuthAuth(ctx, result)
	}
}

// recordRefresh counts a refresh_token grant outcome.
func (h *Handler) recordRefresh(ctx context.Context, result string) {
	if h.metrics != nil {
		h.metrics.RecordOAuthTokenRefresh(ctx, result)
	}
}

// RateLimiter returns the per-IP rate limiter for wrapping HTTP handlers.
func (h *Handler) RateLimiter() *RateLimiter {
	return h.rateLimiter
}

// Resource returns the canonical base URL of this server.
func (h *Handler) Resource() string {
	return h.config.Resource
}

// resourceURL joins a path onto the configured resource base URL.
func (h *Handler) resourceURL(path string) string {
	return strings.TrimSuffix(h.config.Resource, "/") + path
}

// ServeProtectedResourceMetadata serves RFC 9728 metadata at
// /.well-known/oauth-protected-resource.
func (h *Handler) ServeProtectedResourceMetadata(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	metadata := ProtectedResourceMetadata{
		Resource:               h.config.Resource,
		AuthorizationServers:   []string{h.config.Resource},
		BearerMethodsSupported: []string{"header"},
		ScopesSupported:        h.config.SupportedScopes,
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		h.logger.Error("failed to encode protected resource metadata", slog.String("error", err.Error()))
	}
}

// RevokeToken revokes an access or refresh token. Unknown tokens are not an
// error per RFC 7009.
func (h *Handler) RevokeToken(token string) {
	_ = h.tokens.DeleteAccessToken(token)
	_ = h.tokens.DeleteRefreshToken(token)
}

// ServeRevoke implements RFC 7009 token revocation at POST /revoke.
func (h *Handler) ServeRevoke(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	if r.Method != http.MethodPost {
		h.writeError(w, "invalid_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeError(w, "invalid_request", "failed to parse form", http.StatusBadRequest)
		return
	}
	token := r.FormValue("token")
	if token == "" {
		h.writeError(w, "invalid_request", "token parameter is required", http.StatusBadRequest)
		return
	}
	h.RevokeToken(token)
	h.audit.LogTokenRevoked(r.FormValue("client_id"))
	w.WriteHeader(http.StatusOK)
}

// setSecurityHeaders applies the standard security headers to every OAuth
// response.
func (h *Handler) setSecurityHeaders(w http.ResponseWriter) {
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "default-src 'none'")
	w.Header().Set("Referrer-Policy", "no-referrer")
	if strings.HasPrefix(h.config.Resource, "https://") {
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
	}
}

// writeError writes a JSON OAuth error response.
func (h *Handler) writeError(w http.ResponseWriter, code, description string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	resp := ErrorResponse{Error: code, ErrorDescription: description}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode error response", slog.String("error", err.Error()))
	}
}

// writeOAuthError writes an OAuthError as a JSON response.
func (h *Handler) writeOAuthError(w http.ResponseWriter, err *OAuthError) {
	h.writeError(w, err.Code, err.Description, err.Status)
}

// isLoopback reports whether the host is a recognized loopback address.
func isLoopback(host string) bool {
	for _, addr := range LoopbackAddresses {
		if host == addr {
			return true
		}
	}
	return false
}
