package oauth

import (
	"log/slog"
	"net/http"
	"time"
)

// GitHubAuthConfig holds the GitHub OAuth app credentials for the identity
// delegate. Leaving ClientID/ClientSecret empty disables identity
// delegation entirely.
type GitHubAuthConfig struct {
	// ClientID is the GitHub OAuth app client ID
	ClientID string

	// ClientSecret is the GitHub OAuth app client secret
	ClientSecret string

	// RedirectURL is the callback URL registered with the GitHub app.
	// Defaults to Resource + "/auth/callback".
	RedirectURL string
}

// RateLimitConfig configures per-IP rate limiting for the OAuth and MCP
// endpoints.
type RateLimitConfig struct {
	// Rate is the sustained requests per second allowed per IP
	Rate int

	// Burst is the burst size allowed per IP (defaults to 2x Rate)
	Burst int

	// CleanupInterval is how often inactive IP buckets are removed
	CleanupInterval time.Duration

	// TrustProxy enables X-Forwarded-For / X-Real-IP headers for client IP
	// extraction. Only enable behind a trusted reverse proxy.
	TrustProxy bool
}

// SecurityConfig groups the security-sensitive knobs. The zero value is the
// secure configuration; every relaxation is logged at startup.
type SecurityConfig struct {
	// AllowInsecureAuthWithoutState permits authorization requests without a
	// state parameter. CSRF protection is weakened when enabled.
	AllowInsecureAuthWithoutState bool

	// AllowPlainPKCE accepts the "plain" code challenge method in addition
	// to S256. OAuth 2.1 forbids plain; leave off unless a legacy client
	// genuinely cannot compute S256.
	AllowPlainPKCE bool

	// DisableRefreshTokenRotation keeps refresh tokens valid after use
	// instead of rotating them on every refresh grant.
	DisableRefreshTokenRotation bool

	// RegistrationAccessToken, when set, gates dynamic client registration
	// behind a bearer token. Empty means open registration.
	RegistrationAccessToken string

	// RefreshTokenTTL is the refresh token lifetime (default 90 days)
	RefreshTokenTTL time.Duration

	// AccessTokenTTL is the access token lifetime (default 1 hour)
	AccessTokenTTL time.Duration

	// MaxClientsPerIP caps dynamic registrations per source IP
	MaxClientsPerIP int

	// AllowCustomRedirectSchemes permits non-http(s) redirect URI schemes
	// for native apps
	AllowCustomRedirectSchemes bool

	// AllowedCustomSchemes restricts custom schemes to the given regex
	// patterns (default: RFC 3986 scheme syntax)
	AllowedCustomSchemes []string
}

// Config is the authorization server configuration.
type Config struct {
	// Resource is the canonical base URL of this server, e.g.
	// "https://garmin-mcp.example.com". HTTPS is required except on
	// loopback addresses.
	Resource string

	// SupportedScopes lists the scopes clients may request
	SupportedScopes []string

	// GitHubAuth configures the identity delegate
	GitHubAuth GitHubAuthConfig

	// AllowedUser is the single GitHub login permitted to invoke tools.
	// Empty means open mode. Setting it without GitHubAuth credentials is a
	// configuration error: there would be no identity to check.
	AllowedUser string

	// RateLimit configures per-IP rate limiting
	RateLimit RateLimitConfig

	// Security groups the security-sensitive settings
	Security SecurityConfig

	// CleanupInterval is how often expired flow/token entries are purged
	CleanupInterval time.Duration

	// Logger receives structured logs (default slog.Default())
	Logger *slog.Logger

	// HTTPClient is used for outbound GitHub calls (default 30s timeout)
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with secure defaults for the given
// resource URL.
func DefaultConfig(resource string) *Config {
	return &Config{
		Resource:        resource,
		SupportedScopes: []string{"garmin:read", "garmin:write"},
		RateLimit: RateLimitConfig{
			Rate:  DefaultRateLimitRate,
			Burst: DefaultRateLimitBurst,
		},
		Security: SecurityConfig{
			RefreshTokenTTL: DefaultRefreshTokenTTL,
			AccessTokenTTL:  DefaultAccessTokenTTL,
			MaxClientsPerIP: DefaultMaxClientsPerIP,
		},
		CleanupInterval: DefaultCleanupInterval,
	}
}
