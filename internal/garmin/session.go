package garmin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	defaultSSOURL      = "https://sso.garmin.com/sso"
	defaultExchangeURL = "https://connectapi.garmin.com/oauth-service/oauth/exchange/user/2.0"

	// tokenExpiryMargin renews tokens slightly before their nominal expiry
	// so in-flight requests don't race the deadline.
	tokenExpiryMargin = 2 * time.Minute
)

// ticketPattern extracts the SSO service ticket from the signin response.
var ticketPattern = regexp.MustCompile(`ticket=([^"']+)["']`)

// OAuth2Token is the Garmin Connect OAuth2 token as persisted in the token
// file.
type OAuth2Token struct {
	Scope                 string `json:"scope,omitempty"`
	TokenType             string `json:"token_type,omitempty"`
	AccessToken           string `json:"access_token"`
	RefreshToken          string `json:"refresh_token,omitempty"`
	ExpiresAt             int64  `json:"expires_at"`
	RefreshTokenExpiresAt int64  `json:"refresh_token_expires_at,omitempty"`
}

// valid reports whether the access token is usable, with a renewal margin.
func (t *OAuth2Token) valid() bool {
	if t == nil || t.AccessToken == "" {
		return false
	}
	return time.Now().Add(tokenExpiryMargin).Unix() < t.ExpiresAt
}

// sessionTokens is the on-disk token file layout.
type sessionTokens struct {
	OAuth2 *OAuth2Token `json:"oauth2_token,omitempty"`
}

// Session manages the Garmin Connect account session: token persistence,
// expiry-aware refresh and credential login. All refreshes go through a
// singleflight group so concurrent tool calls share one round trip.
type Session struct {
	path       string
	email      string
	password   string
	httpClient *http.Client
	logger     *slog.Logger

	ssoURL      string
	exchangeURL string

	mu     sync.RWMutex
	tokens sessionTokens
	sf     singleflight.Group
}

// DefaultTokenPath returns the default token file location, ~/.garminconnect.
func DefaultTokenPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".garminconnect"
	}
	return filepath.Join(home, ".garminconnect")
}

// NewSession creates a session for the given credentials and token file
// path. An existing token file is loaded if present; a missing file is fine
// as long as credentials allow a fresh login.
func NewSession(path, email, password string, httpClient *http.Client, logger *slog.Logger) *Session {
	if path == "" {
		path = DefaultTokenPath()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		path:        path,
		email:       email,
		password:    password,
		httpClient:  httpClient,
		logger:      logger,
		ssoURL:      defaultSSOURL,
		exchangeURL: defaultExchangeURL,
	}
}

// Load reads the token file if it exists. A missing file is not an error.
func (s *Session) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read token file %s: %w", s.path, err)
	}
	var tokens sessionTokens
	if err := json.Unmarshal(data, &tokens); err != nil {
		return fmt.Errorf("failed to parse token file %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.tokens = tokens
	s.mu.Unlock()
	s.logger.Info("loaded Garmin session from token file", slog.String("path", s.path))
	return nil
}

// save writes the token file with owner-only permissions.
func (s *Session) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.tokens, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal tokens: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write token file %s: %w", s.path, err)
	}
	return nil
}

// Connected reports whether the session currently holds a usable token.
func (s *Session) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tokens.OAuth2.valid()
}

// HasStoredTokens reports whether any tokens were loaded from disk, even if
// the access token has expired and needs a refresh. A fresh install has no
// token file at all, so the token may be nil here.
func (s *Session) HasStoredTokens() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t := s.tokens.OAuth2
	if t == nil {
		return false
	}
	return t.AccessToken != "" || t.RefreshToken != ""
}

// AccessToken returns a valid access token, refreshing or logging in as
// needed. Concurrent callers share a single refresh.
func (s *Session) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	token := s.tokens.OAuth2
	s.mu.RUnlock()
	if token.valid() {
		return token.AccessToken, nil
	}

	result, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		// Re-check under the flight: another caller may have refreshed
		s.mu.RLock()
		current := s.tokens.OAuth2
		s.mu.RUnlock()
		if current.valid() {
			return current.AccessToken, nil
		}
		if err := s.renew(ctx); err != nil {
			return "", err
		}
		s.mu.RLock()
		defer s.mu.RUnlock()
		return s.tokens.OAuth2.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Invalidate drops the given access token if it is still the current one,
// forcing the next AccessToken call to renew. Used when Garmin rejects a
// token mid-flight.
func (s *Session) Invalidate(accessToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens.OAuth2 != nil && s.tokens.OAuth2.AccessToken == accessToken {
		s.tokens.OAuth2.ExpiresAt = 0
	}
}

// renew refreshes the OAuth2 token, falling back to a credential login when
// no refresh token is available or the refresh is rejected.
func (s *Session) renew(ctx context.Context) error {
	s.mu.RLock()
	refreshToken := ""
	if s.tokens.OAuth2 != nil {
		refreshToken = s.tokens.OAuth2.RefreshToken
	}
	s.mu.RUnlock()

	if refreshToken != "" {
		if err := s.refresh(ctx, refreshToken); err == nil {
			return nil
		} else {
			s.logger.Warn("Garmin token refresh failed, attempting login",
				slog.String("error", err.Error()))
		}
	}
	return s.login(ctx)
}

// refresh exchanges the refresh token for a new OAuth2 token.
func (s *Session) refresh(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	token, err := s.postTokenForm(ctx, s.exchangeURL, form, "")
	if err != nil {
		return fmt.Errorf("failed to refresh Garmin token: %w", err)
	}
	return s.storeToken(token)
}

// login performs the Garmin SSO credential login: obtain a service ticket
// from the SSO endpoint, then exchange it for an OAuth2 token.
func (s *Session) login(ctx context.Context) error {
	if s.email == "" || s.password == "" {
		return fmt.Errorf("Garmin session expired and no credentials are configured")
	}

	ticket, err := s.fetchTicket(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("ticket", ticket)
	token, err := s.postTokenForm(ctx, s.exchangeURL, form, "")
	if err != nil {
		return fmt.Errorf("failed to exchange SSO ticket: %w", err)
	}
	if err := s.storeToken(token); err != nil {
		return err
	}
	s.logger.Info("logged in to Garmin Connect")
	return nil
}

// fetchTicket submits the credentials to the SSO signin endpoint and
// extracts the service ticket from the response.
func (s *Session) fetchTicket(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("username", s.email)
	form.Set("password", s.password)
	form.Set("embed", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.ssoURL+"/signin", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create signin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("Garmin SSO signin failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Garmin SSO signin returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read signin response: %w", err)
	}
	match := ticketPattern.FindSubmatch(body)
	if match == nil {
		return "", fmt.Errorf("Garmin SSO signin did not return a service ticket; check credentials")
	}
	return string(match[1]), nil
}

// postTokenForm posts a form to a token endpoint and decodes the OAuth2
// token response.
func (s *Session) postTokenForm(ctx context.Context, endpoint string, form url.Values, bearer string) (*OAuth2Token, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var token OAuth2Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access token")
	}
	if token.ExpiresAt == 0 {
		// Some responses carry expires_in instead of an absolute timestamp
		token.ExpiresAt = time.Now().Add(1 * time.Hour).Unix()
	}
	return &token, nil
}

// storeToken replaces the current token and persists the token file.
func (s *Session) storeToken(token *OAuth2Token) error {
	s.mu.Lock()
	s.tokens.OAuth2 = token
	s.mu.Unlock()
	if err := s.save(); err != nil {
		// The in-memory session stays usable even if persistence fails
		s.logger.Warn("failed to persist Garmin token file", slog.String("error", err.Error()))
	}
	return nil
}
