package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/oauth2"
	oauth2github "golang.org/x/oauth2/github"
)

// defaultGitHubUserEndpoint is the GitHub API endpoint for the
// authenticated user.
const defaultGitHubUserEndpoint = "https://api.github.com/user"

// IdentityDelegate performs the three-legged OAuth handshake with GitHub to
// obtain a verified GitHub login for the resource owner.
type IdentityDelegate struct {
	config       *oauth2.Config
	httpClient   *http.Client
	logger       *slog.Logger
	userEndpoint string
}

// NewIdentityDelegate creates a GitHub identity delegate. The redirect URL
// must match the callback registered with the GitHub OAuth app.
func NewIdentityDelegate(auth GitHubAuthConfig, httpClient *http.Client, logger *slog.Logger) *IdentityDelegate {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IdentityDelegate{
		config: &oauth2.Config{
			ClientID:     auth.ClientID,
			ClientSecret: auth.ClientSecret,
			RedirectURL:  auth.RedirectURL,
			Scopes:       []string{"read:user"},
			Endpoint:     oauth2github.Endpoint,
		},
		httpClient:   httpClient,
		logger:       logger,
		userEndpoint: defaultGitHubUserEndpoint,
	}
}

// AuthCodeURL builds the GitHub authorization URL for the given provider
// state.
func (d *IdentityDelegate) AuthCodeURL(state string) string {
	return d.config.AuthCodeURL(state)
}

// Exchange trades the provider code for a GitHub access token.
func (d *IdentityDelegate) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, d.httpClient)
	token, err := d.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange GitHub code: %w", err)
	}
	return token, nil
}

// FetchUser retrieves the authenticated GitHub user for the given token.
func (d *IdentityDelegate) FetchUser(ctx context.Context, token *oauth2.Token) (*GitHubUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.userEndpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create user request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch GitHub user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("GitHub user request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var user GitHubUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode GitHub user: %w", err)
	}
	if user.Login == "" {
		return nil, fmt.Errorf("GitHub user response missing login")
	}

	d.logger.Debug("fetched GitHub identity",
		slog.String("user_hash", hashForLogging(user.Login)))

	return &user, nil
}
