package oauth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

const testRedirectURI = "http://localhost:8123/callback"

// authorize drives GET /authorize and returns the recorded response.
func authorize(h *Handler, params url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/authorize?"+params.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeAuthorization(rec, req)
	return rec
}

// exchangeToken drives POST /token and returns the recorded response.
func exchangeToken(h *Handler, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeToken(rec, req)
	return rec
}

// redirectQuery parses the query parameters of a 302 Location header.
func redirectQuery(t *testing.T, rec *httptest.ResponseRecorder) url.Values {
	t.Helper()
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusFound, rec.Body.String())
	}
	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse Location header: %v", err)
	}
	return loc.Query()
}

func TestDynamicClientRegistration(t *testing.T) {
	h := newTestHandler(t, nil)

	body, _ := json.Marshal(ClientRegistrationRequest{
		RedirectURIs: []string{testRedirectURI},
		ClientName:   "Example MCP Client",
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeDynamicClientRegistration(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp ClientRegistrationResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.ClientID == "" {
		t.Error("client_id is empty")
	}
	if resp.ClientSecret == "" {
		t.Error("expected a client secret for the default confidential client")
	}
	if resp.TokenEndpointAuthMethod != DefaultTokenEndpointAuthMethod {
		t.Errorf("auth method = %q, want %q", resp.TokenEndpointAuthMethod, DefaultTokenEndpointAuthMethod)
	}
}

func TestDynamicClientRegistrationTokenGate(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.Security.RegistrationAccessToken = "registration-secret"
	})

	body, _ := json.Marshal(ClientRegistrationRequest{
		RedirectURIs: []string{testRedirectURI},
	})

	t.Run("without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		rec := httptest.NewRecorder()
		h.ServeDynamicClientRegistration(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("with wrong token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer wrong")
		rec := httptest.NewRecorder()
		h.ServeDynamicClientRegistration(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
		}
	})

	t.Run("with valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		req.Header.Set("Authorization", "Bearer registration-secret")
		rec := httptest.NewRecorder()
		h.ServeDynamicClientRegistration(rec, req)
		if rec.Code != http.StatusCreated {
			t.Errorf("status = %d, want %d, body = %s", rec.Code, http.StatusCreated, rec.Body.String())
		}
	})
}

func TestDynamicClientRegistrationRejectsRedirectURIs(t *testing.T) {
	h := newTestHandler(t, nil)

	tests := []struct {
		name string
		uris []string
	}{
		{name: "no redirect URIs", uris: nil},
		{name: "javascript scheme", uris: []string{"javascript:alert(1)"}},
		{name: "data scheme", uris: []string{"data:text/html,x"}},
		{name: "fragment", uris: []string{"http://localhost:8123/callback#frag"}},
		{name: "missing scheme", uris: []string{"localhost/callback"}},
		{name: "custom scheme not enabled", uris: []string{"myapp://callback"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(ClientRegistrationRequest{RedirectURIs: tt.uris})
			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
			rec := httptest.NewRecorder()
			h.ServeDynamicClientRegistration(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
		})
	}
}

func TestDynamicClientRegistrationCustomScheme(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.Security.AllowCustomRedirectSchemes = true
	})

	body, _ := json.Marshal(ClientRegistrationRequest{
		RedirectURIs: []string{"com.example.app://oauth/callback"},
	})
	req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeDynamicClientRegistration(rec, req)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d, body = %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
}

func TestAuthorizationCodeFlowWithoutDelegate(t *testing.T) {
	h := newTestHandler(t, nil)
	clientID := registerTestClient(t, h, testRedirectURI)

	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}

	rec := authorize(h, url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {testRedirectURI},
		"state":                 {"client-state-1"},
		"scope":                 {"garmin:read"},
		"code_challenge":        {GenerateCodeChallenge(verifier)},
		"code_challenge_method": {"S256"},
	})

	q := redirectQuery(t, rec)
	if q.Get("error") != "" {
		t.Fatalf("authorize redirected with error: %s (%s)", q.Get("error"), q.Get("error_description"))
	}
	code := q.Get("code")
	if code == "" {
		t.Fatal("no authorization code in redirect")
	}
	if q.Get("state") != "client-state-1" {
		t.Errorf("state = %q, want %q", q.Get("state"), "client-state-1")
	}

	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	if tokenRec.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", tokenRec.Code, tokenRec.Body.String())
	}
	if cc := tokenRec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}

	var tokens TokenResponse
	if err := json.NewDecoder(tokenRec.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	if tokens.AccessToken == "" || tokens.RefreshToken == "" {
		t.Fatal("missing access or refresh token")
	}
	if tokens.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", tokens.TokenType)
	}

	// Anonymous identity is granted in open mode
	stored, err := h.tokens.GetAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("issued access token not in store: %v", err)
	}
	if stored.Identity.Decision != DecisionGranted {
		t.Errorf("decision = %q, want %q", stored.Identity.Decision, DecisionGranted)
	}

	// A code is single-use; replaying it must fail with invalid_grant
	replayRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	if replayRec.Code != http.StatusBadRequest {
		t.Fatalf("replay status = %d, want %d", replayRec.Code, http.StatusBadRequest)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(replayRec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error != "invalid_grant" {
		t.Errorf("error = %q, want invalid_grant", errResp.Error)
	}
}

func TestAuthorizationValidation(t *testing.T) {
	h := newTestHandler(t, nil)
	clientID := registerTestClient(t, h, testRedirectURI)
	challenge := GenerateCodeChallenge("some-long-enough-code-verifier-value-xxxxxx")

	t.Run("unknown client", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type": {"code"},
			"client_id":     {"no-such-client"},
			"redirect_uri":  {testRedirectURI},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("unregistered redirect URI never redirects", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type": {"code"},
			"client_id":     {clientID},
			"redirect_uri":  {"http://evil.example/steal"},
		})
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("missing state", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type":         {"code"},
			"client_id":             {clientID},
			"redirect_uri":          {testRedirectURI},
			"code_challenge":        {challenge},
			"code_challenge_method": {"S256"},
		})
		q := redirectQuery(t, rec)
		if q.Get("error") != "invalid_request" {
			t.Errorf("error = %q, want invalid_request", q.Get("error"))
		}
	})

	t.Run("missing code challenge", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type": {"code"},
			"client_id":     {clientID},
			"redirect_uri":  {testRedirectURI},
			"state":         {"s"},
		})
		q := redirectQuery(t, rec)
		if q.Get("error") != "invalid_request" {
			t.Errorf("error = %q, want invalid_request", q.Get("error"))
		}
	})

	t.Run("plain method rejected by default", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type":         {"code"},
			"client_id":             {clientID},
			"redirect_uri":          {testRedirectURI},
			"state":                 {"s"},
			"code_challenge":        {"plain-challenge-value"},
			"code_challenge_method": {"plain"},
		})
		q := redirectQuery(t, rec)
		if q.Get("error") != "invalid_request" {
			t.Errorf("error = %q, want invalid_request", q.Get("error"))
		}
	})

	t.Run("unsupported response type", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type": {"token"},
			"client_id":     {clientID},
			"redirect_uri":  {testRedirectURI},
			"state":         {"s"},
		})
		q := redirectQuery(t, rec)
		if q.Get("error") != "unsupported_response_type" {
			t.Errorf("error = %q, want unsupported_response_type", q.Get("error"))
		}
	})

	t.Run("unsupported scope", func(t *testing.T) {
		rec := authorize(h, url.Values{
			"response_type":         {"code"},
			"client_id":             {clientID},
			"redirect_uri":          {testRedirectURI},
			"state":                 {"s"},
			"scope":                 {"admin:everything"},
			"code_challenge":        {challenge},
			"code_challenge_method": {"S256"},
		})
		q := redirectQuery(t, rec)
		if q.Get("error") != "invalid_scope" {
			t.Errorf("error = %q, want invalid_scope", q.Get("error"))
		}
	})
}

func TestTokenRejectsWrongVerifier(t *testing.T) {
	h := newTestHandler(t, nil)
	clientID := registerTestClient(t, h, testRedirectURI)

	verifier, _ := GenerateCodeVerifier()
	rec := authorize(h, url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {testRedirectURI},
		"state":                 {"s"},
		"code_challenge":        {GenerateCodeChallenge(verifier)},
		"code_challenge_method": {"S256"},
	})
	code := redirectQuery(t, rec).Get("code")
	if code == "" {
		t.Fatal("no authorization code")
	}

	wrongVerifier, _ := GenerateCodeVerifier()
	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {wrongVerifier},
	})
	if tokenRec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", tokenRec.Code, http.StatusBadRequest)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(tokenRec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error != "invalid_grant" {
		t.Errorf("error = %q, want invalid_grant", errResp.Error)
	}
}

func TestTokenRejectsMismatchedRedirectURI(t *testing.T) {
	h := newTestHandler(t, nil)
	clientID := registerTestClient(t, h, testRedirectURI)

	verifier, _ := GenerateCodeVerifier()
	rec := authorize(h, url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {testRedirectURI},
		"state":                 {"s"},
		"code_challenge":        {GenerateCodeChallenge(verifier)},
		"code_challenge_method": {"S256"},
	})
	code := redirectQuery(t, rec).Get("code")

	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {"http://localhost:8123/other"},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	if tokenRec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", tokenRec.Code, http.StatusBadRequest)
	}
}

func TestRefreshTokenRotation(t *testing.T) {
	h := newTestHandler(t, nil)
	clientID := registerTestClient(t, h, testRedirectURI)

	verifier, _ := GenerateCodeVerifier()
	rec := authorize(h, url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {testRedirectURI},
		"state":                 {"s"},
		"code_challenge":        {GenerateCodeChallenge(verifier)},
		"code_challenge_method": {"S256"},
	})
	code := redirectQuery(t, rec).Get("code")

	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	var first TokenResponse
	if err := json.NewDecoder(tokenRec.Body).Decode(&first); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}

	refreshRec := exchangeToken(h, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {first.RefreshToken},
		"client_id":     {clientID},
	})
	if refreshRec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", refreshRec.Code, refreshRec.Body.String())
	}
	var second TokenResponse
	if err := json.NewDecoder(refreshRec.Body).Decode(&second); err != nil {
		t.Fatalf("failed to decode refresh response: %v", err)
	}
	if second.AccessToken == first.AccessToken {
		t.Error("refresh did not issue a new access token")
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// The old refresh token must be dead after rotation
	replayRec := exchangeToken(h, url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {first.RefreshToken},
		"client_id":     {clientID},
	})
	if replayRec.Code != http.StatusBadRequest {
		t.Errorf("rotated refresh token replay status = %d, want %d", replayRec.Code, http.StatusBadRequest)
	}
}

func TestUnsupportedGrantType(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := exchangeToken(h, url.Values{"grant_type": {"password"}})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	var errResp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&errResp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if errResp.Error != "unsupported_grant_type" {
		t.Errorf("error = %q, want unsupported_grant_type", errResp.Error)
	}
}

// newGitHubMock serves the GitHub token and user endpoints and rewires the
// handler's delegate at it.
func newGitHubMock(t *testing.T, h *Handler, login string, id int64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"gh-access-token","token_type":"bearer"}`)
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer gh-access-token" {
			t.Errorf("user request Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"login":%q,"id":%d}`, login, id)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	h.delegate.config.Endpoint = oauth2.Endpoint{
		AuthURL:  srv.URL + "/authorize",
		TokenURL: srv.URL + "/token",
	}
	h.delegate.userEndpoint = srv.URL + "/user"
	h.delegate.httpClient = srv.Client()
	return srv
}

// runDelegatedAuthorization walks authorize plus callback and returns the
// minted authorization code together with the PKCE verifier.
func runDelegatedAuthorization(t *testing.T, h *Handler, clientID string) (code, verifier string) {
	t.Helper()
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}

	rec := authorize(h, url.Values{
		"response_type":         {"code"},
		"client_id":             {clientID},
		"redirect_uri":          {testRedirectURI},
		"state":                 {"client-state"},
		"code_challenge":        {GenerateCodeChallenge(verifier)},
		"code_challenge_method": {"S256"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("authorize status = %d, body = %s", rec.Code, rec.Body.String())
	}
	providerURL, err := url.Parse(rec.Header().Get("Location"))
	if err != nil {
		t.Fatalf("failed to parse provider redirect: %v", err)
	}
	providerState := providerURL.Query().Get("state")
	if providerState == "" {
		t.Fatal("no provider state in GitHub redirect")
	}

	cbReq := httptest.NewRequest(http.MethodGet,
		"/auth/callback?state="+url.QueryEscape(providerState)+"&code=gh-code", nil)
	cbRec := httptest.NewRecorder()
	h.ServeCallback(cbRec, cbReq)

	q := redirectQuery(t, cbRec)
	if q.Get("error") != "" {
		t.Fatalf("callback redirected with error: %s (%s)", q.Get("error"), q.Get("error_description"))
	}
	if q.Get("state") != "client-state" {
		t.Errorf("state = %q, want client-state", q.Get("state"))
	}
	code = q.Get("code")
	if code == "" {
		t.Fatal("no authorization code in callback redirect")
	}
	return code, verifier
}

func TestDelegatedFlowGrantsAllowedUser(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.GitHubAuth = GitHubAuthConfig{ClientID: "gh-id", ClientSecret: "gh-secret"}
		c.AllowedUser = "octocat"
	})
	newGitHubMock(t, h, "octocat", 42)
	clientID := registerTestClient(t, h, testRedirectURI)

	code, verifier := runDelegatedAuthorization(t, h, clientID)

	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	if tokenRec.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", tokenRec.Code, tokenRec.Body.String())
	}
	var tokens TokenResponse
	if err := json.NewDecoder(tokenRec.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}

	stored, err := h.tokens.GetAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("issued token not in store: %v", err)
	}
	if stored.Identity.Username != "octocat" {
		t.Errorf("username = %q, want octocat", stored.Identity.Username)
	}
	if stored.Identity.Subject != "github:42" {
		t.Errorf("subject = %q, want github:42", stored.Identity.Subject)
	}
	if stored.Identity.Decision != DecisionGranted {
		t.Errorf("decision = %q, want %q", stored.Identity.Decision, DecisionGranted)
	}
}

func TestDelegatedFlowDeniesOtherUser(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.GitHubAuth = GitHubAuthConfig{ClientID: "gh-id", ClientSecret: "gh-secret"}
		c.AllowedUser = "octocat"
	})
	newGitHubMock(t, h, "intruder", 7)
	clientID := registerTestClient(t, h, testRedirectURI)

	code, verifier := runDelegatedAuthorization(t, h, clientID)

	// The flow completes and tokens are issued; the denial travels with them
	tokenRec := exchangeToken(h, url.Values{
		"grant_type":    {"authorization_code"},
		"code":          {code},
		"redirect_uri":  {testRedirectURI},
		"client_id":     {clientID},
		"code_verifier": {verifier},
	})
	if tokenRec.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", tokenRec.Code, tokenRec.Body.String())
	}
	var tokens TokenResponse
	if err := json.NewDecoder(tokenRec.Body).Decode(&tokens); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	stored, err := h.tokens.GetAccessToken(tokens.AccessToken)
	if err != nil {
		t.Fatalf("issued token not in store: %v", err)
	}
	if stored.Identity.Decision != DecisionDenied {
		t.Errorf("decision = %q, want %q", stored.Identity.Decision, DecisionDenied)
	}
}

func TestCallbackRejectsUnknownState(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.GitHubAuth = GitHubAuthConfig{ClientID: "gh-id", ClientSecret: "gh-secret"}
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state=forged&code=gh-code", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCallbackRejectsProviderError(t *testing.T) {
	h := newTestHandler(t, func(c *Config) {
		c.GitHubAuth = GitHubAuthConfig{ClientID: "gh-id", ClientSecret: "gh-secret"}
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/callback?error=access_denied", nil)
	rec := httptest.NewRecorder()
	h.ServeCallback(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
