package oauth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// codeChallengeMethods returns the PKCE methods this server accepts.
func (h *Handler) codeChallengeMethods() []string {
	methods := SupportedCodeChallengeMethods
	if h.config.Security.AllowPlainPKCE {
		methods = append([]string{}, methods...)
		methods = append(methods, "plain")
	}
	return methods
}

// ServeAuthorizationServerMetadata serves RFC 8414 metadata at
// /.well-known/oauth-authorization-server.
func (h *Handler) ServeAuthorizationServerMetadata(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	metadata := AuthorizationServerMetadata{
		Issuer:                            h.config.Resource,
		AuthorizationEndpoint:             h.resourceURL("/authorize"),
		TokenEndpoint:                     h.resourceURL("/token"),
		RegistrationEndpoint:              h.resourceURL("/register"),
		ScopesSupported:                   h.config.SupportedScopes,
		ResponseTypesSupported:            DefaultResponseTypes,
		GrantTypesSupported:               DefaultGrantTypes,
		TokenEndpointAuthMethodsSupported: SupportedTokenAuthMethods,
		CodeChallengeMethodsSupported:     h.codeChallengeMethods(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(metadata); err != nil {
		h.logger.Error("failed to encode authorization server metadata", slog.String("error", err.Error()))
	}
}

// ServeDynamicClientRegistration implements RFC 7591 at POST /register.
func (h *Handler) ServeDynamicClientRegistration(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	if r.Method != http.MethodPost {
		h.writeError(w, "invalid_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Registration is open unless a registration access token is configured
	if token := h.config.Security.RegistrationAccessToken; token != "" {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != token {
			h.writeError(w, "invalid_client", "registration requires a valid access token", http.StatusUnauthorized)
			return
		}
	}

	var req ClientRegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid_request", "failed to parse registration request", http.StatusBadRequest)
		return
	}
	if len(req.RedirectURIs) == 0 {
		h.writeError(w, "invalid_redirect_uri", "at least one redirect URI is required", http.StatusBadRequest)
		return
	}
	for _, uri := range req.RedirectURIs {
		if err := h.validateRedirectURI(uri); err != nil {
			h.writeError(w, "invalid_redirect_uri", err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.TokenEndpointAuthMethod != "" && !contains(SupportedTokenAuthMethods, req.TokenEndpointAuthMethod) {
		h.writeError(w, "invalid_request", fmt.Sprintf("unsupported token endpoint auth method: %s", req.TokenEndpointAuthMethod), http.StatusBadRequest)
		return
	}

	ip := h.rateLimiter.ClientIP(r)
	if err := h.clientStore.CheckIPLimit(ip, h.config.Security.MaxClientsPerIP); err != nil {
		h.writeError(w, "invalid_request", err.Error(), http.StatusTooManyRequests)
		return
	}

	client, secret, err := h.clientStore.RegisterClient(&req, ip)
	if err != nil {
		h.writeError(w, "server_error", "failed to register client", http.StatusInternalServerError)
		return
	}
	h.audit.LogClientRegistered(client.ClientID, client.ClientName)

	resp := ClientRegistrationResponse{
		ClientID:                client.ClientID,
		ClientSecret:            secret,
		ClientIDIssuedAt:        client.ClientIDIssuedAt,
		ClientSecretExpiresAt:   client.ClientSecretExpiresAt,
		RedirectURIs:            client.RedirectURIs,
		TokenEndpointAuthMethod: client.TokenEndpointAuthMethod,
		GrantTypes:              client.GrantTypes,
		ResponseTypes:           client.ResponseTypes,
		ClientName:              client.ClientName,
		Scope:                   client.Scope,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode registration response", slog.String("error", err.Error()))
	}
}

// ServeAuthorization implements the authorization endpoint at GET /authorize.
//
// When the GitHub delegate is configured the request is parked in the flow
// store and the resource owner is redirected to GitHub. Without a delegate
// an authorization code for the anonymous identity is minted immediately.
func (h *Handler) ServeAuthorization(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	q := r.URL.Query()

	clientID := q.Get("client_id")
	redirectURI := q.Get("redirect_uri")
	if clientID == "" || redirectURI == "" {
		h.writeError(w, "invalid_request", "client_id and redirect_uri are required", http.StatusBadRequest)
		return
	}

	client, err := h.clientStore.GetClient(clientID)
	if err != nil {
		h.writeError(w, "invalid_client", "unknown client", http.StatusBadRequest)
		return
	}
	if err := h.clientStore.ValidateRedirectURI(clientID, redirectURI); err != nil {
		// Never redirect to an unregistered URI
		h.writeError(w, "invalid_redirect_uri", err.Error(), http.StatusBadRequest)
		return
	}

	if rt := q.Get("response_type"); rt != "code" {
		h.redirectError(w, r, redirectURI, q.Get("state"), "unsupported_response_type", "only the code response type is supported")
		return
	}

	state := q.Get("state")
	if state == "" && !h.config.Security.AllowInsecureAuthWithoutState {
		h.redirectError(w, r, redirectURI, "", "invalid_request", "state parameter is required")
		return
	}

	scope := q.Get("scope")
	if err := h.validateScopes(scope); err != nil {
		h.redirectError(w, r, redirectURI, state, "invalid_scope", err.Error())
		return
	}

	// PKCE is mandatory for every client
	challenge := q.Get("code_challenge")
	if challenge == "" {
		h.redirectError(w, r, redirectURI, state, "invalid_request", "code_challenge is required")
		return
	}
	method := q.Get("code_challenge_method")
	if method == "" {
		method = "plain"
	}
	if !contains(h.codeChallengeMethods(), method) {
		h.redirectError(w, r, redirectURI, state, "invalid_request", fmt.Sprintf("unsupported code_challenge_method: %s", method))
		return
	}

	now := time.Now()
	expiresAt := now.Add(DefaultAuthorizationCodeTTL).Unix()

	if h.delegate == nil {
		// No identity provider: mint the code for the anonymous identity
		identity := Identity{Decision: h.policy.Decide("")}
		code, err := h.mintAuthorizationCode(clientID, redirectURI, scope, challenge, method, identity)
		if err != nil {
			h.redirectError(w, r, redirectURI, state, "server_error", "failed to create authorization code")
			return
		}
		h.redirectCode(w, r, redirectURI, code, state)
		return
	}

	providerState, err := generateSecureToken(StateTokenLength)
	if err != nil {
		h.redirectError(w, r, redirectURI, state, "server_error", "failed to create state")
		return
	}

	authState := &AuthorizationState{
		State:               state,
		ClientID:            client.ClientID,
		RedirectURI:         redirectURI,
		Scope:               scope,
		CodeChallenge:       challenge,
		CodeChallengeMethod: method,
		ProviderState:       providerState,
		CreatedAt:           now.Unix(),
		ExpiresAt:           expiresAt,
	}
	if err := h.flowStore.SaveAuthorizationState(authState); err != nil {
		h.redirectError(w, r, redirectURI, state, "server_error", "failed to save authorization state")
		return
	}

	http.Redirect(w, r, h.delegate.AuthCodeURL(providerState), http.StatusFound)
}

// ServeCallback implements the GitHub redirect target at GET /auth/callback.
//
// The provider state ties the callback to a pending authorization request.
// The access policy is applied to the verified login and the decision is
// carried on the minted code; denied identities still complete the redirect.
func (h *Handler) ServeCallback(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	q := r.URL.Query()

	if errCode := q.Get("error"); errCode != "" {
		h.logger.Warn("identity provider returned error",
			slog.String("error", errCode),
			slog.String("description", q.Get("error_description")))
		h.writeError(w, "access_denied", "identity provider returned an error", http.StatusBadRequest)
		return
	}

	providerState := q.Get("state")
	providerCode := q.Get("code")
	if providerState == "" || providerCode == "" {
		h.writeError(w, "invalid_request", "state and code are required", http.StatusBadRequest)
		return
	}

	authState, err := h.flowStore.GetAuthorizationState(providerState)
	if err != nil {
		// Unknown or expired state: possible CSRF, no code is minted
		h.audit.LogAuthFailure("unknown or expired provider state", "")
		h.writeError(w, "invalid_request", "unknown or expired authorization state", http.StatusBadRequest)
		return
	}
	h.flowStore.DeleteAuthorizationState(providerState)

	if h.delegate == nil {
		h.writeError(w, "server_error", "identity delegation is not configured", http.StatusInternalServerError)
		return
	}

	token, err := h.delegate.Exchange(r.Context(), providerCode)
	if err != nil {
		h.logger.Error("GitHub code exchange failed", slog.String("error", err.Error()))
		h.writeError(w, "server_error", "failed to verify identity with GitHub", http.StatusBadGateway)
		return
	}
	user, err := h.delegate.FetchUser(r.Context(), token)
	if err != nil {
		h.logger.Error("GitHub user fetch failed", slog.String("error", err.Error()))
		h.writeError(w, "server_error", "failed to fetch GitHub user", http.StatusBadGateway)
		return
	}

	decision := h.policy.Decide(user.Login)
	if decision == DecisionDenied {
		h.audit.LogAccessDenied(user.Login)
	}
	identity := Identity{
		Username: user.Login,
		Subject:  fmt.Sprintf("github:%d", user.ID),
		Decision: decision,
	}

	code, err := h.mintAuthorizationCode(authState.ClientID, authState.RedirectURI, authState.Scope,
		authState.CodeChallenge, authState.CodeChallengeMethod, identity)
	if err != nil {
		h.writeError(w, "server_error", "failed to create authorization code", http.StatusInternalServerError)
		return
	}

	h.logger.Info("identity verified",
		slog.String("user_hash", hashForLogging(user.Login)),
		slog.String("decision", string(decision)))

	h.redirectCode(w, r, authState.RedirectURI, code, authState.State)
}

// mintAuthorizationCode creates and stores a single-use authorization code
// bound to the verified identity.
func (h *Handler) mintAuthorizationCode(clientID, redirectURI, scope, challenge, method string, identity Identity) (string, error) {
	code, err := generateSecureToken(AuthorizationCodeLength)
	if err != nil {
		return "", err
	}
	now := time.Now()
	authCode := &AuthorizationCode{
		Code:                code,
		ClientID:            clientID,
		RedirectURI:         redirectURI,
		Scope:               scope,
		CodeChallenge:       challenge,
		CodeChallengeMethod: method,
		Identity:            identity,
		CreatedAt:           now.Unix(),
		ExpiresAt:           now.Add(DefaultAuthorizationCodeTTL).Unix(),
	}
	if err := h.flowStore.SaveAuthorizationCode(authCode); err != nil {
		return "", err
	}
	return code, nil
}

// redirectCode redirects back to the client with the authorization code.
func (h *Handler) redirectCode(w http.ResponseWriter, r *http.Request, redirectURI, code, state string) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		h.writeError(w, "invalid_redirect_uri", "invalid redirect URI", http.StatusBadRequest)
		return
	}
	q := u.Query()
	q.Set("code", code)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// redirectError redirects back to the client with an OAuth error.
func (h *Handler) redirectError(w http.ResponseWriter, r *http.Request, redirectURI, state, code, description string) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		h.writeError(w, code, description, http.StatusBadRequest)
		return
	}
	q := u.Query()
	q.Set("error", code)
	q.Set("error_description", description)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()
	http.Redirect(w, r, u.String(), http.StatusFound)
}

// ServeToken implements the token endpoint at POST /token.
func (h *Handler) ServeToken(w http.ResponseWriter, r *http.Request) {
	h.setSecurityHeaders(w)
	if r.Method != http.MethodPost {
		h.writeError(w, "invalid_request", "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.writeError(w, "invalid_request", "failed to parse form", http.StatusBadRequest)
		return
	}

	// Token responses must never be cached
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Pragma", "no-cache")

	switch r.FormValue("grant_type") {
	case "authorization_code":
		h.handleAuthorizationCodeGrant(w, r)
	case "refresh_token":
		h.handleRefreshTokenGrant(w, r)
	default:
		h.writeOAuthError(w, ErrUnsupportedGrantType(fmt.Sprintf("unsupported grant type: %s", r.FormValue("grant_type"))))
	}
}

// handleRefreshTokenGrant exchanges a refresh token for a new token pair.
// Rotation is on by default: the presented refresh token is invalidated and
// replaced.
func (h *Handler) handleRefreshTokenGrant(w http.ResponseWriter, r *http.Request) {
	refreshToken := r.FormValue("refresh_token")
	if refreshToken == "" {
		h.writeOAuthError(w, ErrInvalidRequest("refresh_token is required"))
		return
	}

	stored, err := h.tokens.GetRefreshToken(refreshToken)
	if err != nil {
		h.audit.LogAuthFailure("invalid refresh token", r.FormValue("client_id"))
		h.recordRefresh(r.Context(), metricResultFailure)
		h.writeOAuthError(w, ErrInvalidGrant("invalid or expired refresh token"))
		return
	}

	if oerr := h.authenticateClient(r, stored.ClientID); oerr != nil {
		h.audit.LogAuthFailure("client authentication failed", stored.ClientID)
		h.recordRefresh(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}

	// Re-apply the policy so a config change takes effect at refresh time
	identity := stored.Identity
	identity.Decision = h.policy.Decide(identity.Username)

	resp, oerr := h.issueTokens(stored.ClientID, stored.Scope, identity)
	if oerr != nil {
		h.recordRefresh(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}

	if !h.config.Security.DisableRefreshTokenRotation {
		_ = h.tokens.DeleteRefreshToken(refreshToken)
	}
	h.audit.LogTokenRefreshed(stored.ClientID, identity.Username)
	h.recordRefresh(r.Context(), metricResultSuccess)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode token response", slog.String("error", err.Error()))
	}
}

// validateScopes checks that every requested scope is supported.
func (h *Handler) validateScopes(scope string) error {
	if scope == "" {
		return nil
	}
	for _, s := range strings.Fields(scope) {
		if !contains(h.config.SupportedScopes, s) {
			return fmt.Errorf("unsupported scope: %s", s)
		}
	}
	return nil
}

// validateRedirectURI applies the registration-time redirect URI rules:
// no fragments, no dangerous schemes, custom schemes only when enabled and
// matching the configured patterns, and HTTPS for non-loopback hosts when
// the server itself is deployed off loopback.
func (h *Handler) validateRedirectURI(uri string) error {
	u, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid redirect URI: %w", err)
	}
	if u.Fragment != "" {
		return fmt.Errorf("redirect URI must not contain a fragment")
	}
	if u.Scheme == "" {
		return fmt.Errorf("redirect URI must have a scheme")
	}

	scheme := strings.ToLower(u.Scheme)
	for _, dangerous := range DangerousSchemes {
		if scheme == dangerous {
			return fmt.Errorf("redirect URI scheme %q is not allowed", scheme)
		}
	}

	if scheme != "http" && scheme != "https" {
		if !h.config.Security.AllowCustomRedirectSchemes {
			return fmt.Errorf("custom redirect URI schemes are not enabled")
		}
		matched := false
		for _, pattern := range h.config.Security.AllowedCustomSchemes {
			ok, err := regexp.MatchString(pattern, scheme)
			if err == nil && ok {
				matched = true
				break
			}
		}
		if !matched {
			return fmt.Errorf("redirect URI scheme %q does not match allowed patterns", scheme)
		}
		return nil
	}

	if u.Host == "" {
		return fmt.Errorf("redirect URI must have a host")
	}

	// In production (server off loopback), require HTTPS for non-loopback
	// redirect targets
	resourceURL, err := url.Parse(h.config.Resource)
	if err == nil && !isLoopback(resourceURL.Hostname()) {
		if scheme == "http" && !isLoopback(u.Hostname()) {
			return fmt.Errorf("http redirect URIs are only allowed for loopback addresses")
		}
	}
	return nil
}

// contains reports whether list includes value.
func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
