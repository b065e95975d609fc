package oauth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// authCodeRequest holds the parsed authorization_code grant parameters.
type authCodeRequest struct {
	Code         string
	RedirectURI  string
	ClientID     string
	CodeVerifier string
}

// handleAuthorizationCodeGrant exchanges a single-use authorization code
// plus PKCE verifier for a token pair.
func (h *Handler) handleAuthorizationCodeGrant(w http.ResponseWriter, r *http.Request) {
	req, oerr := parseAuthCodeRequest(r)
	if oerr != nil {
		h.writeOAuthError(w, oerr)
		return
	}

	authCode, oerr := h.validateAndRetrieveAuthCode(req)
	if oerr != nil {
		h.audit.LogAuthFailure("invalid authorization code", req.ClientID)
		h.recordAuth(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}

	if oerr := h.validatePKCE(authCode, req.CodeVerifier); oerr != nil {
		h.audit.LogInvalidPKCE(authCode.ClientID)
		h.recordAuth(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}

	if oerr := h.authenticateClient(r, authCode.ClientID); oerr != nil {
		h.audit.LogAuthFailure("client authentication failed", authCode.ClientID)
		h.recordAuth(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}

	resp, oerr := h.issueTokens(authCode.ClientID, authCode.Scope, authCode.Identity)
	if oerr != nil {
		h.recordAuth(r.Context(), metricResultFailure)
		h.writeOAuthError(w, oerr)
		return
	}
	h.audit.LogTokenIssued(authCode.ClientID, authCode.Identity.Username)
	h.recordAuth(r.Context(), metricResultSuccess)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("failed to encode token response", slog.String("error", err.Error()))
	}
}

// parseAuthCodeRequest extracts the authorization_code grant parameters.
func parseAuthCodeRequest(r *http.Request) (*authCodeRequest, *OAuthError) {
	req := &authCodeRequest{
		Code:         r.FormValue("code"),
		RedirectURI:  r.FormValue("redirect_uri"),
		ClientID:     r.FormValue("client_id"),
		CodeVerifier: r.FormValue("code_verifier"),
	}
	if req.Code == "" {
		return nil, ErrInvalidRequest("code is required")
	}
	return req, nil
}

// validateAndRetrieveAuthCode consumes the code from the flow store and
// checks its binding to the requesting client. Retrieval deletes the code,
// so a replay fails exactly like an unknown code.
func (h *Handler) validateAndRetrieveAuthCode(req *authCodeRequest) (*AuthorizationCode, *OAuthError) {
	authCode, err := h.flowStore.GetAuthorizationCode(req.Code)
	if err != nil {
		return nil, ErrInvalidGrant("invalid or expired authorization code")
	}
	// client_id may be omitted by public clients relying on PKCE alone
	if req.ClientID != "" && req.ClientID != authCode.ClientID {
		return nil, ErrInvalidGrant("authorization code was issued to a different client")
	}
	if req.RedirectURI != authCode.RedirectURI {
		return nil, ErrInvalidGrant("redirect_uri does not match the authorization request")
	}
	return authCode, nil
}

// validatePKCE recomputes the code challenge from the presented verifier.
func (h *Handler) validatePKCE(authCode *AuthorizationCode, verifier string) *OAuthError {
	if authCode.CodeChallenge == "" {
		return nil
	}
	if verifier == "" {
		return ErrInvalidRequest("code_verifier is required")
	}
	if len(verifier) < MinCodeVerifierLength || len(verifier) > MaxCodeVerifierLength {
		return ErrInvalidGrant("code_verifier length out of range")
	}
	if !ValidateCodeChallenge(verifier, authCode.CodeChallenge, authCode.CodeChallengeMethod) {
		return ErrInvalidGrant("invalid code_verifier")
	}
	return nil
}

// authenticateClient verifies client credentials for confidential clients.
// Public clients (token_endpoint_auth_method "none") pass without a secret.
func (h *Handler) authenticateClient(r *http.Request, clientID string) *OAuthError {
	client, err := h.clientStore.GetClient(clientID)
	if err != nil {
		return ErrInvalidClient("unknown client")
	}
	if client.TokenEndpointAuthMethod == "none" {
		return nil
	}

	secret := r.FormValue("client_secret")
	if secret == "" {
		basicID, basicSecret, ok := r.BasicAuth()
		if !ok || basicID != clientID {
			return ErrInvalidClient("client authentication required")
		}
		secret = basicSecret
	}
	if err := h.clientStore.ValidateClientSecret(clientID, secret); err != nil {
		return ErrInvalidClient("invalid client credentials")
	}
	return nil
}

// issueTokens mints an access token and a refresh token bound to the
// identity and stores them.
func (h *Handler) issueTokens(clientID, scope string, identity Identity) (*TokenResponse, *OAuthError) {
	accessToken, err := generateSecureToken(AccessTokenLength)
	if err != nil {
		return nil, ErrServerError("failed to generate access token")
	}
	refreshToken, err := generateSecureToken(RefreshTokenLength)
	if err != nil {
		return nil, ErrServerError("failed to generate refresh token")
	}

	now := time.Now()
	accessTTL := h.config.Security.AccessTokenTTL
	if err := h.tokens.SaveAccessToken(&IssuedToken{
		Token:     accessToken,
		ClientID:  clientID,
		Scope:     scope,
		Identity:  identity,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(accessTTL).Unix(),
	}); err != nil {
		return nil, ErrServerError("failed to store access token")
	}
	if err := h.tokens.SaveRefreshToken(&IssuedToken{
		Token:     refreshToken,
		ClientID:  clientID,
		Scope:     scope,
		Identity:  identity,
		CreatedAt: now.Unix(),
		ExpiresAt: now.Add(h.config.Security.RefreshTokenTTL).Unix(),
	}); err != nil {
		_ = h.tokens.DeleteAccessToken(accessToken)
		return nil, ErrServerError("failed to store refresh token")
	}

	return &TokenResponse{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(accessTTL.Seconds()),
		RefreshToken: refreshToken,
		Scope:        scope,
	}, nil
}
