package oauth

import (
	"context"
	"net/http"
	"net/url"
	"testing"
)

// recordingMetrics captures grant outcome counts for assertions.
type recordingMetrics struct {
	auth    []string
	refresh []string
}

func (m *recordingMetrics) RecordOAuthAuth(_ context.Context, result string) {
	m.auth = append(m.auth, result)
}

func (m *recordingMetrics) RecordOAuthTokenRefresh(_ context.Context, result string) {
	m.refresh = append(m.refresh, result)
}

func TestTokenGrantsRecordMetrics(t *testing.T) {
	h := newTestHandler(t, nil)
	metrics := &recordingMetrics{}
	h.SetMetrics(metrics)

	clientID := registerTestClient(t, h, testRedirectURI)
	verifier, err := GenerateCodeVerifier()
	if err != nil {
		t.Fatalf("GenerateCodeVerifier() error = %v", err)
	}

	params := url.Values{}
	params.Set("client_id", clientID)
	params.Set("redirect_uri", testRedirectURI)
	params.Set("response_type", "code")
	params.Set("state", "xyz")
	params.Set("code_challenge", GenerateCodeChallenge(verifier))
	params.Set("code_challenge_method", "S256")
	code := redirectQuery(t, authorize(h, params)).Get("code")
	if code == "" {
		t.Fatal("no authorization code in redirect")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", testRedirectURI)
	form.Set("client_id", clientID)
	form.Set("code_verifier", verifier)
	if rec := exchangeToken(h, form); rec.Code != http.StatusOK {
		t.Fatalf("token status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// Replaying the consumed code counts as a failed authorization
	if rec := exchangeToken(h, form); rec.Code != http.StatusBadRequest {
		t.Fatalf("replay status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if len(metrics.auth) != 2 || metrics.auth[0] != "success" || metrics.auth[1] != "failure" {
		t.Errorf("auth outcomes = %v, want [success failure]", metrics.auth)
	}
}

func TestRefreshGrantRecordsMetrics(t *testing.T) {
	h := newTestHandler(t, nil)
	metrics := &recordingMetrics{}
	h.SetMetrics(metrics)

	clientID := registerTestClient(t, h, testRedirectURI)
	resp, oerr := h.issueTokens(clientID, "", Identity{Decision: DecisionGranted})
	if oerr != nil {
		t.Fatalf("issueTokens() error = %v", oerr)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", resp.RefreshToken)
	form.Set("client_id", clientID)
	if rec := exchangeToken(h, form); rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, body = %s", rec.Code, rec.Body.String())
	}

	form.Set("refresh_token", "bogus")
	if rec := exchangeToken(h, form); rec.Code != http.StatusBadRequest {
		t.Fatalf("bogus refresh status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	if len(metrics.refresh) != 2 || metrics.refresh[0] != "success" || metrics.refresh[1] != "failure" {
		t.Errorf("refresh outcomes = %v, want [success failure]", metrics.refresh)
	}
}
