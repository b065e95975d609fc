package oauth

import (
	"testing"
	"time"
)

func newTestTokenStore() *MemoryTokenStore {
	return NewMemoryTokenStoreWithInterval(nil, time.Hour)
}

func TestTokenStoreAccessTokenLifecycle(t *testing.T) {
	store := newTestTokenStore()

	token := &IssuedToken{
		Token:     "access-abc",
		ClientID:  "client-1",
		Scope:     "garmin:read",
		Identity:  Identity{Username: "octocat", Decision: DecisionGranted},
		CreatedAt: time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := store.SaveAccessToken(token); err != nil {
		t.Fatalf("SaveAccessToken() error = %v", err)
	}

	got, err := store.GetAccessToken("access-abc")
	if err != nil {
		t.Fatalf("GetAccessToken() error = %v", err)
	}
	if got.Identity.Username != "octocat" {
		t.Errorf("Identity.Username = %q, want %q", got.Identity.Username, "octocat")
	}
	if got.Identity.Decision != DecisionGranted {
		t.Errorf("Identity.Decision = %q, want %q", got.Identity.Decision, DecisionGranted)
	}

	if err := store.DeleteAccessToken("access-abc"); err != nil {
		t.Fatalf("DeleteAccessToken() error = %v", err)
	}
	if _, err := store.GetAccessToken("access-abc"); err == nil {
		t.Error("expected error after deleting access token")
	}
}

func TestTokenStoreRefreshTokenLifecycle(t *testing.T) {
	store := newTestTokenStore()

	token := &IssuedToken{
		Token:     "refresh-abc",
		ClientID:  "client-1",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}
	if err := store.SaveRefreshToken(token); err != nil {
		t.Fatalf("SaveRefreshToken() error = %v", err)
	}
	if _, err := store.GetRefreshToken("refresh-abc"); err != nil {
		t.Fatalf("GetRefreshToken() error = %v", err)
	}
	if err := store.DeleteRefreshToken("refresh-abc"); err != nil {
		t.Fatalf("DeleteRefreshToken() error = %v", err)
	}
	if _, err := store.GetRefreshToken("refresh-abc"); err == nil {
		t.Error("expected error after deleting refresh token")
	}
}

func TestTokenStoreRejectsEmptyToken(t *testing.T) {
	store := newTestTokenStore()
	if err := store.SaveAccessToken(nil); err == nil {
		t.Error("expected error for nil access token")
	}
	if err := store.SaveAccessToken(&IssuedToken{}); err == nil {
		t.Error("expected error for empty access token value")
	}
	if err := store.SaveRefreshToken(&IssuedToken{}); err == nil {
		t.Error("expected error for empty refresh token value")
	}
}

func TestTokenStoreExpiry(t *testing.T) {
	store := newTestTokenStore()

	// Beyond expiry plus the clock skew grace
	expired := &IssuedToken{
		Token:     "stale",
		ExpiresAt: time.Now().Unix() - ClockSkewGrace - 10,
	}
	if err := store.SaveAccessToken(expired); err != nil {
		t.Fatalf("SaveAccessToken() error = %v", err)
	}
	if _, err := store.GetAccessToken("stale"); err == nil {
		t.Error("expected error for expired access token")
	}

	// Just past nominal expiry but inside the grace window
	graced := &IssuedToken{
		Token:     "graced",
		ExpiresAt: time.Now().Unix() - 1,
	}
	if err := store.SaveAccessToken(graced); err != nil {
		t.Fatalf("SaveAccessToken() error = %v", err)
	}
	if _, err := store.GetAccessToken("graced"); err != nil {
		t.Errorf("token inside clock skew grace rejected: %v", err)
	}
}

func TestTokenStoreCleanupExpired(t *testing.T) {
	store := newTestTokenStore()

	_ = store.SaveAccessToken(&IssuedToken{
		Token:     "live",
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	_ = store.SaveAccessToken(&IssuedToken{
		Token:     "dead",
		ExpiresAt: time.Now().Unix() - ClockSkewGrace - 10,
	})
	_ = store.SaveRefreshToken(&IssuedToken{
		Token:     "dead-refresh",
		ExpiresAt: time.Now().Unix() - ClockSkewGrace - 10,
	})

	store.cleanupExpired()

	if _, err := store.GetAccessToken("live"); err != nil {
		t.Errorf("live token removed by cleanup: %v", err)
	}
	access, refresh := store.Stats()
	if access != 1 {
		t.Errorf("access token count after cleanup = %d, want 1", access)
	}
	if refresh != 0 {
		t.Errorf("refresh token count after cleanup = %d, want 0", refresh)
	}
}
