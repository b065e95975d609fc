package oauth

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TokenStore persists issued access and refresh tokens. The interface exists
// so a future shared backing store (e.g. for multi-replica deployments) can
// replace the in-memory implementation without touching the handler.
type TokenStore interface {
	SaveAccessToken(token *IssuedToken) error
	GetAccessToken(token string) (*IssuedToken, error)
	DeleteAccessToken(token string) error

	SaveRefreshToken(token *IssuedToken) error
	GetRefreshToken(token string) (*IssuedToken, error)
	DeleteRefreshToken(token string) error
}

// MemoryTokenStore is the in-memory TokenStore with background cleanup of
// expired entries.
type MemoryTokenStore struct {
	mu      sync.RWMutex
	access  map[string]*IssuedToken
	refresh map[string]*IssuedToken
	logger  *slog.Logger
}

// NewMemoryTokenStore creates a token store with the default cleanup interval.
func NewMemoryTokenStore(logger *slog.Logger) *MemoryTokenStore {
	return NewMemoryTokenStoreWithInterval(logger, DefaultCleanupInterval)
}

// NewMemoryTokenStoreWithInterval creates a token store with a custom cleanup
// interval.
func NewMemoryTokenStoreWithInterval(logger *slog.Logger, cleanupInterval time.Duration) *MemoryTokenStore {
	if logger == nil {
		logger = slog.Default()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	s := &MemoryTokenStore{
		access:  make(map[string]*IssuedToken),
		refresh: make(map[string]*IssuedToken),
		logger:  logger,
	}
	go s.cleanup(cleanupInterval)
	return s
}

// SaveAccessToken stores an access token.
func (s *MemoryTokenStore) SaveAccessToken(token *IssuedToken) error {
	if token == nil || token.Token == "" {
		return fmt.Errorf("access token is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access[token.Token] = token
	return nil
}

// GetAccessToken retrieves an access token. Expired tokens (beyond the clock
// skew grace) are treated as missing.
func (s *MemoryTokenStore) GetAccessToken(token string) (*IssuedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.access[token]
	if !ok {
		return nil, fmt.Errorf("access token not found")
	}
	if expired(t) {
		return nil, fmt.Errorf("access token expired")
	}
	return t, nil
}

// DeleteAccessToken removes an access token.
func (s *MemoryTokenStore) DeleteAccessToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.access, token)
	return nil
}

// SaveRefreshToken stores a refresh token.
func (s *MemoryTokenStore) SaveRefreshToken(token *IssuedToken) error {
	if token == nil || token.Token == "" {
		return fmt.Errorf("refresh token is empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refresh[token.Token] = token
	return nil
}

// GetRefreshToken retrieves a refresh token.
func (s *MemoryTokenStore) GetRefreshToken(token string) (*IssuedToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.refresh[token]
	if !ok {
		return nil, fmt.Errorf("refresh token not found")
	}
	if expired(t) {
		return nil, fmt.Errorf("refresh token expired")
	}
	return t, nil
}

// DeleteRefreshToken removes a refresh token.
func (s *MemoryTokenStore) DeleteRefreshToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.refresh, token)
	return nil
}

// Stats returns the current number of live tokens, for the detailed health
// endpoint.
func (s *MemoryTokenStore) Stats() (accessTokens, refreshTokens int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.access), len(s.refresh)
}

// expired reports whether a token is past its expiry plus the clock skew
// grace period.
func expired(t *IssuedToken) bool {
	return time.Now().Unix() > t.ExpiresAt+ClockSkewGrace
}

// cleanup periodically removes expired tokens.
func (s *MemoryTokenStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanupExpired()
	}
}

func (s *MemoryTokenStore) cleanupExpired() {
	s.mu.RLock()
	var expiredAccess, expiredRefresh []string
	for key, t := range s.access {
		if expired(t) {
			expiredAccess = append(expiredAccess, key)
		}
	}
	for key, t := range s.refresh {
		if expired(t) {
			expiredRefresh = append(expiredRefresh, key)
		}
	}
	s.mu.RUnlock()

	if len(expiredAccess) == 0 && len(expiredRefresh) == 0 {
		return
	}

	s.mu.Lock()
	for _, key := range expiredAccess {
		if t, ok := s.access[key]; ok && expired(t) {
			delete(s.access, key)
		}
	}
	for _, key := range expiredRefresh {
		if t, ok := s.refresh[key]; ok && expired(t) {
			delete(s.refresh, key)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("cleaned up expired tokens",
		slog.Int("access", len(expiredAccess)),
		slog.Int("refresh", len(expiredRefresh)))
}
