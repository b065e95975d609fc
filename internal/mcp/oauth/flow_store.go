package oauth

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// FlowStore holds in-flight authorization flow state: pending authorization
// requests keyed by the provider state we sent to GitHub, and minted
// authorization codes keyed by code value. Codes are strictly single-use;
// retrieval deletes them.
type FlowStore struct {
	mu     sync.RWMutex
	states map[string]*AuthorizationState
	codes  map[string]*AuthorizationCode
	logger *slog.Logger
}

// NewFlowStore creates a flow store with a background cleanup goroutine.
func NewFlowStore(logger *slog.Logger, cleanupInterval time.Duration) *FlowStore {
	if logger == nil {
		logger = slog.Default()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = DefaultCleanupInterval
	}
	s := &FlowStore{
		states: make(map[string]*AuthorizationState),
		codes:  make(map[string]*AuthorizationCode),
		logger: logger,
	}
	go s.cleanup(cleanupInterval)
	return s
}

// SaveAuthorizationState stores a pending authorization request keyed by
// provider state.
func (s *FlowStore) SaveAuthorizationState(state *AuthorizationState) error {
	if state.ProviderState == "" {
		return fmt.Errorf("authorization state missing provider state")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[state.ProviderState] = state
	return nil
}

// GetAuthorizationState retrieves a pending request by provider state.
// Expired entries are treated as missing.
func (s *FlowStore) GetAuthorizationState(providerState string) (*AuthorizationState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[providerState]
	if !ok {
		return nil, fmt.Errorf("authorization state not found")
	}
	if time.Now().Unix() > state.ExpiresAt {
		return nil, fmt.Errorf("authorization state expired")
	}
	return state, nil
}

// DeleteAuthorizationState removes a pending request.
func (s *FlowStore) DeleteAuthorizationState(providerState string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, providerState)
}

// SaveAuthorizationCode stores a minted authorization code.
func (s *FlowStore) SaveAuthorizationCode(code *AuthorizationCode) error {
	if code.Code == "" {
		return fmt.Errorf("authorization code missing code value")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[code.Code] = code
	return nil
}

// GetAuthorizationCode retrieves and deletes an authorization code.
// The delete-on-read makes codes single-use: a replayed code is
// indistinguishable from an unknown one.
func (s *FlowStore) GetAuthorizationCode(code string) (*AuthorizationCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.codes[code]
	if !ok {
		return nil, fmt.Errorf("authorization code not found")
	}
	delete(s.codes, code)
	if time.Now().Unix() > c.ExpiresAt {
		return nil, fmt.Errorf("authorization code expired")
	}
	return c, nil
}

// cleanup periodically removes expired states and codes.
func (s *FlowStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanupExpired()
	}
}

func (s *FlowStore) cleanupExpired() {
	now := time.Now().Unix()

	s.mu.RLock()
	var expiredStates, expiredCodes []string
	for key, state := range s.states {
		if now > state.ExpiresAt {
			expiredStates = append(expiredStates, key)
		}
	}
	for key, code := range s.codes {
		if now > code.ExpiresAt {
			expiredCodes = append(expiredCodes, key)
		}
	}
	s.mu.RUnlock()

	if len(expiredStates) == 0 && len(expiredCodes) == 0 {
		return
	}

	s.mu.Lock()
	for _, key := range expiredStates {
		if state, ok := s.states[key]; ok && now > state.ExpiresAt {
			delete(s.states, key)
		}
	}
	for _, key := range expiredCodes {
		if code, ok := s.codes[key]; ok && now > code.ExpiresAt {
			delete(s.codes, key)
		}
	}
	s.mu.Unlock()

	s.logger.Debug("cleaned up expired flow state",
		slog.Int("states", len(expiredStates)),
		slog.Int("codes", len(expiredCodes)))
}
