package oauth

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ClientStore holds dynamically registered OAuth clients in memory.
// Secrets are bcrypt-hashed before storage; the plaintext is returned to the
// client exactly once in the registration response.
type ClientStore struct {
	mu           sync.RWMutex
	clients      map[string]*RegisteredClient
	clientsPerIP map[string]int
	logger       *slog.Logger
}

// NewClientStore creates a new in-memory client store.
func NewClientStore(logger *slog.Logger) *ClientStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClientStore{
		clients:      make(map[string]*RegisteredClient),
		clientsPerIP: make(map[string]int),
		logger:       logger,
	}
}

// CheckIPLimit verifies the source IP has not exceeded the registration cap.
func (s *ClientStore) CheckIPLimit(ip string, maxPerIP int) error {
	if maxPerIP <= 0 {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.clientsPerIP[ip] >= maxPerIP {
		return fmt.Errorf("registration limit reached for this address")
	}
	return nil
}

// RegisterClient creates a new client from a registration request.
// It generates the client ID and, for confidential clients, a secret.
// The returned secret is plaintext; only its hash is stored.
func (s *ClientStore) RegisterClient(req *ClientRegistrationRequest, ip string) (*RegisteredClient, string, error) {
	clientID, err := generateSecureToken(ClientIDTokenLength)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate client ID: %w", err)
	}

	authMethod := req.TokenEndpointAuthMethod
	if authMethod == "" {
		authMethod = DefaultTokenEndpointAuthMethod
	}

	var secret string
	var secretHash []byte
	if authMethod != "none" {
		secret, err = generateSecureToken(ClientSecretTokenLength)
		if err != nil {
			return nil, "", fmt.Errorf("failed to generate client secret: %w", err)
		}
		secretHash, err = bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return nil, "", fmt.Errorf("failed to hash client secret: %w", err)
		}
	}

	grantTypes := req.GrantTypes
	if len(grantTypes) == 0 {
		grantTypes = DefaultGrantTypes
	}
	responseTypes := req.ResponseTypes
	if len(responseTypes) == 0 {
		responseTypes = DefaultResponseTypes
	}

	client := &RegisteredClient{
		ClientID:                clientID,
		ClientSecretHash:        secretHash,
		ClientIDIssuedAt:        time.Now().Unix(),
		ClientSecretExpiresAt:   0, // secrets do not expire
		RedirectURIs:            req.RedirectURIs,
		TokenEndpointAuthMethod: authMethod,
		GrantTypes:              grantTypes,
		ResponseTypes:           responseTypes,
		ClientName:              req.ClientName,
		Scope:                   req.Scope,
	}

	s.mu.Lock()
	s.clients[clientID] = client
	if ip != "" {
		s.clientsPerIP[ip]++
	}
	s.mu.Unlock()

	s.logger.Info("registered OAuth client",
		slog.String("client_id", clientID),
		slog.String("client_name", req.ClientName),
		slog.String("auth_method", authMethod),
		slog.Int("redirect_uris", len(req.RedirectURIs)))

	return client, secret, nil
}

// GetClient retrieves a registered client by ID.
func (s *ClientStore) GetClient(clientID string) (*RegisteredClient, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	client, ok := s.clients[clientID]
	if !ok {
		return nil, fmt.Errorf("client not found: %s", clientID)
	}
	return client, nil
}

// ValidateClientSecret checks a plaintext secret against the stored hash.
func (s *ClientStore) ValidateClientSecret(clientID, secret string) error {
	client, err := s.GetClient(clientID)
	if err != nil {
		return err
	}
	if len(client.ClientSecretHash) == 0 {
		return fmt.Errorf("client has no secret")
	}
	if err := bcrypt.CompareHashAndPassword(client.ClientSecretHash, []byte(secret)); err != nil {
		return fmt.Errorf("invalid client secret")
	}
	return nil
}

// ValidateRedirectURI checks that the URI is one the client registered.
func (s *ClientStore) ValidateRedirectURI(clientID, redirectURI string) error {
	client, err := s.GetClient(clientID)
	if err != nil {
		return err
	}
	for _, uri := range client.RedirectURIs {
		if uri == redirectURI {
			return nil
		}
	}
	return fmt.Errorf("redirect URI not registered for client")
}

// Count returns the number of registered clients.
func (s *ClientStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}
