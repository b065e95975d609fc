package oauth

// Decision is the outcome of evaluating the access policy for an identity.
type Decision string

const (
	// DecisionGranted allows tool invocations for the identity.
	DecisionGranted Decision = "granted"

	// DecisionDenied lets the identity authenticate but blocks every tool
	// invocation with an access-denied result.
	DecisionDenied Decision = "denied"
)

// Identity is the verified user identity bound to authorization codes and
// issued tokens. Username is the GitHub login, or empty when the server runs
// without an identity delegate.
type Identity struct {
	Username string   `json:"username,omitempty"`
	Subject  string   `json:"subject,omitempty"`
	Decision Decision `json:"decision"`
}

// GitHubUser is the subset of the GitHub /user response we consume.
type GitHubUser struct {
	Login string `json:"login"`
	ID    int64  `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RegisteredClient represents a dynamically registered OAuth client.
// The plaintext secret is returned once at registration time and only the
// bcrypt hash is retained.
type RegisteredClient struct {
	ClientID                string   `json:"client_id"`
	ClientSecretHash        []byte   `json:"-"`
	ClientIDIssuedAt        int64    `json:"client_id_issued_at"`
	ClientSecretExpiresAt   int64    `json:"client_secret_expires_at"`
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
	GrantTypes              []string `json:"grant_types"`
	ResponseTypes           []string `json:"response_types"`
	ClientName              string   `json:"client_name,omitempty"`
	Scope                   string   `json:"scope,omitempty"`
}

// ClientRegistrationRequest is the RFC 7591 registration request body.
type ClientRegistrationRequest struct {
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method,omitempty"`
	GrantTypes              []string `json:"grant_types,omitempty"`
	ResponseTypes           []string `json:"response_types,omitempty"`
	ClientName              string   `json:"client_name,omitempty"`
	Scope                   string   `json:"scope,omitempty"`
}

// ClientRegistrationResponse is the RFC 7591 registration response body.
type ClientRegistrationResponse struct {
	ClientID                string   `json:"client_id"`
	ClientSecret            string   `json:"client_secret,omitempty"`
	ClientIDIssuedAt        int64    `json:"client_id_issued_at"`
	ClientSecretExpiresAt   int64    `json:"client_secret_expires_at"`
	RedirectURIs            []string `json:"redirect_uris"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
	GrantTypes              []string `json:"grant_types"`
	ResponseTypes           []string `json:"response_types"`
	ClientName              string   `json:"client_name,omitempty"`
	Scope                   string   `json:"scope,omitempty"`
}

// AuthorizationState is a pending authorization request awaiting identity
// verification. It is keyed by ProviderState, the random state we send to
// GitHub, which ties the provider callback back to the original request.
type AuthorizationState struct {
	State               string // client-supplied state, echoed on the final redirect
	ClientID            string
	RedirectURI         string
	Scope               string
	CodeChallenge       string
	CodeChallengeMethod string
	ProviderState       string
	CreatedAt           int64 // Unix timestamp
	ExpiresAt           int64 // Unix timestamp
}

// AuthorizationCode is a single-use code minted after identity verification.
// It carries the verified identity and the access decision so the token
// endpoint can bind both to the issued tokens.
type AuthorizationCode struct {
	Code                string
	ClientID            string
	RedirectURI         string
	Scope               string
	CodeChallenge       string
	CodeChallengeMethod string
	Identity            Identity
	CreatedAt           int64 // Unix timestamp
	ExpiresAt           int64 // Unix timestamp
}

// IssuedToken is an opaque bearer token (access or refresh) bound to an
// identity and its access decision.
type IssuedToken struct {
	Token     string
	ClientID  string
	Scope     string
	Identity  Identity
	CreatedAt int64 // Unix timestamp
	ExpiresAt int64 // Unix timestamp
}

// TokenResponse is the OAuth 2.0 token endpoint success response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// AuthorizationServerMetadata is the RFC 8414 discovery document served at
// /.well-known/oauth-authorization-server.
type AuthorizationServerMetadata struct {
	Issuer                            string   `json:"issuer"`
	AuthorizationEndpoint             string   `json:"authorization_endpoint"`
	TokenEndpoint                     string   `json:"token_endpoint"`
	RegistrationEndpoint              string   `json:"registration_endpoint,omitempty"`
	ScopesSupported                   []string `json:"scopes_supported,omitempty"`
	ResponseTypesSupported            []string `json:"response_types_supported"`
	GrantTypesSupported               []string `json:"grant_types_supported"`
	TokenEndpointAuthMethodsSupported []string `json:"token_endpoint_auth_methods_supported"`
	CodeChallengeMethodsSupported     []string `json:"code_challenge_methods_supported"`
}

// ProtectedResourceMetadata is the RFC 9728 discovery document served at
// /.well-known/oauth-protected-resource.
type ProtectedResourceMetadata struct {
	Resource               string   `json:"resource"`
	AuthorizationServers   []string `json:"authorization_servers"`
	BearerMethodsSupported []string `json:"bearer_methods_supported,omitempty"`
	ScopesSupported        []string `json:"scopes_supported,omitempty"`
}

// ErrorResponse is the OAuth 2.0 JSON error response body.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	ErrorURI         string `json:"error_uri,omitempty"`
}
