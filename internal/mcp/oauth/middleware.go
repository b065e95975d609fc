package oauth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// contextKey is a private type for request context values.
type contextKey string

const (
	identityContextKey contextKey = "oauth_identity"
	tokenContextKey    contextKey = "oauth_token"
)

// ContextWithIdentity returns a context carrying the identity, as the
// ValidateToken middleware attaches it for authenticated requests.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// GetIdentityFromContext returns the identity bound to the request's bearer
// token, if the request passed the ValidateToken middleware.
func GetIdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}

// GetTokenFromContext returns the raw bearer token from the request context.
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// ValidateToken is middleware that authenticates the bearer token against
// the token store.
//
// Missing, malformed or expired tokens are rejected with 401 and a
// WWW-Authenticate header pointing at the resource metadata. A valid token
// whose identity was denied by the access policy passes through: the denial
// is enforced per tool call so the client gets a readable tool error rather
// than a transport failure.
func (h *Handler) ValidateToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if auth == "" {
			h.writeUnauthorizedError(w, "missing Authorization header")
			return
		}
		if !strings.HasPrefix(auth, "Bearer ") {
			h.writeUnauthorizedError(w, "Authorization header must use the Bearer scheme")
			return
		}
		token := strings.TrimPrefix(auth, "Bearer ")
		if token == "" {
			h.writeUnauthorizedError(w, "empty bearer token")
			return
		}

		stored, err := h.tokens.GetAccessToken(token)
		if err != nil {
			h.logger.Debug("bearer token rejected",
				slog.String("token", fmt.Sprintf("[token:%d chars]", len(token))),
				slog.String("error", err.Error()))
			h.writeUnauthorizedError(w, "invalid or expired access token")
			return
		}

		ctx := ContextWithIdentity(r.Context(), stored.Identity)
		ctx = context.WithValue(ctx, tokenContextKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// writeUnauthorizedError writes a 401 with the WWW-Authenticate challenge
// required by the MCP authorization spec.
func (h *Handler) writeUnauthorizedError(w http.ResponseWriter, description string) {
	w.Header().Set("WWW-Authenticate",
		fmt.Sprintf(`Bearer realm=%q, resource_metadata=%q`,
			h.config.Resource,
			h.resourceURL("/.well-known/oauth-protected-resource")))
	h.writeError(w, "invalid_token", description, http.StatusUnauthorized)
}
