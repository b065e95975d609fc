// Package oauth implements the OAuth 2.1 authorization server that fronts
// the MCP endpoint.
//
// It provides Dynamic Client Registration (RFC 7591), the authorization-code
// grant with mandatory PKCE (RFC 7636), refresh-token rotation, and discovery
// metadata (RFC 8414 / RFC 9728). User identity is delegated to GitHub: the
// /authorize endpoint redirects the resource owner to GitHub, and the
// callback exchanges the provider code for a verified GitHub login.
//
// Access control is a single-user allow-list. The policy decision made at
// identity verification time is bound to the issued tokens and re-checked on
// every tool invocation; a denied identity can still complete the OAuth
// handshake but every tool call returns an access-denied result.
//
// All stores are in-memory with background cleanup of expired entries.
// Tokens are opaque random strings; client secrets are stored bcrypt-hashed.
package oauth
