// Package server wires the MCP server to its HTTP surfaces: the OAuth 2.1
// authorization server endpoints, the bearer-protected /mcp transport, the
// health endpoints and the dedicated Prometheus metrics listener. It also
// owns the shared ServerContext handed to every tool handler.
package server
