// Package common holds shared helpers for the MCP tool packages: argument
// extraction, JSON result formatting and the guarded handler wrapper that
// enforces the per-call access decision and records metrics and audit logs.
package common
