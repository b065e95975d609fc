// Package garmin implements the Garmin Connect account session and a thin
// HTTP client for the Connect API.
//
// The session persists the Garmin OAuth tokens to a file on disk (default
// ~/.garminconnect) and refreshes them on demand; concurrent refreshes are
// collapsed through singleflight. The client exposes one method per MCP
// tool, returning the raw JSON payloads Garmin serves, and maps transport
// failures onto a small set of typed errors.
package garmin
