package garmin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultAPIBaseURL = "https://connectapi.garmin.com"

// Typed errors for the tool layer to map onto tool results.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates Garmin Connect throttled the request
	ErrRateLimited = errors.New("rate limited by Garmin Connect")

	// ErrSessionExpired indicates the Garmin session could not be renewed
	ErrSessionExpired = errors.New("Garmin Connect session expired")

	// ErrUnavailable indicates a Garmin Connect server-side failure
	ErrUnavailable = errors.New("Garmin Connect unavailable")
)

// Client is a thin HTTP client for the Garmin Connect API. Methods return
// the raw JSON Garmin serves; interpretation is left to the MCP client.
type Client struct {
	baseURL    string
	session    *Session
	httpClient *http.Client
	logger     *slog.Logger

	mu          sync.Mutex
	displayName string
	profileID   int64
}

// NewClient creates a client backed by the given session.
func NewClient(session *Session, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    defaultAPIBaseURL,
		session:    session,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		logger:     logger,
	}
}

// Connected reports whether the backing session holds a usable token.
func (c *Client) Connected() bool {
	return c.session.Connected()
}

// getJSON performs a GET request against the Connect API.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// postJSON performs a POST request with a JSON body.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// putJSON performs a PUT request with a JSON body.
func (c *Client) putJSON(ctx context.Context, path string, body interface{}) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// deleteJSON performs a DELETE request.
func (c *Client) deleteJSON(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do executes a request with the session token, retrying once after a token
// renewal when Garmin rejects the token mid-flight.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, error) {
	result, retryable, err := c.doOnce(ctx, method, path, query, body)
	if retryable {
		result, _, err = c.doOnce(ctx, method, path, query, body)
	}
	return result, err
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body interface{}) (json.RawMessage, bool, error) {
	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, false, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.session.Invalidate(token)
		c.logger.Debug("Garmin rejected token, renewing session",
			slog.Int("status", resp.StatusCode),
			slog.String("path", path))
		return nil, true, ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, false, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, false, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, false, fmt.Errorf("Garmin Connect returned status %d: %s", resp.StatusCode, string(data))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read response: %w", err)
	}
	if len(data) == 0 {
		data = []byte(`{}`)
	}
	return json.RawMessage(data), false, nil
}

// fetchProfile loads and caches the account's display name and profile ID.
// Several wellness endpoints embed the display name in their path and the
// gear service keys on the numeric profile ID.
func (c *Client) fetchProfile(ctx context.Context) error {
	c.mu.Lock()
	cached := c.displayName != ""
	c.mu.Unlock()
	if cached {
		return nil
	}

	data, err := c.getJSON(ctx, "/userprofile-service/socialProfile", nil)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}
	var profile struct {
		DisplayName string `json:"displayName"`
		ProfileID   int64  `json:"profileId"`
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("failed to parse user profile: %w", err)
	}
	if profile.DisplayName == "" {
		return fmt.Errorf("user profile has no display name")
	}

	c.mu.Lock()
	c.displayName = profile.DisplayName
	c.profileID = profile.ProfileID
	c.mu.Unlock()
	return nil
}

// profileDisplayName returns the cached display name, fetching it on first use.
func (c *Client) profileDisplayName(ctx context.Context) (string, error) {
	if err := c.fetchProfile(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.displayName, nil
}

// userProfileID returns the cached numeric profile ID, fetching it on first use.
func (c *Client) userProfileID(ctx context.Context) (int64, error) {
	if err := c.fetchProfile(ctx); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profileID, nil
}

// getRaw performs a GET request and returns the raw response bytes. Used
// for binary downloads (FIT files, activity exports).
func (c *Client) getRaw(ctx context.Context, path string) ([]byte, error) {
	data, err := c.rawOnce(ctx, path)
	if errors.Is(err, ErrSessionExpired) {
		data, err = c.rawOnce(ctx, path)
	}
	return data, err
}

func (c *Client) rawOnce(ctx context.Context, path string) ([]byte, error) {
	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		c.session.Invalidate(token)
		return nil, ErrSessionExpired
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("Garmin Connect returned status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// postMultipart uploads a file as multipart form data. Used by the activity
// upload endpoint.
func (c *Client) postMultipart(ctx context.Context, path, filename string, content []byte) (json.RawMessage, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("failed to write multipart content: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart form: %w", err)
	}

	token, err := c.session.AccessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("upload failed with status %d: %s", resp.StatusCode, string(body))
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload response: %w", err)
	}
	if len(data) == 0 {
		data = []byte(`{}`)
	}
	return json.RawMessage(data), nil
}

// escape path-escapes an identifier for inclusion in a URL path.
func escape(id string) string {
	return url.PathEscape(strings.TrimSpace(id))
}
