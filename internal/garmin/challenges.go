package garmin

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"
)

func challengePage(start, limit int) url.Values {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{}
	q.Set("start", strconv.Itoa(start))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// GetBadgeChallenges returns the badge challenges the account joined.
func (c *Client) GetBadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/completed", challengePage(start, limit))
}

// GetAvailableBadgeChallenges returns badge challenges open for joining.
func (c *Client) GetAvailableBadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/available", challengePage(start, limit))
}

// GetNonCompletedBadgeChallenges returns joined but unfinished badge
// challenges.
func (c *Client) GetNonCompletedBadgeChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	return c.getJSON(ctx, "/badgechallenge-service/badgeChallenge/non-completed", challengePage(start, limit))
}

// GetAdhocChallenges returns the account's historical ad-hoc challenges.
func (c *Client) GetAdhocChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	return c.getJSON(ctx, "/adhocchallenge-service/adHocChallenge/historical", challengePage(start, limit))
}

// GetInProgressVirtualChallenges returns in-progress virtual challenges.
func (c *Client) GetInProgressVirtualChallenges(ctx context.Context, start, limit int) (json.RawMessage, error) {
	return c.getJSON(ctx, "/badgechallenge-service/virtualChallenge/inProgress", challengePage(start, limit))
}
