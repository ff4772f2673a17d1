package policycheck

import (
	"context"
	"net/http"
)

// FetchHealth probes the unauthenticated health endpoint.
func (c *Client) FetchHealth(ctx context.Context) (Health, error) {
	var health Health
	if err := c.do(ctx, http.MethodGet, "/health", nil, nil, &health); err != nil {
		return Health{}, err
	}
	return health, nil
}

// ResetSystem wipes all crawl sessions, documents, and stored files.
// Admin only; the server enforces the role and answers 403 otherwise.
func (c *Client) ResetSystem(ctx context.Context) (ResetResult, error) {
	var result ResetResult
	if err := c.do(ctx, http.MethodDelete, "/api/system/reset", nil, nil, &result); err != nil {
		return ResetResult{}, err
	}
	return result, nil
}
