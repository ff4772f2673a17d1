package policycheck

import (
	"context"
	"net/http"
)

// FetchPipelineStats retrieves pipeline stage counts and funnel rates.
// Best-effort: failures yield the zero envelope with non-nil maps so the
// dashboard always has something to draw.
func (c *Client) FetchPipelineStats(ctx context.Context) PipelineStats {
	var stats PipelineStats
	if err := c.do(ctx, http.MethodGet, "/api/stats/pipeline", nil, nil, &stats); err != nil {
		return PipelineStats{}.normalize()
	}
	return stats.normalize()
}

// FetchDashboardStats retrieves the high-level dashboard summary.
// Best-effort like the pipeline stats.
func (c *Client) FetchDashboardStats(ctx context.Context) DashboardStats {
	var stats DashboardStats
	if err := c.do(ctx, http.MethodGet, "/api/stats/dashboard", nil, nil, &stats); err != nil {
		return DashboardStats{}.normalize()
	}
	return stats.normalize()
}
