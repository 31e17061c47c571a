package client

import (
	"context"
	"net/http"
	"net/url"

	"folio/internal/analytics"
)

// Summary fetches the server-side portfolio summary.
func (c *Client) Summary(ctx context.Context) (*analytics.Summary, error) {
	var out struct {
		Summary analytics.Summary `json:"summary"`
	}
	if err := c.do(ctx, http.MethodGet, "/portfolio/summary", nil, &out); err != nil {
		return nil, err
	}
	return &out.Summary, nil
}

// Chart fetches a PNG chart. investmentID only applies to the history chart.
func (c *Client) Chart(ctx context.Context, kind, investmentID string) ([]byte, error) {
	path := "/analytics/charts/" + url.PathEscape(kind)
	if investmentID != "" {
		path += "?investment_id=" + url.QueryEscape(investmentID)
	}
	return c.raw(ctx, path)
}

// DashboardReport fetches the dashboard as "md" or "html".
func (c *Client) DashboardReport(ctx context.Context, format string) ([]byte, error) {
	return c.raw(ctx, "/reports/dashboard?format="+url.QueryEscape(format))
}
