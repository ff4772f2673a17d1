package policycheck

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
)

// StartCrawl asks the server to launch a new crawl session. Capacity and
// validation failures propagate as *APIError so the caller can show the
// server's reason.
func (c *Client) StartCrawl(ctx context.Context, cfg CrawlConfig) (CrawlStart, error) {
	if len(cfg.SeedURLs) == 0 {
		return CrawlStart{}, fmt.Errorf("at least one seed url required")
	}
	var wire crawlStartWire
	if err := c.do(ctx, http.MethodPost, "/api/crawl/start", nil, cfg, &wire); err != nil {
		return CrawlStart{}, err
	}
	return wire.normalize(), nil
}

// FetchCrawlStatus retrieves the status snapshot for one crawl session.
func (c *Client) FetchCrawlStatus(ctx context.Context, crawlID int) (CrawlStatus, error) {
	if crawlID <= 0 {
		return CrawlStatus{}, fmt.Errorf("crawl id required")
	}
	var status CrawlStatus
	path := "/api/crawl/" + strconv.Itoa(crawlID) + "/status"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &status); err != nil {
		return CrawlStatus{}, err
	}
	return status, nil
}

// FetchCrawlSessions lists the caller's crawl sessions, newest first. Like
// the other list fetches it is best-effort: any failure yields an empty
// slice rather than an error.
func (c *Client) FetchCrawlSessions(ctx context.Context) []CrawlStatus {
	var sessions []CrawlStatus
	if err := c.do(ctx, http.MethodGet, "/api/crawl/sessions", nil, nil, &sessions); err != nil {
		return []CrawlStatus{}
	}
	if sessions == nil {
		return []CrawlStatus{}
	}
	return sessions
}

// FetchActiveCrawls reports current crawl capacity.
func (c *Client) FetchActiveCrawls(ctx context.Context) (ActiveCrawls, error) {
	var active ActiveCrawls
	if err := c.do(ctx, http.MethodGet, "/api/crawl/active/count", nil, nil, &active); err != nil {
		return ActiveCrawls{}, err
	}
	return active, nil
}

// FetchCrawlResults returns the documents produced by a crawl session.
func (c *Client) FetchCrawlResults(ctx context.Context, crawlID int) ([]Document, error) {
	if crawlID <= 0 {
		return nil, fmt.Errorf("crawl id required")
	}
	var wire struct {
		CrawlID   int            `json:"crawl_id"`
		Status    string         `json:"status"`
		Total     int            `json:"total"`
		Documents []documentWire `json:"documents"`
	}
	path := "/api/crawl/" + strconv.Itoa(crawlID) + "/results"
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &wire); err != nil {
		return nil, err
	}
	docs := make([]Document, 0, len(wire.Documents))
	for _, w := range wire.Documents {
		docs = append(docs, w.normalize())
	}
	return docs, nil
}
