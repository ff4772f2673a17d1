package policycheck

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultDocumentPageSize is applied when neither the caller nor the server
// states a page size.
const DefaultDocumentPageSize = 20

// DocumentQuery configures /api/documents requests. Zero values are omitted
// from the query string.
type DocumentQuery struct {
	Search         string
	Country        string
	Classification string
	CrawlSessionID int
	Page           int // 1-based
	PageSize       int
}

// FetchDocuments lists documents with a normalized pagination envelope.
// List views are best-effort: any failure (transport, status, malformed
// body) yields the all-defaults empty envelope instead of an error, so a
// dashboard render never depends on this call succeeding.
func (c *Client) FetchDocuments(ctx context.Context, query DocumentQuery) DocumentPage {
	pageSize := query.PageSize
	if pageSize <= 0 {
		pageSize = DefaultDocumentPageSize
	}
	page := query.Page
	if page < 1 {
		page = 1
	}

	values := url.Values{}
	values.Set("limit", strconv.Itoa(pageSize))
	values.Set("offset", strconv.Itoa((page-1)*pageSize))
	if s := strings.TrimSpace(query.Search); s != "" {
		values.Set("search", s)
	}
	if s := strings.TrimSpace(query.Country); s != "" {
		values.Set("country", s)
	}
	if s := strings.TrimSpace(query.Classification); s != "" {
		values.Set("classification", s)
	}
	if query.CrawlSessionID > 0 {
		values.Set("crawl_session_id", strconv.Itoa(query.CrawlSessionID))
	}

	var wire struct {
		Documents []documentWire `json:"documents"`
		Total     int            `json:"total"`
		Limit     int            `json:"limit"`
		Offset    int            `json:"offset"`
		HasMore   bool           `json:"has_more"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/documents", values, nil, &wire); err != nil {
		return emptyDocumentPage()
	}

	docs := make([]Document, 0, len(wire.Documents))
	for _, w := range wire.Documents {
		docs = append(docs, w.normalize())
	}

	effectiveSize := wire.Limit
	if effectiveSize <= 0 {
		effectiveSize = pageSize
	}
	total := wire.Total
	if total < 0 {
		total = 0
	}
	currentPage := wire.Offset/effectiveSize + 1
	if currentPage < 1 {
		currentPage = 1
	}

	return DocumentPage{
		Documents: docs,
		Total:     total,
		PageSize:  effectiveSize,
		Page:      currentPage,
		Pages:     pageCount(total, effectiveSize),
		HasMore:   wire.HasMore,
	}
}

func emptyDocumentPage() DocumentPage {
	return DocumentPage{
		Documents: []Document{},
		Total:     0,
		PageSize:  DefaultDocumentPageSize,
		Page:      1,
		Pages:     1,
	}
}

// pageCount computes ceil(total/pageSize) with a floor of 1.
func pageCount(total, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// FetchDocument retrieves one document by id. Unlike the list fetch, detail
// lookups propagate errors so the caller can render the server's message.
func (c *Client) FetchDocument(ctx context.Context, id int) (Document, error) {
	if id <= 0 {
		return Document{}, fmt.Errorf("document id required")
	}
	var wire documentWire
	if err := c.do(ctx, http.MethodGet, "/api/documents/"+strconv.Itoa(id), nil, nil, &wire); err != nil {
		return Document{}, err
	}
	return wire.normalize(), nil
}

// ApproveDocument marks a document as validated.
func (c *Client) ApproveDocument(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("document id required")
	}
	return c.do(ctx, http.MethodPost, "/api/documents/"+strconv.Itoa(id)+"/validate", nil, nil, nil)
}

// RejectDocument marks a document as rejected.
func (c *Client) RejectDocument(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("document id required")
	}
	return c.do(ctx, http.MethodPost, "/api/documents/"+strconv.Itoa(id)+"/reject", nil, nil, nil)
}

// DeleteDocument removes a document record.
func (c *Client) DeleteDocument(ctx context.Context, id int) error {
	if id <= 0 {
		return fmt.Errorf("document id required")
	}
	return c.do(ctx, http.MethodDelete, "/api/documents/"+strconv.Itoa(id), nil, nil, nil)
}

// FetchDocumentStats retrieves the storage and session summary.
func (c *Client) FetchDocumentStats(ctx context.Context) (DocumentStats, error) {
	var stats DocumentStats
	if err := c.do(ctx, http.MethodGet, "/api/documents/stats/summary", nil, nil, &stats); err != nil {
		return DocumentStats{}, err
	}
	return stats, nil
}
