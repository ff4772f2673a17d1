package policycheck

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultAuditPageSize matches the server-side default for /api/audit-log.
const DefaultAuditPageSize = 50

// AuditQuery configures /api/audit-log requests.
type AuditQuery struct {
	Limit      int
	Skip       int
	Action     string
	UserID     int
	DocumentID int
}

// FetchAuditLog lists audit entries with a normalized envelope. Best-effort:
// any failure, including a malformed body, yields the fixed module defaults
// (empty entries, page 1, page size 50) rather than an error.
func (c *Client) FetchAuditLog(ctx context.Context, query AuditQuery) AuditPage {
	values := url.Values{}
	if query.Limit > 0 {
		values.Set("limit", strconv.Itoa(query.Limit))
	}
	if query.Skip > 0 {
		values.Set("skip", strconv.Itoa(query.Skip))
	}
	if action := strings.TrimSpace(query.Action); action != "" {
		values.Set("action", action)
	}
	if query.UserID > 0 {
		values.Set("user_id", strconv.Itoa(query.UserID))
	}
	if query.DocumentID > 0 {
		values.Set("document_id", strconv.Itoa(query.DocumentID))
	}

	var wire struct {
		Entries  []auditEntryWire `json:"entries"`
		Total    int              `json:"total"`
		Page     int              `json:"page"`
		PageSize int              `json:"page_size"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/audit-log", values, nil, &wire); err != nil {
		return emptyAuditPage()
	}

	entries := make([]AuditEntry, 0, len(wire.Entries))
	for _, w := range wire.Entries {
		entries = append(entries, w.normalize())
	}

	total := wire.Total
	if total < 0 {
		total = 0
	}
	pageSize := wire.PageSize
	if pageSize <= 0 {
		pageSize = DefaultAuditPageSize
	}
	page := wire.Page
	if page < 1 {
		page = 1
	}

	return AuditPage{
		Entries:  entries,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    pageCount(total, pageSize),
	}
}

func emptyAuditPage() AuditPage {
	return AuditPage{
		Entries:  []AuditEntry{},
		Total:    0,
		Page:     1,
		PageSize: DefaultAuditPageSize,
		Pages:    1,
	}
}
