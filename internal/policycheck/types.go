package policycheck

import (
	"encoding/json"
	"time"
)

// Crawl session statuses as reported by the server.
const (
	StatusQueued    = "queued"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusStopped   = "stopped"
)

// IsTerminalStatus reports whether a crawl status admits no further
// transitions.
func IsTerminalStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusFailed, StatusStopped:
		return true
	}
	return false
}

// User mirrors the server's user record.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Country  string `json:"country"`
}

// LoginResult mirrors the payload returned by /api/auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

// RegisterRequest configures /api/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role,omitempty"`
	Country  string `json:"country,omitempty"`
}

// CrawlConfig configures a crawl start request.
type CrawlConfig struct {
	Country        string   `json:"country"`
	SeedURLs       []string `json:"seed_urls"`
	PolicyTypes    []string `json:"policy_types"`
	Keywords       []string `json:"keyword_filters"`
	MaxPages       int      `json:"max_pages"`
	MaxTimeMinutes int      `json:"max_minutes"`
}

// CrawlStart is the canonical result of starting a crawl.
type CrawlStart struct {
	CrawlID             int
	Status              string
	Message             string
	ActiveCrawls        int
	MaxConcurrentCrawls int
}

// crawlStartWire tolerates both the current crawl_id key and the legacy id
// key; only the canonical CrawlStart leaves this package.
type crawlStartWire struct {
	CrawlID             int    `json:"crawl_id"`
	LegacyID            int    `json:"id"`
	Status              string `json:"status"`
	Message             string `json:"message"`
	ActiveCrawls        int    `json:"active_crawls"`
	MaxConcurrentCrawls int    `json:"max_concurrent_crawls"`
}

func (w crawlStartWire) normalize() CrawlStart {
	id := w.CrawlID
	if id == 0 {
		id = w.LegacyID
	}
	return CrawlStart{
		CrawlID:             id,
		Status:              w.Status,
		Message:             w.Message,
		ActiveCrawls:        w.ActiveCrawls,
		MaxConcurrentCrawls: w.MaxConcurrentCrawls,
	}
}

// CrawlStatus mirrors /api/crawl/{id}/status.
type CrawlStatus struct {
	ID             int    `json:"id"`
	Status         string `json:"status"`
	Country        string `json:"country"`
	ProgressPct    int    `json:"progress_pct"`
	PagesScanned   int    `json:"pages_scanned"`
	PDFsFound      int    `json:"pdfs_found"`
	PDFsDownloaded int    `json:"pdfs_downloaded"`
	PDFsFiltered   int    `json:"pdfs_filtered"`
	ErrorsCount    int    `json:"errors_count"`
	StartedAt      string `json:"started_at"`
	CompletedAt    string `json:"completed_at"`
}

// IsTerminal reports whether the session has reached a terminal status.
func (s CrawlStatus) IsTerminal() bool {
	return IsTerminalStatus(s.Status)
}

// ParsedStartedAt returns the parsed start timestamp.
func (s CrawlStatus) ParsedStartedAt() time.Time {
	return parseTime(s.StartedAt)
}

// ParsedCompletedAt returns the parsed completion timestamp.
func (s CrawlStatus) ParsedCompletedAt() time.Time {
	return parseTime(s.CompletedAt)
}

// ActiveCrawls mirrors /api/crawl/active/count.
type ActiveCrawls struct {
	ActiveCrawls        int  `json:"active_crawls"`
	MaxConcurrentCrawls int  `json:"max_concurrent_crawls"`
	AvailableSlots      int  `json:"available_slots"`
	AtCapacity          bool `json:"at_capacity"`
}

// Document is the canonical discovered-document record.
type Document struct {
	ID             int
	SourceURL      string
	Insurer        string
	Country        string
	PolicyType     string
	DocumentType   string
	Classification string
	Confidence     float64
	FileSize       int64
	Status         string
	CreatedAt      string
}

// ParsedCreatedAt returns the parsed creation timestamp.
func (d Document) ParsedCreatedAt() time.Time {
	return parseTime(d.CreatedAt)
}

// documentWire tolerates the alternate document_id identifier key.
type documentWire struct {
	ID             int     `json:"id"`
	DocumentID     int     `json:"document_id"`
	SourceURL      string  `json:"source_url"`
	Insurer        string  `json:"insurer"`
	Country        string  `json:"country"`
	PolicyType     string  `json:"policy_type"`
	DocumentType   string  `json:"document_type"`
	Classification string  `json:"classification"`
	Confidence     float64 `json:"confidence"`
	FileSize       int64   `json:"file_size"`
	Status         string  `json:"status"`
	CreatedAt      string  `json:"created_at"`
}

func (w documentWire) normalize() Document {
	id := w.ID
	if id == 0 {
		id = w.DocumentID
	}
	return Document{
		ID:             id,
		SourceURL:      w.SourceURL,
		Insurer:        w.Insurer,
		Country:        w.Country,
		PolicyType:     w.PolicyType,
		DocumentType:   w.DocumentType,
		Classification: w.Classification,
		Confidence:     w.Confidence,
		FileSize:       w.FileSize,
		Status:         w.Status,
		CreatedAt:      w.CreatedAt,
	}
}

// DocumentPage is the normalized document list envelope. Pages is always at
// least 1 and Total never negative, whatever the server returned.
type DocumentPage struct {
	Documents []Document
	Total     int
	PageSize  int
	Page      int
	Pages     int
	HasMore   bool
}

// DocumentStats mirrors /api/documents/stats/summary.
type DocumentStats struct {
	TotalDocuments     int     `json:"total_documents"`
	TotalCrawlSessions int     `json:"total_crawl_sessions"`
	CompletedSessions  int     `json:"completed_sessions"`
	RunningSessions    int     `json:"running_sessions"`
	FailedSessions     int     `json:"failed_sessions"`
	TotalStorageBytes  int64   `json:"total_storage_bytes"`
	TotalStorageMB     float64 `json:"total_storage_mb"`
}

// PipelineStats mirrors /api/stats/pipeline. Maps are never nil after
// normalization.
type PipelineStats struct {
	Stages         map[string]int     `json:"stages"`
	FunnelRates    map[string]float64 `json:"funnel_rates"`
	TotalProcessed int                `json:"total_processed"`
	AvgConfidence  float64            `json:"avg_confidence"`
	ErrorRate      float64            `json:"error_rate"`
}

func (p PipelineStats) normalize() PipelineStats {
	if p.Stages == nil {
		p.Stages = map[string]int{}
	}
	if p.FunnelRates == nil {
		p.FunnelRates = map[string]float64{}
	}
	return p
}

// DashboardStats mirrors /api/stats/dashboard.
type DashboardStats struct {
	TotalDocuments   int            `json:"total_documents"`
	NeedsReview      int            `json:"needs_review"`
	AutoApproved     int            `json:"auto_approved"`
	UserApproved     int            `json:"user_approved"`
	ByClassification map[string]int `json:"by_classification"`
	ByCountry        map[string]int `json:"by_country"`
	RecentActivity   []AuditEntry   `json:"recent_activity"`
}

func (d DashboardStats) normalize() DashboardStats {
	if d.ByClassification == nil {
		d.ByClassification = map[string]int{}
	}
	if d.ByCountry == nil {
		d.ByCountry = map[string]int{}
	}
	if d.RecentActivity == nil {
		d.RecentActivity = []AuditEntry{}
	}
	return d
}

// AuditEntry is the canonical audit log record.
type AuditEntry struct {
	ID         int
	Timestamp  string
	User       string
	Action     string
	Details    string
	DocumentID int
}

// ParsedTimestamp returns the parsed entry timestamp.
func (e AuditEntry) ParsedTimestamp() time.Time {
	return parseTime(e.Timestamp)
}

// auditEntryWire tolerates both the timestamp and legacy created_at keys,
// and both the user and user_name keys.
type auditEntryWire struct {
	ID         int    `json:"id"`
	Timestamp  string `json:"timestamp"`
	CreatedAt  string `json:"created_at"`
	User       string `json:"user"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	Details    string `json:"details"`
	DocumentID int    `json:"document_id"`
}

func (w auditEntryWire) normalize() AuditEntry {
	ts := w.Timestamp
	if ts == "" {
		ts = w.CreatedAt
	}
	user := w.User
	if user == "" {
		user = w.UserName
	}
	return AuditEntry{
		ID:         w.ID,
		Timestamp:  ts,
		User:       user,
		Action:     w.Action,
		Details:    w.Details,
		DocumentID: w.DocumentID,
	}
}

// UnmarshalJSON keeps alternate audit field names from leaking past this
// package, including entries embedded in dashboard stats.
func (e *AuditEntry) UnmarshalJSON(data []byte) error {
	var wire auditEntryWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*e = wire.normalize()
	return nil
}

// AuditPage is the normalized audit log envelope.
type AuditPage struct {
	Entries  []AuditEntry
	Total    int
	Page     int
	PageSize int
	Pages    int
}

// Health mirrors the unauthenticated /health probe.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// ResetResult mirrors /api/system/reset.
type ResetResult struct {
	Status                   string `json:"status"`
	CrawlSessionsDeleted     int    `json:"crawl_sessions_deleted"`
	DocumentsDeleted         int    `json:"documents_deleted"`
	StorageItemsDeleted      int    `json:"storage_items_deleted"`
	StorageDirectoriesRemade int    `json:"storage_directories_deleted"`
	Message                  string `json:"message"`
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
