package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/policycheck/clerk/internal/policycheck"
)

// Snapshot represents the latest dashboard data available to the UI.
type Snapshot struct {
	Pipeline            policycheck.PipelineStats
	Dashboard           policycheck.DashboardStats
	Documents           policycheck.DocumentPage
	Audit               policycheck.AuditPage
	Sessions            []policycheck.CrawlStatus
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple
// refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot. The background
// refresher writes, the UI reads; the zero value is ready to use.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous
// data is kept but the error is recorded for visibility.
func (s *Store) Update(snap Snapshot, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	failures := 0
	s.snapshot = snap
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = failures
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Documents.Documents = cloneDocuments(s.snapshot.Documents.Documents)
	snap.Audit.Entries = cloneAudit(s.snapshot.Audit.Entries)
	snap.Sessions = cloneSessions(s.snapshot.Sessions)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneDocuments(docs []policycheck.Document) []policycheck.Document {
	if len(docs) == 0 {
		return docs
	}
	dup := make([]policycheck.Document, len(docs))
	copy(dup, docs)
	return dup
}

func cloneAudit(entries []policycheck.AuditEntry) []policycheck.AuditEntry {
	if len(entries) == 0 {
		return entries
	}
	dup := make([]policycheck.AuditEntry, len(entries))
	copy(dup, entries)
	return dup
}

func cloneSessions(sessions []policycheck.CrawlStatus) []policycheck.CrawlStatus {
	if len(sessions) == 0 {
		return sessions
	}
	dup := make([]policycheck.CrawlStatus, len(sessions))
	copy(dup, sessions)
	return dup
}
