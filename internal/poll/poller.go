// Package poll drives a bounded-lifetime polling loop over one crawl
// session's status.
//
// A Poller owns the latest status snapshot for the job it tracks. Ticks are
// serialized: one goroutine fetches, applies, then waits, so tick N's result
// is always applied before tick N+1 is issued. The loop ends on a terminal
// status, on the first failed tick (deliberate fail-fast, not a retry
// policy), or on Stop. Stop is synchronous: once it returns, no further
// snapshot mutation can occur, even from a fetch already in flight; the
// straggler's result is discarded, never applied.
package poll

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/policycheck/clerk/internal/policycheck"
)

const defaultInterval = 2 * time.Second

// StatusFetcher is the slice of the API client the poller needs.
// Implemented by *policycheck.Client.
type StatusFetcher interface {
	FetchCrawlStatus(ctx context.Context, crawlID int) (policycheck.CrawlStatus, error)
}

var _ StatusFetcher = (*policycheck.Client)(nil)

// State is the poller's lifecycle position.
type State int

const (
	Idle State = iota
	Polling
	Terminal
	Stopped
)

func (s State) String() string {
	switch s {
	case Polling:
		return "polling"
	case Terminal:
		return "terminal"
	case Stopped:
		return "stopped"
	}
	return "idle"
}

// Snapshot is the latest data available to the consumer.
type Snapshot struct {
	JobID       int
	State       State
	Status      policycheck.CrawlStatus
	HasStatus   bool
	LastError   error
	LastUpdated time.Time
}

// Poller tracks one crawl session at a time.
type Poller struct {
	mu       sync.Mutex
	fetcher  StatusFetcher
	interval time.Duration

	state State
	jobID int
	gen   int
	stop  chan struct{}

	status      policycheck.CrawlStatus
	hasStatus   bool
	lastError   error
	lastUpdated time.Time
}

// New builds a Poller. A non-positive interval uses the default cadence.
func New(fetcher StatusFetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{fetcher: fetcher, interval: interval}
}

// Start begins polling jobID: an immediate fetch, then one per interval.
// Starting the job already being polled is a no-op, as is restarting a job
// that has reached a terminal state without an intervening Reset. Starting a
// different job cancels the previous schedule first.
func (p *Poller) Start(ctx context.Context, jobID int) {
	if jobID <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.jobID == jobID {
		switch p.state {
		case Polling, Terminal:
			return
		}
	}
	p.cancelLocked()

	p.jobID = jobID
	p.state = Polling
	p.status = policycheck.CrawlStatus{}
	p.hasStatus = false
	p.lastError = nil
	p.gen++
	p.stop = make(chan struct{})

	go p.loop(ctx, p.gen, jobID, p.stop)
}

func (p *Poller) loop(ctx context.Context, gen, jobID int, stop chan struct{}) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		status, err := p.fetcher.FetchCrawlStatus(ctx, jobID)
		if !p.apply(gen, status, err) {
			return
		}
		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// apply records one tick's result. It returns false when the loop must end:
// the poller was stopped or restarted while the fetch was in flight (result
// discarded), the fetch failed, or the status is terminal.
func (p *Poller) apply(gen int, status policycheck.CrawlStatus, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return false
	}
	if err != nil {
		// Fail-fast: a broken status channel stops consuming resources
		// instead of looping against a dead endpoint. The last good
		// snapshot stays readable.
		p.state = Stopped
		p.lastError = err
		p.lastUpdated = time.Now()
		log.Printf("crawl %d status poll failed, polling stopped: %v", p.jobID, err)
		return false
	}

	p.status = status
	p.hasStatus = true
	p.lastError = nil
	p.lastUpdated = time.Now()

	if status.IsTerminal() {
		p.state = Terminal
		return false
	}
	return true
}

// Stop cancels any pending schedule. Safe to call repeatedly, from teardown
// hooks, and before Start ever ran. After Stop returns, no snapshot
// mutation will occur.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state == Polling {
		p.cancelLocked()
		p.state = Stopped
	}
}

// Reset returns a finished poller to Idle so the same job id may be polled
// again. A poller still in Polling is stopped first.
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancelLocked()
	p.state = Idle
	p.jobID = 0
	p.status = policycheck.CrawlStatus{}
	p.hasStatus = false
	p.lastError = nil
}

// cancelLocked invalidates the running schedule. Callers hold p.mu. The
// generation bump makes any in-flight fetch's result unappliable before
// this function returns.
func (p *Poller) cancelLocked() {
	p.gen++
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
}

// Snapshot returns a copy of the poller's current state and last status.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Snapshot{
		JobID:       p.jobID,
		State:       p.state,
		Status:      p.status,
		HasStatus:   p.hasStatus,
		LastError:   p.lastError,
		LastUpdated: p.lastUpdated,
	}
}
