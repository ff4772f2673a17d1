package app

import (
	"context"
	"log"
	"time"

	"github.com/policycheck/clerk/internal/policycheck"
	"github.com/policycheck/clerk/internal/session"
	"github.com/policycheck/clerk/internal/state"
)

const defaultRefreshInterval = 2 * time.Second

// StartRefresher launches a background goroutine that refreshes the
// dashboard store at a fixed cadence while a session is active. It returns
// immediately.
func StartRefresher(ctx context.Context, store *state.Store, client *policycheck.Client, sess *session.Controller, interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			if !sess.IsAuthenticated() {
				continue
			}
			refresh(ctx, store, client)
		}
	}()
}

// refresh gathers one full dashboard snapshot. The health probe decides
// whether the API is reachable at all; the list fetches are individually
// best-effort and normalize their own failures away.
func refresh(ctx context.Context, store *state.Store, client *policycheck.Client) {
	if _, err := client.FetchHealth(ctx); err != nil {
		store.Update(state.Snapshot{}, err)
		log.Printf("dashboard refresh failed: %v", err)
		return
	}

	snap := state.Snapshot{
		Pipeline:  client.FetchPipelineStats(ctx),
		Dashboard: client.FetchDashboardStats(ctx),
		Documents: client.FetchDocuments(ctx, policycheck.DocumentQuery{}),
		Audit:     client.FetchAuditLog(ctx, policycheck.AuditQuery{Limit: 25}),
		Sessions:  client.FetchCrawlSessions(ctx),
	}
	store.Update(snap, nil)
}
