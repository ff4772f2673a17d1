// Package app is clerk's composition root.
//
// # Overview
//
// Run wires everything together in dependency order: configuration, the
// credential store, the API client with its hook chain, the session
// controller, the shared dashboard state store, the crawl poller, and
// finally the TUI, which blocks until the operator exits.
//
// # Components
//
//   - app.go: Run and the construction sequence
//   - refresher.go: Background goroutine that keeps the dashboard snapshot
//     fresh while the session is authenticated
//
// # Refresh Behavior
//
// The refresher probes /health first on each tick; when the probe fails the
// whole tick is recorded as one failure and no resource fetches are
// attempted. Ticks are skipped entirely while logged out. List fetches are
// best-effort inside the client, so a partially degraded backend still
// produces a usable snapshot.
//
// # Error Handling
//
// Fatal errors (bad config, unusable API URL, unreadable session path) are
// returned from Run for main to print. Refresh failures are logged and
// counted in the state store; the UI renders an OFFLINE badge once they
// accumulate.
package app
