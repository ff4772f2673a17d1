// Package ui provides the terminal user interface for clerk.
//
// # Overview
//
// The UI is a Bubble Tea program with five views: login, dashboard,
// documents, crawl, and audit. It renders snapshots produced elsewhere (the
// background refresher and the crawl poller) and never fetches data inside
// View; all I/O happens through tea.Cmd functions.
//
// # Package Structure
//
//   - app.go: Model, Update loop, view routing, program entry point
//   - login.go: Credential form and submit flow
//   - views.go: Header/footer chrome, dashboard, documents, audit rendering
//   - crawl.go: Crawl launch form and live progress rendering
//   - commands.go: tea.Cmd wrappers around the API client and session
//   - keys.go: Key bindings
//   - theme.go: Color themes and lipgloss styles
//   - helpers.go: Text formatting utilities
//
// # Data Flow
//
// A ticker message drives each frame: the model re-reads the state store and
// the poller snapshot, then checks the session. When the session has been
// torn down (logout elsewhere, or a 401 clearing the credential store) the
// next tick lands the operator back on the login view with a notice.
//
// Mutations (login, crawl start, document review actions) run as commands
// and come back as typed messages; the handler for each message refreshes
// whatever the action invalidated.
//
// # Key Bindings
//
//   - 1-4: Switch between dashboard, documents, crawl, audit
//   - j/k: Move the document cursor
//   - n/p: Next/previous document page
//   - a/r/x: Approve, reject, delete the selected document
//   - L: Log out
//   - esc: Back to dashboard (crawl view)
//   - q or Ctrl+C: Quit
//
// Leaving the crawl view stops the poller; progress for a finished crawl
// stays visible until then.
package ui
