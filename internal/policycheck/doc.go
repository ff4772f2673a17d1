// Package policycheck provides an HTTP client for the PolicyCheck admin API.
//
// # Overview
//
// This package defines the API client clerk uses to talk to the PolicyCheck
// document-discovery backend. It handles HTTP communication, JSON
// serialization, response normalization, and uniform error reporting for
// every resource the dashboard touches.
//
// # Architecture
//
// The package is split by resource:
//
//   - client.go: HTTP core, hook chains, request/response plumbing
//   - errors.go: APIError and the {"detail": ...} envelope parser
//   - types.go: Wire types and their canonical normalized forms
//   - auth.go: Login, registration, current-user lookup
//   - crawl.go: Crawl start, status, sessions, capacity, results
//   - documents.go: Document listing, detail, review actions
//   - stats.go: Pipeline and dashboard aggregates
//   - audit.go: Audit log listing
//   - system.go: Health probe and admin reset
//
// # Hooks
//
// Cross-cutting request behavior is composed from hooks at construction time
// rather than being baked into each resource method:
//
//	creds, _ := credstore.Open("")
//	client, err := policycheck.NewClient(cfg.APIURL,
//		policycheck.WithRequestHook(policycheck.BearerToken(creds.Token)),
//		policycheck.WithRequestHook(policycheck.RequestID()),
//		policycheck.WithResponseHook(policycheck.OnUnauthorized(creds.Clear)),
//	)
//
// BearerToken reads the token on every request, so a login or logout takes
// effect immediately without rebuilding the client. OnUnauthorized fires on
// every 401 from any endpoint, which is how a revoked token tears down the
// whole session in one place.
//
// # Normalization
//
// The backend has grown alternate key names over time (crawl_id vs id,
// timestamp vs created_at, user vs user_name). Wire structs accept every
// variant and normalize before anything leaves this package; callers only
// ever see the canonical field names.
//
// # Error Handling
//
// Non-2xx responses become *APIError carrying the status code and the
// server's detail message, whether the detail was a plain string or a
// structured object. Transport and decoding failures are wrapped with
// fmt.Errorf. ErrorDetail extracts a display-ready message from any of
// these.
//
// List endpoints (documents, audit log, crawl sessions) are deliberately
// best-effort: any failure yields an empty normalized envelope instead of an
// error, so a dashboard refresh never depends on every list call
// succeeding. Detail lookups and mutations propagate errors so the caller
// can show the server's reason.
//
// # Thread Safety
//
// The Client is safe for concurrent use. Hooks run on the calling
// goroutine; they must be safe for concurrent invocation too.
//
// # Testing Considerations
//
// When testing code that uses this package:
//   - Use httptest.Server, or the internal/apitest fake, to mock the API
//   - Cover alternate wire keys and malformed bodies, not just happy paths
//   - Verify the 401 hook fires for protected endpoints
package policycheck
