package policycheck

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != "127.0.0.1:8000" {
		t.Fatalf("host = %q, want 127.0.0.1:8000", u.Host)
	}

	u, err = parseBaseURL("example.com:9000")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "example.com:9000" {
		t.Fatalf("url = %q, want http://example.com:9000", u.String())
	}

	u, err = parseBaseURL("https://api.example.com/base?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestClient_InjectsBearerAndRequestID(t *testing.T) {
	t.Parallel()

	var gotAuth, gotRequestID, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": 1, "username": "op"}`))
	}))
	t.Cleanup(server.Close)

	token := "tok-1"
	c, err := NewClient(server.URL,
		WithRequestHook(BearerToken(func() string { return token })),
		WithRequestHook(RequestID()),
	)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q, want Bearer tok-1", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("X-Request-ID missing")
	}
	if gotUserAgent != defaultUserAgent {
		t.Fatalf("User-Agent = %q, want %q", gotUserAgent, defaultUserAgent)
	}

	first := gotRequestID
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if gotRequestID == first {
		t.Fatalf("X-Request-ID repeated across requests: %q", gotRequestID)
	}

	// An empty token must attach no header at all.
	token = ""
	if _, err := c.Me(ctx); err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("Authorization = %q, want empty for empty token", gotAuth)
	}
}

func TestOnUnauthorized_FiresForEveryResourceClient(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	}))
	t.Cleanup(server.Close)

	var fired atomic.Int32
	c, err := NewClient(server.URL, WithResponseHook(OnUnauthorized(func() { fired.Add(1) })))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	calls := []struct {
		name string
		call func() error
	}{
		{"Me", func() error { _, err := c.Me(ctx); return err }},
		{"FetchCrawlStatus", func() error { _, err := c.FetchCrawlStatus(ctx, 1); return err }},
		{"FetchDocument", func() error { _, err := c.FetchDocument(ctx, 1); return err }},
		{"ApproveDocument", func() error { return c.ApproveDocument(ctx, 1) }},
		{"FetchDocumentStats", func() error { _, err := c.FetchDocumentStats(ctx); return err }},
	}
	for _, tc := range calls {
		err := tc.call()
		if !IsUnauthorized(err) {
			t.Fatalf("%s error = %v, want 401 APIError", tc.name, err)
		}
	}

	// Best-effort fetches swallow the error but the hook still sees the
	// response, so the session still gets torn down.
	_ = c.FetchDocuments(ctx, DocumentQuery{})
	_ = c.FetchAuditLog(ctx, AuditQuery{})
	_ = c.FetchCrawlSessions(ctx)
	_ = c.FetchPipelineStats(ctx)

	if got := int(fired.Load()); got != len(calls)+4 {
		t.Fatalf("hook fired %d times, want %d", got, len(calls)+4)
	}
}

func TestOnUnauthorized_IgnoresOtherStatuses(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail": "nope"}`, http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	var fired atomic.Int32
	c, err := NewClient(server.URL, WithResponseHook(OnUnauthorized(func() { fired.Add(1) })))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	if _, err := c.Me(ctx); err == nil {
		t.Fatalf("Me returned nil error, want 403")
	}
	if fired.Load() != 0 {
		t.Fatalf("hook fired on 403, want 401 only")
	}
}
