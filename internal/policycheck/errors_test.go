package policycheck

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewAPIError_DecodesDetailShapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"string detail", 401, `{"detail": "Incorrect username or password"}`, "Incorrect username or password"},
		{"structured detail", 429, `{"detail": {"error": "Maximum concurrent crawls reached", "reason": "3 of 3 slots in use"}}`, "Maximum concurrent crawls reached: 3 of 3 slots in use"},
		{"structured detail error only", 429, `{"detail": {"error": "Maximum concurrent crawls reached"}}`, "Maximum concurrent crawls reached"},
		{"non-json body", 502, `<html>Bad Gateway</html>`, ""},
		{"empty body", 500, ``, ""},
		{"unrecognized object", 422, `{"detail": {"loc": ["body"]}}`, `{"loc": ["body"]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			apiErr := newAPIError(tc.status, strings.NewReader(tc.body))
			if apiErr.StatusCode != tc.status {
				t.Fatalf("StatusCode = %d, want %d", apiErr.StatusCode, tc.status)
			}
			if apiErr.Detail != tc.want {
				t.Fatalf("Detail = %q, want %q", apiErr.Detail, tc.want)
			}
		})
	}
}

func TestErrorDetail_FallsBackForOpaqueErrors(t *testing.T) {
	t.Parallel()

	if got := ErrorDetail(nil); got != "" {
		t.Fatalf("ErrorDetail(nil) = %q, want empty", got)
	}
	apiErr := &APIError{StatusCode: 404, Detail: "Document not found"}
	if got := ErrorDetail(fmt.Errorf("fetch: %w", apiErr)); got != "Document not found" {
		t.Fatalf("ErrorDetail(wrapped) = %q, want server detail", got)
	}
	if got := ErrorDetail(fmt.Errorf("connection refused")); got != "request failed; check the API connection" {
		t.Fatalf("ErrorDetail(transport) = %q, want generic fallback", got)
	}
	// A detail-less APIError also falls back rather than exposing the bare
	// status line.
	if got := ErrorDetail(&APIError{StatusCode: 500}); got != "request failed; check the API connection" {
		t.Fatalf("ErrorDetail(no detail) = %q, want generic fallback", got)
	}
}

func TestIsUnauthorizedAndIsNotFound(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("call: %w", &APIError{StatusCode: 401})
	if !IsUnauthorized(wrapped) {
		t.Fatalf("IsUnauthorized(wrapped 401) = false, want true")
	}
	if IsUnauthorized(&APIError{StatusCode: 404}) {
		t.Fatalf("IsUnauthorized(404) = true, want false")
	}
	if !IsNotFound(&APIError{StatusCode: 404}) {
		t.Fatalf("IsNotFound(404) = false, want true")
	}
	if IsNotFound(fmt.Errorf("boom")) {
		t.Fatalf("IsNotFound(plain error) = true, want false")
	}
}
