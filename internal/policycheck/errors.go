package policycheck

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// APIError is the uniform error for any non-2xx response from the
// PolicyCheck API. Detail carries the server-supplied message when one was
// present, suitable for direct display.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Detail) == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Detail)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ErrorDetail extracts a human-readable message from err. APIError details
// are returned as-is; anything else falls back to a generic message.
func ErrorDetail(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Detail) != "" {
		return apiErr.Detail
	}
	return "request failed; check the API connection"
}

// newAPIError builds an APIError from an error response body. The server
// wraps messages as {"detail": ...} where detail is either a plain string or
// a structured object.
func newAPIError(status int, body io.Reader) *APIError {
	apiErr := &APIError{StatusCode: status}

	raw, err := io.ReadAll(io.LimitReader(body, 1<<16))
	if err != nil || len(raw) == 0 {
		return apiErr
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return apiErr
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err == nil {
		apiErr.Detail = detail
		return apiErr
	}

	// Structured detail (e.g. the concurrent-crawl limit payload). Prefer
	// its error/reason fields, otherwise keep the raw JSON.
	var structured struct {
		Error  string `json:"error"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(envelope.Detail, &structured); err == nil {
		parts := make([]string, 0, 2)
		if structured.Error != "" {
			parts = append(parts, structured.Error)
		}
		if structured.Reason != "" {
			parts = append(parts, structured.Reason)
		}
		if len(parts) > 0 {
			apiErr.Detail = strings.Join(parts, ": ")
			return apiErr
		}
	}
	apiErr.Detail = string(envelope.Detail)
	return apiErr
}
