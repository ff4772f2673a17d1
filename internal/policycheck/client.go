package policycheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// RequestHook mutates an outgoing request before it is sent. Hooks run in
// registration order on every request.
type RequestHook func(*http.Request)

// ResponseHook observes every response, including error responses, before
// the result is handed back to the caller. Hooks must not consume the body.
type ResponseHook func(*http.Response)

// Client talks to the PolicyCheck HTTP API. All cross-cutting behavior
// (bearer injection, request ids, session teardown on 401) is composed from
// hooks at construction time; the typed resource methods stay oblivious.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	reqHooks  []RequestHook
	respHooks []ResponseHook
}

const (
	defaultBaseURL   = "http://127.0.0.1:8000"
	defaultUserAgent = "clerk/0.1"
	requestTimeout   = 10 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRequestHook appends a request hook to the outgoing chain.
func WithRequestHook(hook RequestHook) Option {
	return func(c *Client) {
		if hook != nil {
			c.reqHooks = append(c.reqHooks, hook)
		}
	}
}

// WithResponseHook appends a response observer to the incoming chain.
func WithResponseHook(hook ResponseHook) Option {
	return func(c *Client) {
		if hook != nil {
			c.respHooks = append(c.respHooks, hook)
		}
	}
}

// BearerToken returns a request hook that attaches the token supplied by
// source as an Authorization header. An empty token attaches nothing, so
// unauthenticated requests still go out and the server rejects them.
func BearerToken(source func() string) RequestHook {
	return func(req *http.Request) {
		if source == nil {
			return
		}
		if token := strings.TrimSpace(source()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

// RequestID returns a request hook that tags each request with a fresh
// X-Request-ID, matching the id the server would otherwise assign itself.
func RequestID() RequestHook {
	return func(req *http.Request) {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
}

// OnUnauthorized returns a response hook that invokes fn whenever the API
// answers 401. The original error still propagates to the caller; fn is the
// place to tear the session down.
func OnUnauthorized(fn func()) ResponseHook {
	return func(resp *http.Response) {
		if fn != nil && resp.StatusCode == http.StatusUnauthorized {
			fn()
		}
	}
}

// NewClient builds a Client for the given base URL. An empty value targets
// the default local deployment.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// do issues a request against path with an optional query, JSON-encodes body
// when non-nil, and decodes the response into dest when dest is non-nil.
// Non-2xx statuses come back as *APIError; transport failures are wrapped.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, dest any) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	var req *http.Request
	var err error
	if reader != nil {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, reqURL.String(), nil)
	}
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, hook := range c.reqHooks {
		hook(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	for _, hook := range c.respHooks {
		hook(resp)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, resp.Body)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(baseURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api url %q: %w", baseURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
