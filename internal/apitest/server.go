// Package apitest provides an in-process fake of the PolicyCheck API for
// tests. It speaks the same wire shapes as the real backend and enforces
// bearer auth the same way, so client, session, and poller tests can run
// against realistic responses without a live server.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
)

// Credentials accepted by the fake login endpoint.
const (
	Username = "reviewer1"
	Password = "hunter2"
	Token    = "test-token-1"
)

// UserRecord is the wire-shape user the fake serves.
type UserRecord struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Country  string `json:"country"`
}

// CrawlStatusRecord is one scripted /api/crawl/{id}/status response.
type CrawlStatusRecord struct {
	ID             int    `json:"id"`
	Status         string `json:"status"`
	Country        string `json:"country"`
	ProgressPct    int    `json:"progress_pct"`
	PagesScanned   int    `json:"pages_scanned"`
	PDFsFound      int    `json:"pdfs_found"`
	PDFsDownloaded int    `json:"pdfs_downloaded"`
	PDFsFiltered   int    `json:"pdfs_filtered"`
	ErrorsCount    int    `json:"errors_count"`
}

// Request is one captured inbound request.
type Request struct {
	Method     string
	Path       string
	HasBearer  bool
	RequestID  string
	AuthHeader string
}

// Server is a scriptable fake PolicyCheck backend.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	user         UserRecord
	statusScript []CrawlStatusRecord
	statusCode   int // non-zero forces this code from the status endpoint
	statusCalls  int
	requests     []Request

	// Raw overrides for list endpoints; nil means default payloads.
	documentsBody []byte
	documentsCode int
	auditBody     []byte
	auditCode     int
}

// New starts the fake server. Close it with Server.Close.
func New() *Server {
	s := &Server{
		user: UserRecord{ID: 7, Username: Username, Name: "Reviewer One", Role: "reviewer", Country: "NZ"},
	}

	r := mux.NewRouter()
	r.Use(s.capture)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "PolicyCheck"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/api/auth/me", s.handleMe).Methods(http.MethodGet)
	authed.HandleFunc("/api/crawl/start", s.handleCrawlStart).Methods(http.MethodPost)
	authed.HandleFunc("/api/crawl/{id:[0-9]+}/status", s.handleCrawlStatus).Methods(http.MethodGet)
	authed.HandleFunc("/api/crawl/sessions", s.handleCrawlSessions).Methods(http.MethodGet)
	authed.HandleFunc("/api/documents", s.handleDocuments).Methods(http.MethodGet)
	authed.HandleFunc("/api/documents/{id:[0-9]+}", s.handleDocument).Methods(http.MethodGet, http.MethodDelete)
	authed.HandleFunc("/api/documents/{id:[0-9]+}/validate", s.handleDocumentAction).Methods(http.MethodPost)
	authed.HandleFunc("/api/documents/{id:[0-9]+}/reject", s.handleDocumentAction).Methods(http.MethodPost)
	authed.HandleFunc("/api/stats/pipeline", s.handlePipelineStats).Methods(http.MethodGet)
	authed.HandleFunc("/api/stats/dashboard", s.handleDashboardStats).Methods(http.MethodGet)
	authed.HandleFunc("/api/audit-log", s.handleAuditLog).Methods(http.MethodGet)

	s.Server = httptest.NewServer(r)
	return s
}

// SetUser overrides the user record served by login and /api/auth/me.
func (s *Server) SetUser(user UserRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
}

// ScriptStatuses queues status responses; each status call pops one and the
// last response repeats once the script is exhausted.
func (s *Server) ScriptStatuses(statuses ...CrawlStatusRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusScript = statuses
	s.statusCalls = 0
}

// FailStatusWith forces the status endpoint to answer with an HTTP error.
func (s *Server) FailStatusWith(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statusCode = code
}

// StatusCalls reports how many times the status endpoint was hit.
func (s *Server) StatusCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusCalls
}

// SetDocumentsResponse overrides the raw /api/documents response.
func (s *Server) SetDocumentsResponse(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documentsCode = code
	s.documentsBody = []byte(body)
}

// SetAuditResponse overrides the raw /api/audit-log response.
func (s *Server) SetAuditResponse(code int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditCode = code
	s.auditBody = []byte(body)
}

// Requests returns a copy of the captured request log.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	dup := make([]Request, len(s.requests))
	copy(dup, s.requests)
	return dup
}

func (s *Server) capture(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:     r.Method,
			Path:       r.URL.Path,
			HasBearer:  auth == "Bearer "+Token,
			RequestID:  r.Header.Get("X-Request-ID"),
			AuthHeader: auth,
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request"})
		return
	}
	if creds.Username != Username || creds.Password != Password {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": Token,
		"token_type":   "bearer",
		"user":         user,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Name     string `json:"name"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "malformed request"})
		return
	}
	if req.Username == Username {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Username already exists"})
		return
	}
	role := req.Role
	if role == "" {
		role = "reviewer"
	}
	writeJSON(w, http.StatusOK, UserRecord{ID: 42, Username: req.Username, Name: req.Name, Role: role, Country: "NZ"})
}

func (s *Server) handleMe(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	user := s.user
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleCrawlStart(w http.ResponseWriter, r *http.Request) {
	var cfg struct {
		Country  string   `json:"country"`
		SeedURLs []string `json:"seed_urls"`
	}
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil || len(cfg.SeedURLs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "seed_urls required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"crawl_id":              101,
		"status":                "queued",
		"message":               "Crawl session 101 started",
		"active_crawls":         1,
		"max_concurrent_crawls": 3,
	})
}

func (s *Server) handleCrawlStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.statusCalls++
	if s.statusCode != 0 {
		code := s.statusCode
		s.mu.Unlock()
		writeJSON(w, code, map[string]string{"detail": "status unavailable"})
		return
	}
	var status CrawlStatusRecord
	if len(s.statusScript) > 0 {
		status = s.statusScript[0]
		if len(s.statusScript) > 1 {
			s.statusScript = s.statusScript[1:]
		}
	} else {
		id, _ := strconv.Atoi(mux.Vars(r)["id"])
		status = CrawlStatusRecord{ID: id, Status: "running", Country: "NZ", ProgressPct: 10}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCrawlSessions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, []CrawlStatusRecord{
		{ID: 101, Status: "running", Country: "NZ", ProgressPct: 10},
	})
}

func (s *Server) handleDocuments(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	body, code := s.documentsBody, s.documentsCode
	s.mu.Unlock()
	if body != nil {
		writeRaw(w, code, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": []map[string]any{
			{"id": 1, "source_url": "https://example.test/a.pdf", "insurer": "Acme", "country": "NZ",
				"policy_type": "home", "classification": "policy", "confidence": 0.93, "status": "pending"},
		},
		"total":  1,
		"limit":  20,
		"offset": 0,
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	if r.Method == http.MethodDelete {
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id": id, "source_url": "https://example.test/a.pdf", "insurer": "Acme",
		"country": "NZ", "policy_type": "home", "classification": "policy",
		"confidence": 0.93, "status": "pending",
	})
}

func (s *Server) handleDocumentAction(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePipelineStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"stages":          map[string]int{"discovered": 120, "stored": 12},
		"funnel_rates":    map[string]float64{"downloaded_to_stored": 80.0},
		"total_processed": 12,
		"avg_confidence":  0.91,
		"error_rate":      0.0,
	})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"total_documents": 12,
		"needs_review":    3,
		"user_approved":   9,
	})
}

func (s *Server) handleAuditLog(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	body, code := s.auditBody, s.auditCode
	s.mu.Unlock()
	if body != nil {
		writeRaw(w, code, body)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entries": []map[string]any{
			{"id": 1, "timestamp": "2026-02-13T10:00:00", "user": Username, "action": "document_validated", "details": "doc 1", "document_id": 1},
		},
		"total":     1,
		"page":      1,
		"page_size": 50,
	})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeRaw(w http.ResponseWriter, code int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	if code == 0 {
		code = http.StatusOK
	}
	w.WriteHeader(code)
	_, _ = w.Write(body)
}
