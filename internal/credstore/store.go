// Package credstore persists the operator's session credentials.
// The bearer token and the cached user record live together in
// ~/.config/clerk/session.toml so they are written and cleared as one unit.
package credstore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

const defaultSessionPath = "~/.config/clerk/session.toml"

// User is the cached server-side user record.
type User struct {
	ID       int    `toml:"id" json:"id"`
	Username string `toml:"username" json:"username"`
	Name     string `toml:"name" json:"name"`
	Role     string `toml:"role" json:"role"`
	Country  string `toml:"country" json:"country"`
}

// IsAdmin reports whether the user carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

type sessionFile struct {
	Token string `toml:"token"`
	User  User   `toml:"user"`
}

// Store holds the current credentials in memory and mirrors them to disk.
// The zero value is not usable; call Open.
type Store struct {
	mu    sync.RWMutex
	path  string
	token string
	user  *User
}

// DefaultPath returns the default session file path.
func DefaultPath() string {
	return defaultSessionPath
}

// Open creates a Store backed by the given path (empty uses the default)
// and loads any persisted session. A missing or unreadable session file is
// not an error: the store simply starts empty. Open never performs network
// I/O.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve session path: %w", err)
	}
	s := &Store{path: resolved}
	s.load()
	return s, nil
}

func (s *Store) load() {
	bytes, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	var raw sessionFile
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return
	}
	// A file holding only one half of the pair is treated as no session.
	if strings.TrimSpace(raw.Token) == "" || raw.User.Username == "" {
		return
	}
	s.token = raw.Token
	user := raw.User
	s.user = &user
}

// Token returns the current bearer token, or "" when no session is present.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user record, or nil when absent.
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

// Save stores the token and user together. The pair is written to a
// temporary file and renamed into place so a crash mid-write leaves either
// the previous session or the new one, never half of each.
func (s *Store) Save(token string, user User) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("save session: empty token")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	bytes, err := toml.Marshal(sessionFile{Token: token, User: user})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".session-*.toml")
	if err != nil {
		return fmt.Errorf("create session temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(bytes); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close session temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename session file: %w", err)
	}

	s.token = token
	u := user
	s.user = &u
	return nil
}

// Clear removes both the in-memory session and the session file. It is
// idempotent and never fails on a missing file.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	s.user = nil
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		// Nothing actionable for the caller; the in-memory session is gone
		// either way and the next Save overwrites the file.
		_ = err
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultSessionPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
