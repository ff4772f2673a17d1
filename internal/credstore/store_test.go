package credstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempSessionPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "session.toml")
}

func TestStore_SaveThenReopenRoundTrips(t *testing.T) {
	t.Parallel()

	path := tempSessionPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if s.Token() != "" || s.User() != nil {
		t.Fatalf("fresh store not empty: token=%q user=%v", s.Token(), s.User())
	}

	user := User{ID: 7, Username: "op", Name: "Operator", Role: "admin", Country: "NZ"}
	if err := s.Save("tok-1", user); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if reopened.Token() != "tok-1" {
		t.Fatalf("Token = %q, want tok-1", reopened.Token())
	}
	got := reopened.User()
	if got == nil || *got != user {
		t.Fatalf("User = %+v, want %+v", got, user)
	}
	if !got.IsAdmin() {
		t.Fatalf("IsAdmin = false for role admin")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat returned error: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("session file mode = %o, want 600", perm)
	}
}

func TestStore_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	path := tempSessionPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save("tok-1", User{Username: "op"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if err := s.Save("tok-2", User{Username: "op"}); err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir returned error: %v", err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".session-") {
			t.Fatalf("temp file %q left behind", entry.Name())
		}
	}
}

func TestStore_FailedSaveKeepsPreviousSession(t *testing.T) {
	t.Parallel()

	path := tempSessionPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save("tok-1", User{Username: "op"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	// Point a second store at a path whose parent is a regular file so the
	// write cannot possibly land.
	blocked, err := Open(filepath.Join(path, "session.toml"))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := blocked.Save("tok-2", User{Username: "op"}); err == nil {
		t.Fatalf("Save into unwritable location returned nil error")
	}
	if blocked.Token() != "" {
		t.Fatalf("failed Save updated the in-memory token")
	}

	// The first store's session file is untouched.
	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if reopened.Token() != "tok-1" {
		t.Fatalf("Token = %q, want tok-1 preserved", reopened.Token())
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	t.Parallel()

	s, err := Open(tempSessionPath(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save("   ", User{Username: "op"}); err == nil {
		t.Fatalf("Save with blank token returned nil error")
	}
}

func TestStore_HalfPairFileIsNoSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"token only", "token = \"tok-1\"\n"},
		{"user only", "[user]\nusername = \"op\"\n"},
		{"garbage", "not toml {{{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := tempSessionPath(t)
			if err := os.WriteFile(path, []byte(tc.body), 0o600); err != nil {
				t.Fatalf("WriteFile returned error: %v", err)
			}
			s, err := Open(path)
			if err != nil {
				t.Fatalf("Open returned error: %v", err)
			}
			if s.Token() != "" || s.User() != nil {
				t.Fatalf("half-pair loaded as session: token=%q user=%v", s.Token(), s.User())
			}
		})
	}
}

func TestStore_ClearRemovesFileAndIsIdempotent(t *testing.T) {
	t.Parallel()

	path := tempSessionPath(t)
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save("tok-1", User{Username: "op"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	s.Clear()
	if s.Token() != "" || s.User() != nil {
		t.Fatalf("store not empty after Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still present after Clear: %v", err)
	}

	// A second Clear with nothing on disk is fine.
	s.Clear()
}

func TestStore_UserReturnsCopy(t *testing.T) {
	t.Parallel()

	s, err := Open(tempSessionPath(t))
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := s.Save("tok-1", User{Username: "op", Role: "reviewer"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	first := s.User()
	first.Role = "admin"
	if s.User().Role != "reviewer" {
		t.Fatalf("mutating the returned user leaked into the store")
	}
}
