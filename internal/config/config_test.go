package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != defaultAPIURL {
		t.Fatalf("APIURL = %q, want %q", cfg.APIURL, defaultAPIURL)
	}
	if cfg.PollInterval != defaultPollSeconds*time.Second {
		t.Fatalf("PollInterval = %v, want %ds", cfg.PollInterval, defaultPollSeconds)
	}
	if cfg.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", cfg.Theme, defaultTheme)
	}
	if cfg.SessionPath != "" {
		t.Fatalf("SessionPath = %q, want empty (credstore default applies)", cfg.SessionPath)
	}
}

func TestLoad_ParsesAllFields(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `api_url = "http://10.0.0.2:9000"
poll_seconds = 5
theme = "Plain"
session_path = "` + filepath.Join(dir, "session.toml") + `"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "http://10.0.0.2:9000" {
		t.Fatalf("APIURL = %q", cfg.APIURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Fatalf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.Theme != "Plain" {
		t.Fatalf("Theme = %q, want Plain", cfg.Theme)
	}
	if cfg.SessionPath != filepath.Join(dir, "session.toml") {
		t.Fatalf("SessionPath = %q", cfg.SessionPath)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("theme = \"Plain\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Theme != "Plain" {
		t.Fatalf("Theme = %q, want Plain", cfg.Theme)
	}
	if cfg.APIURL != defaultAPIURL || cfg.PollInterval != defaultPollSeconds*time.Second {
		t.Fatalf("defaults not preserved: %+v", cfg)
	}
}

func TestLoad_IgnoresNonPositivePollSeconds(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("poll_seconds = -1\n"), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.PollInterval != defaultPollSeconds*time.Second {
		t.Fatalf("PollInterval = %v, want default", cfg.PollInterval)
	}
}

func TestLoad_BadTOMLErrors(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("api_url = {{{"), 0o600); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load returned nil error for malformed config")
	}
}
