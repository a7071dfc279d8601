package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Language != "en-US" {
		t.Errorf("TMDB.Language = %q", cfg.TMDB.Language)
	}
	if cfg.Poll.TimeoutSec != 30 || cfg.Poll.MaxFailures != 5 {
		t.Errorf("Poll defaults = %+v", cfg.Poll)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.TMDB.BaseURL == "" {
		t.Error("defaults not applied for a missing file")
	}
}

func TestLoadJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
	// bot credentials
	telegram: {token: "tg-token"},
	tmdb: {api_key: "tmdb-key"},
	poll: {timeout_sec: 15},
}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "tg-token" || cfg.TMDB.APIKey != "tmdb-key" {
		t.Errorf("credentials not loaded: %+v", cfg)
	}
	if cfg.Poll.TimeoutSec != 15 {
		t.Errorf("Poll.TimeoutSec = %d, want 15", cfg.Poll.TimeoutSec)
	}
	// Unset fields keep their defaults.
	if cfg.Poll.MaxFailures != 5 {
		t.Errorf("Poll.MaxFailures = %d, want default 5", cfg.Poll.MaxFailures)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{telegram: {token: "from-file"}}`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POSTERBOT_TELEGRAM_TOKEN", "from-env")
	t.Setenv("POSTERBOT_TMDB_API_KEY", "key-from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("Telegram.Token = %q, want the env value", cfg.Telegram.Token)
	}
	if cfg.TMDB.APIKey != "key-from-env" {
		t.Errorf("TMDB.APIKey = %q, want the env value", cfg.TMDB.APIKey)
	}
}

func TestLoadBadSyntax(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{telegram`), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors for missing credentials")
	}
	msg := err.Error()
	if !strings.Contains(msg, "telegram.token") || !strings.Contains(msg, "tmdb.api_key") {
		t.Errorf("Validate = %q, want both missing credentials reported", msg)
	}

	cfg.Telegram.Token = "t"
	cfg.TMDB.APIKey = "k"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate on complete config: %v", err)
	}
}
