package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "freshrack.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "freshrack.sqlite3" || cfg.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Expiry.NearlyExpiringDays != 3 {
		t.Errorf("expected default nearly expiring days 3, got %d", cfg.Expiry.NearlyExpiringDays)
	}
	if cfg.CleanupInterval != time.Hour {
		t.Errorf("expected cleanup interval 1h, got %s", cfg.CleanupInterval)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
db: /var/lib/freshrack/fridge.sqlite3
addr: ":9090"
cookieSecure: true
cleanupInterval: 30m
expiry:
  nearlyExpiringDays: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBPath != "/var/lib/freshrack/fridge.sqlite3" {
		t.Errorf("expected db from file, got %q", cfg.DBPath)
	}
	if cfg.Addr != ":9090" || !cfg.CookieSecure {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.CleanupInterval != 30*time.Minute {
		t.Errorf("expected 30m, got %s", cfg.CleanupInterval)
	}
	if cfg.Expiry.NearlyExpiringDays != 5 {
		t.Errorf("expected 5 days, got %d", cfg.Expiry.NearlyExpiringDays)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Addr)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "addr: \":9090\"\nexpiry:\n  nearlyExpiringDays: 5\n")
	t.Setenv("FRESHRACK_ADDR", ":7070")
	t.Setenv("FRESHRACK_NEARLY_EXPIRING_DAYS", "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected env addr, got %q", cfg.Addr)
	}
	if cfg.Expiry.NearlyExpiringDays != 2 {
		t.Errorf("expected env policy 2, got %d", cfg.Expiry.NearlyExpiringDays)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	if _, err := Load(writeConfig(t, "colour: blue\n")); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("FRESHRACK_NEARLY_EXPIRING_DAYS", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected error for zero-day policy")
	}
}

func TestLoadRejectsMalformedEnv(t *testing.T) {
	t.Setenv("FRESHRACK_CLEANUP_INTERVAL", "often")
	if _, err := Load(""); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
