package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("SEED_ENABLED", "false")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.DBName != "courseregistry" {
		t.Fatalf("expected default db name, got %s", cfg.Database.DBName)
	}
	if cfg.SessionTTL() != 24*time.Hour {
		t.Fatalf("expected 24h session ttl, got %s", cfg.SessionTTL())
	}
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
server:
  port: "9090"
database:
  host: db.internal
  max_open_conns: 7
session:
  secret: from-file
  ttl: 2h
redis:
  addr: localhost:6379
seed:
  enabled: false
`)
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_COOKIE_SECURE", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port from file, got %s", cfg.Server.Port)
	}
	if cfg.Database.Host != "db.override" {
		t.Fatalf("expected env to override host, got %s", cfg.Database.Host)
	}
	if cfg.Database.MaxOpenConns != 7 {
		t.Fatalf("expected 7 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
	if cfg.Redis.DB != 3 || cfg.Redis.Addr != "localhost:6379" {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if !cfg.Session.CookieSecure {
		t.Fatal("expected secure cookie from env")
	}
	if cfg.SessionTTL() != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", cfg.SessionTTL())
	}
}

func TestLoadConfigRequiresSessionSecret(t *testing.T) {
	path := writeConfig(t, "seed:\n  enabled: false\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error without session secret")
	}
}

func TestLoadConfigRequiresSeedPassword(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	path := writeConfig(t, "seed:\n  enabled: true\n")

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error without seed admin password")
	}
}

func TestLoadConfigRejectsBadEnvValue(t *testing.T) {
	t.Setenv("SESSION_SECRET", "secret")
	t.Setenv("SEED_ENABLED", "false")
	t.Setenv("DB_MAX_OPEN_CONNS", "many")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for non-numeric env value")
	}
}
