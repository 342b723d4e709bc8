package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBase != DefaultAPIBase {
		t.Fatalf("unexpected api base %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("expected no timeout by default, got %s", cfg.HTTPTimeout)
	}
	if len(cfg.SigningSecret) != 32 {
		t.Fatalf("expected random secret, got %d bytes", len(cfg.SigningSecret))
	}
	if cfg.S3Endpoint != "" || cfg.DatabaseURL != "" || cfg.RedisAddr != "" {
		t.Fatalf("backends should be disabled by default: %+v", cfg)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CAREERCOPILOT_API_BASE", "http://localhost:9000/")
	t.Setenv("CAREERCOPILOT_HTTP_TIMEOUT", "30s")
	t.Setenv("CAREERCOPILOT_EXPORT_WORKERS", "-1")
	t.Setenv("CAREERCOPILOT_S3_USE_SSL", "true")
	t.Setenv("CAREERCOPILOT_SIGNED_TTL", "garbage")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBase != "http://localhost:9000" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.APIBase)
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Fatalf("unexpected timeout %s", cfg.HTTPTimeout)
	}
	if cfg.ExportWorkers != defaultExportWorkers {
		t.Fatalf("invalid worker count should fall back, got %d", cfg.ExportWorkers)
	}
	if !cfg.S3UseSSL {
		t.Fatalf("expected ssl")
	}
	if cfg.SignedURLTTL != defaultSignedTTL {
		t.Fatalf("unparsable ttl should fall back, got %s", cfg.SignedURLTTL)
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("CAREERCOPILOT_REDIS_ADDR=localhost:6379\nCAREERCOPILOT_REDIS_DB=3\n"), 0o600); err != nil {
		t.Fatalf("write env: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("CAREERCOPILOT_REDIS_ADDR")
		os.Unsetenv("CAREERCOPILOT_REDIS_DB")
	})
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedisAddr != "localhost:6379" || cfg.RedisDB != 3 {
		t.Fatalf("env file not applied: %+v", cfg)
	}
	if _, err := Load(filepath.Join(dir, "missing.env")); err == nil {
		t.Fatalf("explicit missing file should fail")
	}
}
