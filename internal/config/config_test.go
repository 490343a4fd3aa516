package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.History.RetentionDays != 90 {
		t.Fatalf("retention_days = %d, want 90", cfg.History.RetentionDays)
	}
	if cfg.History.BackfillDays != 30 {
		t.Fatalf("backfill_days = %d, want 30", cfg.History.BackfillDays)
	}
	if cfg.Scheduler.Buffer != 64 {
		t.Fatalf("scheduler.buffer = %d, want 64", cfg.Scheduler.Buffer)
	}
	if cfg.Database.Path == "" {
		t.Fatal("expected a default database path")
	}
	if cfg.Log.Path != "" {
		t.Fatalf("log.path = %q, want empty", cfg.Log.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remindd.yaml")
	contents := []byte("database:\n  path: /tmp/custom.db\nhistory:\n  retention_days: 14\n")
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Database.Path != "/tmp/custom.db" {
		t.Fatalf("database.path = %q", cfg.Database.Path)
	}
	if cfg.History.RetentionDays != 14 {
		t.Fatalf("retention_days = %d, want 14", cfg.History.RetentionDays)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.History.BackfillDays != 30 {
		t.Fatalf("backfill_days = %d, want 30", cfg.History.BackfillDays)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "remindd.yaml")
	if err := os.WriteFile(path, []byte("history:\n  retention_days: 14\n"), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	t.Setenv("REMINDD_HISTORY_RETENTION_DAYS", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.History.RetentionDays != 5 {
		t.Fatalf("retention_days = %d, want 5", cfg.History.RetentionDays)
	}
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.History.RetentionDays != 90 {
		t.Fatalf("retention_days = %d, want 90", cfg.History.RetentionDays)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	cfg.History.RetentionDays = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative retention")
	}
	cfg.History.RetentionDays = 0

	cfg.Scheduler.Buffer = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero buffer")
	}
	cfg.Scheduler.Buffer = 64

	cfg.Database.Path = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty database path")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}
	if got := expandPath("~/x.db"); got != filepath.Join(home, "x.db") {
		t.Fatalf("expandPath = %q", got)
	}
	if got := expandPath("/abs/x.db"); got != "/abs/x.db" {
		t.Fatalf("expandPath = %q", got)
	}
	if got := expandPath(""); got != "" {
		t.Fatalf("expandPath = %q", got)
	}
}
