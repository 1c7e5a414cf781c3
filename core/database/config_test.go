package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestConfigNormalizeAndEnabled(t *testing.T) {
	var cfg Config
	if cfg.Enabled() {
		t.Fatal("empty config must be disabled")
	}
	cfg.Host = "db"
	cfg.Normalize()
	if !cfg.Enabled() {
		t.Fatal("config with host must be enabled")
	}
	if cfg.Port != "5432" || cfg.SSLMode != "disable" || cfg.MaxConnections != 5 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MigrationsDir != "migrations" || cfg.ReadyTimeout != 30*time.Second {
		t.Fatalf("unexpected migration defaults: %+v", cfg)
	}
}

func TestConfigURLEscapesCredentials(t *testing.T) {
	cfg := Config{Host: "db", Port: "5432", User: "bot", Password: "p@ss/word", Name: "rental", SSLMode: "disable"}
	got := cfg.URL()
	if !strings.HasPrefix(got, "postgres://bot:p%40ss%2Fword@db:5432/rental") {
		t.Fatalf("URL = %s", got)
	}
	if !strings.HasSuffix(got, "?sslmode=disable") {
		t.Fatalf("URL missing sslmode: %s", got)
	}
	if !strings.Contains(cfg.DSN(), "dbname=rental") {
		t.Fatalf("DSN = %s", cfg.DSN())
	}
}

func TestScanMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"000002_add_index.up.sql",
		"000001_create_listing_submissions.up.sql",
		"000001_create_listing_submissions.down.sql",
		"README.md",
		"draft_later.up.sql",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := scanMigrations(dir)
	if err != nil {
		t.Fatalf("scanMigrations: %v", err)
	}
	if len(files) != 2 || files[0].Version != 1 || files[1].Version != 2 {
		t.Fatalf("files = %+v", files)
	}
	if got := pendingBetween(files, 0, 2); len(got) != 2 {
		t.Fatalf("pendingBetween(0,2) = %+v", got)
	}
	if got := pendingBetween(files, 1, 2); len(got) != 1 || got[0].Name != "000002_add_index.up.sql" {
		t.Fatalf("pendingBetween(1,2) = %+v", got)
	}
	if got := pendingBetween(files, 2, 2); len(got) != 0 {
		t.Fatalf("pendingBetween(2,2) = %+v", got)
	}
}

func TestScanMigrationsMissingDir(t *testing.T) {
	if _, err := scanMigrations(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}
