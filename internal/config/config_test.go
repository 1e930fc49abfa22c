package config

import (
	"os"
	"path/filepath"
	"testing"

	"tasklist/internal/model"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKLIST_CONFIG_DIR", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Dir != dir {
		t.Fatalf("Dir=%q, want %q", cfg.Dir, dir)
	}
	if cfg.LogLevel != "info" || cfg.Web.Addr != "127.0.0.1:3336" || cfg.Web.Mode != "release" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.TUI.Filter != model.FilterAll || cfg.TUI.Sort != model.SortManual {
		t.Fatalf("unexpected tui defaults %+v", cfg.TUI)
	}
	if cfg.File != "" {
		t.Fatalf("no config file expected, got %q", cfg.File)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKLIST_CONFIG_DIR", dir)
	data := "log_level: debug\nweb:\n  addr: 127.0.0.1:9999\n  terminal: true\ntui:\n  filter: pending\n  sort: createdAt_desc\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKLIST_LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("env should override file, got %q", cfg.LogLevel)
	}
	if !cfg.Web.Terminal {
		t.Fatalf("Web.Terminal not read from file")
	}
	if cfg.Web.Addr != "127.0.0.1:9999" {
		t.Fatalf("Web.Addr=%q", cfg.Web.Addr)
	}
	if cfg.TUI.Filter != model.FilterPending || cfg.TUI.Sort != model.SortNewest {
		t.Fatalf("unexpected tui config %+v", cfg.TUI)
	}
	if cfg.File == "" {
		t.Fatalf("expected config file to be reported")
	}
}

func TestLoad_InvalidSort(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKLIST_CONFIG_DIR", dir)
	t.Setenv("TASKLIST_TUI_SORT", "alphabetical")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid sort")
	}
}
