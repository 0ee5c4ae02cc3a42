package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/erazemk/slipgen/internal/slip"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slipgen.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("expected default addr, got %q", cfg.Server.Addr)
	}
	if !cfg.Policy.RequireDepartment {
		t.Error("expected department to be required by default")
	}
	if cfg.SlipEncoder().Version != slip.Latest {
		t.Errorf("expected latest encoder, got %d", cfg.SlipEncoder().Version)
	}
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  session_idle: 30m
policy:
  require_department: false
encoder:
  version: 1
identity:
  prefix: "REQ-"
reference:
  departments: [IT, Stores]
  units: [pcs, kg]
  account_codes: ["4100"]
catalog: [Drill]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("expected addr ':9000', got %q", cfg.Server.Addr)
	}
	if cfg.Server.DB != "slipgen.sqlite3" {
		t.Errorf("expected default db to survive, got %q", cfg.Server.DB)
	}
	if cfg.Server.SessionIdle != 30*time.Minute {
		t.Errorf("expected 30m idle, got %v", cfg.Server.SessionIdle)
	}
	if cfg.Policy.RequireDepartment {
		t.Error("expected department to be optional")
	}
	if cfg.SlipEncoder().Version != slip.V1 {
		t.Errorf("expected V1 encoder, got %d", cfg.SlipEncoder().Version)
	}
	if got := cfg.Clock().Prefix; got != "REQ-" {
		t.Errorf("expected prefix 'REQ-', got %q", got)
	}
	if cfg.Clock().Digits != 6 {
		t.Errorf("expected default digits to survive, got %d", cfg.Clock().Digits)
	}
	if len(cfg.Reference.Units) != 2 || cfg.Reference.Units[1] != "kg" {
		t.Errorf("unexpected units %v", cfg.Reference.Units)
	}
	if len(cfg.Catalog) != 1 || cfg.Catalog[0] != "Drill" {
		t.Errorf("unexpected catalog %v", cfg.Catalog)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		"encoder:\n  version: 7\n",
		"reference:\n  units: [\"1pc\"]\n",
		"identity:\n  layout: \"Jan 2, 2006\"\n",
		"identity:\n  digits: 0\n",
		"server: [not, a, map]\n",
	}

	for _, content := range tests {
		if _, err := Load(writeConfig(t, content)); err == nil {
			t.Errorf("expected error for config %q", content)
		}
	}
}
