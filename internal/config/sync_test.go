package config

import (
	"os"
	"path/filepath"
	"testing"
)

const syncFixture = `keywords:
  - HBCU
  - MSI
default_pi:
  id: P-001
  name: Dr. Example
  dept: Chemistry
  college: Arts & Sciences
mechanism_map:
  NSF: Research.gov
  NIH: ASSIST
internal_deadline_offset_days: 10
`

func TestLoadSyncConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brassloom_config.yaml")
	if err := os.WriteFile(path, []byte(syncFixture), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadSyncConfig(path)
	if err != nil {
		t.Fatalf("LoadSyncConfig error: %v", err)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[0] != "HBCU" {
		t.Fatalf("keywords = %v", cfg.Keywords)
	}
	if cfg.DefaultPI.Name != "Dr. Example" || cfg.DefaultPI.College != "Arts & Sciences" {
		t.Fatalf("default_pi = %+v", cfg.DefaultPI)
	}
	if cfg.MechanismMap["NSF"] != "Research.gov" {
		t.Fatalf("mechanism_map = %v", cfg.MechanismMap)
	}
	if cfg.InternalDeadlineOffsetDays != 10 {
		t.Fatalf("offset = %d, want 10", cfg.InternalDeadlineOffsetDays)
	}
	// Omitted fields get defaults.
	if cfg.DefaultProposalType != "New" || cfg.DefaultStatus != "Department Review" {
		t.Fatalf("defaults not applied: %+v", cfg)
	}
}

func TestLoadSyncConfigDefaultsForEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("{}\n"), 0644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := LoadSyncConfig(path)
	if err != nil {
		t.Fatalf("LoadSyncConfig error: %v", err)
	}
	if cfg.InternalDeadlineOffsetDays != 7 {
		t.Fatalf("offset = %d, want 7", cfg.InternalDeadlineOffsetDays)
	}
	if len(cfg.Keywords) == 0 {
		t.Fatalf("empty keywords should fall back to the stock list")
	}
}

func TestLoadSyncConfigMissingFile(t *testing.T) {
	if _, err := LoadSyncConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
