package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SyncConfig holds the institutional settings for the pre-award sync tool.
type SyncConfig struct {
	Keywords  []string `yaml:"keywords"`
	DefaultPI struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Dept    string `yaml:"dept"`
		College string `yaml:"college"`
	} `yaml:"default_pi"`
	MechanismMap               map[string]string `yaml:"mechanism_map"`
	InternalDeadlineOffsetDays int               `yaml:"internal_deadline_offset_days"`
	DefaultProposalType        string            `yaml:"default_proposal_type"`
	DefaultStatus              string            `yaml:"default_status"`
}

// LoadSyncConfig reads the YAML sync config and fills in defaults for the
// fields a minimal file may omit.
func LoadSyncConfig(path string) (*SyncConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var cfg SyncConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if cfg.InternalDeadlineOffsetDays == 0 {
		cfg.InternalDeadlineOffsetDays = 7
	}
	if cfg.DefaultProposalType == "" {
		cfg.DefaultProposalType = "New"
	}
	if cfg.DefaultStatus == "" {
		cfg.DefaultStatus = "Department Review"
	}
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = DefaultKeywords
	}
	return &cfg, nil
}
