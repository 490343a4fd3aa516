// Package config loads runtime configuration: built-in defaults, overlaid by
// an optional YAML file, overlaid by REMINDD_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "REMINDD_"

type Config struct {
	Database  DatabaseConfig  `koanf:"database"`
	History   HistoryConfig   `koanf:"history"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Log       LogConfig       `koanf:"log"`
}

type DatabaseConfig struct {
	Path string `koanf:"path"`
}

type HistoryConfig struct {
	// RetentionDays is the pruning horizon for ledger entries; 0 disables
	// pruning. BackfillDays is how far back the reconciler looks for gaps.
	RetentionDays int `koanf:"retention_days"`
	BackfillDays  int `koanf:"backfill_days"`
}

type SchedulerConfig struct {
	Buffer int `koanf:"buffer"`
}

type LogConfig struct {
	// Path of the diagnostics log file; empty discards diagnostics so they
	// never land in the terminal under the TUI.
	Path string `koanf:"path"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	// REMINDD_HISTORY_RETENTION_DAYS -> history.retention_days etc. Only the
	// first underscore separates the section from the key.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.Replace(key, "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("config: database.path is required")
	}
	if c.History.RetentionDays < 0 {
		return fmt.Errorf("config: history.retention_days must not be negative")
	}
	if c.History.BackfillDays < 0 {
		return fmt.Errorf("config: history.backfill_days must not be negative")
	}
	if c.Scheduler.Buffer <= 0 {
		return fmt.Errorf("config: scheduler.buffer must be positive")
	}
	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
