package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"relog/internal/paths"
)

// Config represents the complete engine configuration (v1 schema)
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// IncludePatterns are base-name glob patterns for candidate files
	IncludePatterns []string `json:"includePatterns" mapstructure:"includePatterns"`

	// ExcludeDirs are directory names pruned from the scan
	ExcludeDirs []string `json:"excludeDirs" mapstructure:"excludeDirs"`

	// Denylist are base names never processed, to protect the files that
	// define the macro and header being introduced
	Denylist []string `json:"denylist" mapstructure:"denylist"`

	// CheckpointInterval is the number of modified files between journal flushes
	CheckpointInterval int `json:"checkpointInterval" mapstructure:"checkpointInterval"`

	Rewrite RewriteConfig `json:"rewrite" mapstructure:"rewrite"`
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
}

// RewriteConfig contains the textual tokens of the rewrite
type RewriteConfig struct {
	Namespace     string `json:"namespace" mapstructure:"namespace"`
	Macro         string `json:"macro" mapstructure:"macro"`
	HeaderInclude string `json:"headerInclude" mapstructure:"headerInclude"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:         1,
		IncludePatterns: []string{"*.cpp", "*.h"},
		ExcludeDirs: []string{
			"build",
			"cmake-build-debug",
			".git",
			"stress_benchmark",
			"refactor_backups",
			paths.StateDirName,
		},
		Denylist:           []string{"DebugManager.h"},
		CheckpointInterval: 10,
		Rewrite: RewriteConfig{
			Namespace:     "spdlog",
			Macro:         "CURA_DEBUG",
			HeaderInclude: `#include "utils/DebugManager.h"`,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from .relog/config.json, falling back to
// defaults when the file is absent
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.StateDir(root))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to .relog/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureStateDir(root); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(paths.ConfigPath(root), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return fmt.Errorf("config error in field 'version': unsupported config version %d", c.Version)
	}
	if c.CheckpointInterval < 1 {
		return fmt.Errorf("config error in field 'checkpointInterval': must be at least 1")
	}
	if len(c.IncludePatterns) == 0 {
		return fmt.Errorf("config error in field 'includePatterns': at least one pattern required")
	}
	return nil
}
