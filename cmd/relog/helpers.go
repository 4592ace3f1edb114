package main

import (
	"fmt"
	"os"
	"path/filepath"

	"relog/internal/classify"
	"relog/internal/config"
	"relog/internal/engine"
	"relog/internal/logging"
)

// mustGetRoot resolves the --root flag to an absolute path or exits.
func mustGetRoot() string {
	root, err := filepath.Abs(rootFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving root: %v\n", err)
		os.Exit(1)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: root %s is not a directory\n", root)
		os.Exit(1)
	}
	return root
}

// mustLoadConfig loads engine configuration for the root or exits.
func mustLoadConfig(root string) *config.Config {
	cfg, err := config.LoadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// mustLoadRules loads classifier rules for the root or exits.
func mustLoadRules(root string) classify.Rules {
	rules, err := config.LoadRules(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading rules: %v\n", err)
		os.Exit(1)
	}
	return rules
}

// mustGetEngine builds a fully configured engine for the root or exits.
func mustGetEngine(root string) *engine.Engine {
	cfg := mustLoadConfig(root)
	rules := mustLoadRules(root)
	logger := newLogger(cfg)
	return engine.New(root, cfg, rules, logger)
}

// newLogger creates a logger from the loaded configuration.
func newLogger(cfg *config.Config) *logging.Logger {
	format := logging.HumanFormat
	if cfg.Logging.Format == "json" {
		format = logging.JSONFormat
	}
	return logging.NewLogger(logging.Config{
		Format: format,
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}
