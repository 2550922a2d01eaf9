// Package config provides configuration loading for the fieldreg CLI.
//
// Configuration precedence (highest to lowest):
//  1. FIELDREG_* environment variables
//  2. YAML config file, when one is passed
//  3. Defaults
package config

import (
	"github.com/quotelane/fieldreg/internal/logging"
)

// Config holds the complete tool configuration.
type Config struct {
	Registry RegistryConfig `koanf:"registry"`
	Logging  logging.Config `koanf:"logging"`
	Harness  HarnessConfig  `koanf:"harness"`
}

// RegistryConfig locates the declarative sources.
type RegistryConfig struct {
	// Dir is the directory scanned for registry YAML documents.
	Dir string `koanf:"dir"`
	// Exclude holds basename globs skipped during the scan, the same
	// way reference-only schema files are kept out of a runtime load.
	Exclude []string `koanf:"exclude"`
}

// HarnessConfig tunes extraction test runs.
type HarnessConfig struct {
	// Concurrency bounds parallel case execution. Zero uses the harness
	// default.
	Concurrency int `koanf:"concurrency"`
}

func applyDefaults(cfg *Config) {
	if cfg.Registry.Dir == "" {
		cfg.Registry.Dir = "registry"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}
