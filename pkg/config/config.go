package config

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors, fills defaults for zero
// values, and parses min_severity.
func Validate(cfg *Config) error {
	if len(cfg.LogSources) == 0 {
		return errors.New("log_sources: at least one log source is required")
	}
	for i, src := range cfg.LogSources {
		if src == "" {
			return fmt.Errorf("log_sources[%d]: empty path", i)
		}
	}

	switch cfg.Output {
	case "":
		cfg.Output = DefaultOutput
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("output: invalid format %q (must be text or json)", cfg.Output)
	}

	cfg.minSeverity = logcat.Unknown
	if cfg.MinSeverity != "" {
		sev, err := logcat.ParseSeverity(cfg.MinSeverity)
		if err != nil {
			return fmt.Errorf("min_severity: %w", err)
		}
		cfg.minSeverity = sev
	}

	if cfg.Follow.PollInterval < 0 {
		return fmt.Errorf("follow.poll_interval: must not be negative, got %s", cfg.Follow.PollInterval)
	}
	if cfg.Follow.PollInterval == 0 {
		cfg.Follow.PollInterval = DefaultPollInterval
	}

	return nil
}

// Marshal renders cfg as YAML, suitable for writing a starter config file.
func Marshal(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
