package config

import (
	"os"
	"strings"
	"time"
)

// Default values for configuration.
const (
	DefaultOutput       = OutputText
	DefaultPollInterval = time.Second
)

// Environment variable names.
const (
	EnvLogSources = "CATLOG_LOG_SOURCES"
	EnvOutput     = "CATLOG_OUTPUT"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LogSources: []string{},
		Output:     DefaultOutput,
		Follow: FollowConfig{
			PollInterval: DefaultPollInterval,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if sources := os.Getenv(EnvLogSources); sources != "" {
		c.LogSources = c.LogSources[:0]
		for _, s := range strings.Split(sources, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.LogSources = append(c.LogSources, s)
			}
		}
	}
	if output := os.Getenv(EnvOutput); output != "" {
		c.Output = OutputFormat(strings.ToLower(output))
	}
}
