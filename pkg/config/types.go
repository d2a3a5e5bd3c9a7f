// Package config provides configuration loading and validation for catlog.
package config

import (
	"time"

	"github.com/ccollicutt/catlog/pkg/logcat"
)

// OutputFormat selects how records are printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	LogSources []string     `yaml:"log_sources"`
	Output     OutputFormat `yaml:"output,omitempty"`

	// Expanded is the initial view-state flag given to every parsed record.
	Expanded bool `yaml:"expanded,omitempty"`

	// MinSeverity marks the level from which the summary counts lines as
	// notable. It does not filter output.
	MinSeverity string `yaml:"min_severity,omitempty"`

	Follow FollowConfig `yaml:"follow,omitempty"`

	// minSeverity is the parsed MinSeverity (populated during validation).
	minSeverity logcat.Severity
}

// FollowConfig tunes the follow command.
type FollowConfig struct {
	// PollInterval is how often the followed file is rescanned when no
	// filesystem event arrives. Defaults to 1s.
	PollInterval time.Duration `yaml:"poll_interval,omitempty"`
}

// MinSeverityLevel returns the parsed min_severity, or logcat.Unknown when
// it is unset.
func (c *Config) MinSeverityLevel() logcat.Severity {
	return c.minSeverity
}
