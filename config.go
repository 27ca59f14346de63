package checkout

import (
	"fmt"
	"strings"
)

// Log formats accepted by LogConfig.Format.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config configures a checkout suite run.
type Config struct {
	Suite  SuiteConfig  `yaml:"suite" toml:"suite" json:"suite"`
	Log    LogConfig    `yaml:"log" toml:"log" json:"log"`
	Events EventsConfig `yaml:"events" toml:"events" json:"events"`
	Checks ChecksConfig `yaml:"checks" toml:"checks" json:"checks"`
}

// SuiteConfig maps onto godog options.
type SuiteConfig struct {
	Name          string   `yaml:"name" toml:"name" json:"name" env:"SUITE_NAME"`
	Paths         []string `yaml:"paths" toml:"paths" json:"paths" env:"SUITE_PATHS"`
	Format        string   `yaml:"format" toml:"format" json:"format" env:"SUITE_FORMAT"`
	Tags          string   `yaml:"tags" toml:"tags" json:"tags" env:"SUITE_TAGS"`
	Strict        bool     `yaml:"strict" toml:"strict" json:"strict" env:"SUITE_STRICT"`
	Randomize     int64    `yaml:"randomize" toml:"randomize" json:"randomize" env:"SUITE_RANDOMIZE"`
	StopOnFailure bool     `yaml:"stop_on_failure" toml:"stop_on_failure" json:"stop_on_failure" env:"SUITE_STOP_ON_FAILURE"`
	NoColors      bool     `yaml:"no_colors" toml:"no_colors" json:"no_colors" env:"SUITE_NO_COLORS"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" toml:"format" json:"format" env:"LOG_FORMAT"`
}

// EventsConfig toggles step event emission.
type EventsConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled" env:"EVENTS_ENABLED"`
}

// ChecksConfig controls how the suite treats suspicious step definitions.
type ChecksConfig struct {
	// FailOnNoopAssertion fails scenarios that run an assertion which
	// inspects no state, instead of only reporting it.
	FailOnNoopAssertion bool `yaml:"fail_on_noop_assertion" toml:"fail_on_noop_assertion" json:"fail_on_noop_assertion" env:"CHECKS_FAIL_ON_NOOP_ASSERTION"`
}

// DefaultConfig returns the configuration used when no feeder overrides it.
func DefaultConfig() *Config {
	return &Config{
		Suite: SuiteConfig{
			Name:   "checkout",
			Paths:  []string{"features"},
			Format: "pretty",
			Strict: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
		Events: EventsConfig{
			Enabled: true,
		},
	}
}

// Validate checks the configuration for values the suite cannot use.
func (c *Config) Validate() error {
	if len(c.Suite.Paths) == 0 {
		return fmt.Errorf("%w: suite.paths must not be empty", ErrInvalidConfig)
	}
	for _, p := range c.Suite.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("%w: suite.paths contains an empty path", ErrInvalidConfig)
		}
	}
	if c.Suite.Format == "" {
		return fmt.Errorf("%w: suite.format must not be empty", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Log.Level)
	}

	switch strings.ToLower(c.Log.Format) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Log.Format)
	}

	return nil
}
