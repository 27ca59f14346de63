package checkout

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/CrisisTextLine/checkout/feeders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "checkout", cfg.Suite.Name)
	assert.Equal(t, []string{"features"}, cfg.Suite.Paths)
	assert.Equal(t, "pretty", cfg.Suite.Format)
	assert.True(t, cfg.Suite.Strict)
	assert.True(t, cfg.Events.Enabled)
	assert.False(t, cfg.Checks.FailOnNoopAssertion)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no paths", func(c *Config) { c.Suite.Paths = nil }},
		{"blank path", func(c *Config) { c.Suite.Paths = []string{" "} }},
		{"no format", func(c *Config) { c.Suite.Format = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestLoadConfig_YamlFile(t *testing.T) {
	path := writeConfigFile(t, "checkout.yaml", `
suite:
  paths: [features, extra]
  tags: "@payment"
  strict: false
log:
  level: debug
  format: json
checks:
  fail_on_noop_assertion: true
`)

	feeder, err := FileFeeder(path)
	require.NoError(t, err)
	prioritized, ok := feeder.(PrioritizedFeeder)
	require.True(t, ok)
	assert.Equal(t, FilePriority, prioritized.Priority())

	cfg, err := LoadConfig(feeder)
	require.NoError(t, err)
	assert.Equal(t, []string{"features", "extra"}, cfg.Suite.Paths)
	assert.Equal(t, "@payment", cfg.Suite.Tags)
	assert.False(t, cfg.Suite.Strict)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, LogFormatJSON, cfg.Log.Format)
	assert.True(t, cfg.Checks.FailOnNoopAssertion)
	// Untouched keys keep their defaults.
	assert.Equal(t, "pretty", cfg.Suite.Format)
	assert.True(t, cfg.Events.Enabled)
}

func TestLoadConfig_PriorityOrder(t *testing.T) {
	yamlPath := writeConfigFile(t, "checkout.yaml", "suite:\n  format: progress\n  tags: \"@yaml\"\n")
	tomlPath := writeConfigFile(t, "checkout.toml", "[suite]\nformat = \"junit\"\n")

	t.Setenv("CHECKOUT_SUITE_TAGS", "@env")

	// Env has the lowest priority even though it is added last.
	cfg, err := LoadConfig(
		feeders.NewTomlFeeder(tomlPath).WithPriority(20),
		feeders.NewYamlFeeder(yamlPath).WithPriority(10),
		feeders.NewEnvFeeder(EnvPrefix).WithPriority(5),
	)
	require.NoError(t, err)
	assert.Equal(t, "junit", cfg.Suite.Format)
	assert.Equal(t, "@yaml", cfg.Suite.Tags)
}

func TestLoadConfig_EqualPriorityKeepsInsertionOrder(t *testing.T) {
	first := writeConfigFile(t, "first.json", `{"suite": {"format": "progress"}}`)
	second := writeConfigFile(t, "second.json", `{"suite": {"format": "cucumber"}}`)

	cfg, err := LoadConfig(feeders.NewJSONFeeder(first), feeders.NewJSONFeeder(second))
	require.NoError(t, err)
	assert.Equal(t, "cucumber", cfg.Suite.Format)
}

func TestLoadConfig_DefaultEnvFeeders(t *testing.T) {
	t.Setenv("CHECKOUT_SUITE_PATHS", "features, acceptance")
	t.Setenv("CHECKOUT_SUITE_RANDOMIZE", "7")
	t.Setenv("CHECKOUT_EVENTS_ENABLED", "false")
	t.Setenv("CHECKOUT_CHECKS_FAIL_ON_NOOP_ASSERTION", "true")

	cfg, err := LoadConfig(ConfigFeeders...)
	require.NoError(t, err)
	assert.Equal(t, EnvPriority, feederPriority(ConfigFeeders[0]))
	assert.Equal(t, []string{"features", "acceptance"}, cfg.Suite.Paths)
	assert.Equal(t, int64(7), cfg.Suite.Randomize)
	assert.False(t, cfg.Events.Enabled)
	assert.True(t, cfg.Checks.FailOnNoopAssertion)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(feeders.NewYamlFeeder(filepath.Join(t.TempDir(), "missing.yaml")))
	assert.Error(t, err)

	invalid := writeConfigFile(t, "invalid.yaml", "log:\n  level: loud\n")
	_, err = LoadConfig(feeders.NewYamlFeeder(invalid))
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = LoadConfig(nil)
	assert.ErrorIs(t, err, ErrNilFeeder)

	_, err = FileFeeder("checkout.ini")
	assert.True(t, errors.Is(err, feeders.ErrUnsupportedFileType))
}

func TestConfigLoader_VerboseDebug(t *testing.T) {
	logger := &mockLogger{}
	path := writeConfigFile(t, "checkout.yaml", "suite:\n  name: verbose\n")

	loader := NewConfigLoader().SetVerboseDebug(true, logger)
	loader.AddFeeder(feeders.NewYamlFeeder(path))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "verbose", cfg.Suite.Name)

	debug := logger.messages("DEBUG")
	assert.Contains(t, debug, "Starting config feed process")
	assert.Contains(t, debug, "YamlFeeder: reading file")
	assert.Contains(t, debug, "Config feed process completed successfully")
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "checkout.json", `{"suite": {"format": "cucumber", "tags": "@file"}}`)
	t.Setenv("CHECKOUT_SUITE_TAGS", "@env")

	file, err := FileFeeder(path)
	require.NoError(t, err)

	// Added after the env feeder, still applied before it.
	cfg, err := LoadConfig(append(append([]Feeder(nil), ConfigFeeders...), file)...)
	require.NoError(t, err)
	assert.Equal(t, "cucumber", cfg.Suite.Format)
	assert.Equal(t, "@env", cfg.Suite.Tags)
}

func TestConfigProviders(t *testing.T) {
	cfg := DefaultConfig()

	std := NewStdConfigProvider(cfg)
	assert.Same(t, cfg, std.GetConfig())

	immutable := NewImmutableConfigProvider(cfg)
	assert.Same(t, cfg, immutable.GetConfig())

	updated := DefaultConfig()
	updated.Suite.Name = "updated"
	immutable.UpdateConfig(updated)
	assert.Equal(t, "updated", immutable.GetConfig().(*Config).Suite.Name)
}
