package checkout

import (
	"fmt"
	"reflect"
	"sort"
	"sync/atomic"
)

// ConfigProvider defines the interface for providing configuration objects.
type ConfigProvider interface {
	// GetConfig returns the configuration object.
	GetConfig() any
}

// StdConfigProvider wraps a configuration struct and returns the same
// reference on every GetConfig call.
type StdConfigProvider struct {
	cfg any
}

// GetConfig returns the configuration object.
func (s *StdConfigProvider) GetConfig() any {
	return s.cfg
}

// NewStdConfigProvider creates a new standard configuration provider.
func NewStdConfigProvider(cfg any) *StdConfigProvider {
	return &StdConfigProvider{cfg: cfg}
}

// ImmutableConfigProvider stores the configuration in an atomic.Value so
// that it can be swapped while readers hold the previous value.
type ImmutableConfigProvider struct {
	cfg atomic.Value
}

// GetConfig returns the current configuration object.
func (p *ImmutableConfigProvider) GetConfig() any {
	return p.cfg.Load()
}

// UpdateConfig atomically replaces the configuration.
func (p *ImmutableConfigProvider) UpdateConfig(cfg any) {
	p.cfg.Store(cfg)
}

// NewImmutableConfigProvider creates a thread-safe configuration provider.
func NewImmutableConfigProvider(cfg any) *ImmutableConfigProvider {
	provider := &ImmutableConfigProvider{}
	provider.cfg.Store(cfg)
	return provider
}

// ConfigLoader applies a set of feeders to a target struct in priority order.
type ConfigLoader struct {
	// Feeders contains all the registered configuration feeders
	Feeders []Feeder
	// VerboseDebug enables detailed logging during configuration processing
	VerboseDebug bool
	// Logger is used for verbose debug logging
	Logger Logger
}

// NewConfigLoader creates a loader with no feeders.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{
		Feeders: make([]Feeder, 0),
	}
}

// SetVerboseDebug enables or disables verbose debug logging
func (c *ConfigLoader) SetVerboseDebug(enabled bool, logger Logger) *ConfigLoader {
	c.VerboseDebug = enabled
	c.Logger = logger

	for _, feeder := range c.Feeders {
		if verboseFeeder, ok := feeder.(VerboseAwareFeeder); ok {
			verboseFeeder.SetVerboseDebug(enabled, logger)
		}
	}

	return c
}

// AddFeeder adds a configuration feeder.
func (c *ConfigLoader) AddFeeder(feeder Feeder) *ConfigLoader {
	c.Feeders = append(c.Feeders, feeder)

	if c.VerboseDebug && c.Logger != nil {
		if verboseFeeder, ok := feeder.(VerboseAwareFeeder); ok {
			verboseFeeder.SetVerboseDebug(true, c.Logger)
		}
	}

	return c
}

// sortedFeeders orders feeders by ascending priority. The sort is stable so
// equal priorities keep insertion order.
func (c *ConfigLoader) sortedFeeders() []Feeder {
	sorted := make([]Feeder, len(c.Feeders))
	copy(sorted, c.Feeders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return feederPriority(sorted[i]) < feederPriority(sorted[j])
	})
	return sorted
}

func feederPriority(f Feeder) int {
	if pf, ok := f.(PrioritizedFeeder); ok {
		return pf.Priority()
	}
	return 0
}

// Feed applies every feeder to target.
func (c *ConfigLoader) Feed(target interface{}) error {
	if c.VerboseDebug && c.Logger != nil {
		c.Logger.Debug("Starting config feed process", "feedersCount", len(c.Feeders), "targetType", reflect.TypeOf(target))
	}

	for i, f := range c.sortedFeeders() {
		if f == nil {
			return fmt.Errorf("config feeder %d: %w", i, ErrNilFeeder)
		}
		if c.VerboseDebug && c.Logger != nil {
			c.Logger.Debug("Applying feeder", "feederIndex", i, "feederType", fmt.Sprintf("%T", f), "priority", feederPriority(f))
		}
		if err := f.Feed(target); err != nil {
			if c.VerboseDebug && c.Logger != nil {
				c.Logger.Debug("Feeder failed", "feederType", fmt.Sprintf("%T", f), "error", err)
			}
			return fmt.Errorf("config feeder %T: %w", f, err)
		}
	}

	if c.VerboseDebug && c.Logger != nil {
		c.Logger.Debug("Config feed process completed successfully")
	}
	return nil
}

// LoadConfig starts from DefaultConfig, applies the feeders in priority
// order and validates the result.
func LoadConfig(feeders ...Feeder) (*Config, error) {
	loader := NewConfigLoader()
	for _, f := range feeders {
		loader.AddFeeder(f)
	}
	return loader.Load()
}

// Load starts from DefaultConfig, feeds it and validates the result.
func (c *ConfigLoader) Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := c.Feed(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
