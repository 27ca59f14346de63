package checkout

import (
	"github.com/CrisisTextLine/checkout/feeders"
)

// EnvPrefix is the prefix of environment variables read by the default feeders.
const EnvPrefix = "CHECKOUT_"

// Priorities of the default feeders. Environment variables override files.
const (
	FilePriority = 10
	EnvPriority  = 20
)

// Feeder defines the interface for configuration feeders that provide configuration data.
type Feeder interface {
	// Feed gets a struct and feeds it using configuration data.
	Feed(structure interface{}) error
}

// ConfigFeeders provides the default feeders: environment variables with
// the CHECKOUT_ prefix, applied at EnvPriority.
var ConfigFeeders = []Feeder{
	feeders.NewEnvFeeder(EnvPrefix).WithPriority(EnvPriority),
}

// VerboseAwareFeeder provides functionality for verbose debug logging during configuration feeding
type VerboseAwareFeeder interface {
	// SetVerboseDebug enables or disables verbose debug logging
	SetVerboseDebug(enabled bool, logger interface{ Debug(msg string, args ...any) })
}

// PrioritizedFeeder extends the Feeder interface with priority control.
// Feeders with higher priority values are applied later, so their values
// override those of lower priority feeders. Feeders with the same priority
// are applied in the order they were added.
//
//	feeders.NewYamlFeeder("checkout.yaml").WithPriority(10)
//	feeders.NewEnvFeeder("CHECKOUT_").WithPriority(100) // env wins
type PrioritizedFeeder interface {
	Feeder
	// Priority returns the priority value for this feeder.
	Priority() int
}

// FileFeeder returns a feeder for path chosen by its extension
// (.yaml, .yml, .toml or .json), applied at FilePriority.
func FileFeeder(path string) (Feeder, error) {
	f, err := feeders.ForFile(path, FilePriority)
	if err != nil {
		return nil, err
	}
	return f, nil
}
