// Package checkout provides Gherkin step definitions for a checkout scenario
// (login, cart, payment, confirmation) and binds them into a godog suite.
//
// Every step reads or writes boolean flags on a ScenarioContext. A fresh
// context is created for each scenario and discarded when it ends.
package checkout

import (
	"fmt"
	"sort"
)

// Flag names one boolean field of the scenario state.
type Flag string

// Flags recorded by the checkout steps.
const (
	FlagLoggedIn       Flag = "logged_in"
	FlagCartHasItems   Flag = "cart_has_items"
	FlagHasItemsOK     Flag = "has_items_ok"
	FlagValidPayment   Flag = "valid_payment"
	FlagInvalidPayment Flag = "invalid_payment"
)

// AllFlags lists every known flag in declaration order.
var AllFlags = []Flag{
	FlagLoggedIn,
	FlagCartHasItems,
	FlagHasItemsOK,
	FlagValidPayment,
	FlagInvalidPayment,
}

func (f Flag) String() string {
	return string(f)
}

// ParseFlag returns the flag for a snake_case name.
func ParseFlag(name string) (Flag, error) {
	for _, f := range AllFlags {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFlag, name)
}

// ScenarioContext is the mutable state shared by all steps of one scenario.
// Flags start unset; reading an unset flag with Get is an error.
//
// A ScenarioContext is not safe for concurrent use. Steps of a scenario run
// sequentially, and each scenario gets its own instance.
type ScenarioContext struct {
	flags map[Flag]bool
}

// NewScenarioContext creates an empty scenario context with every flag unset.
func NewScenarioContext() *ScenarioContext {
	return &ScenarioContext{flags: make(map[Flag]bool)}
}

// Set records a value for the flag.
func (sc *ScenarioContext) Set(flag Flag, value bool) {
	sc.flags[flag] = value
}

// Get returns the flag value, or ErrFlagNotSet if no step has set it yet.
func (sc *ScenarioContext) Get(flag Flag) (bool, error) {
	value, ok := sc.flags[flag]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrFlagNotSet, flag)
	}
	return value, nil
}

// IsSet reports whether a step has set the flag.
func (sc *ScenarioContext) IsSet(flag Flag) bool {
	_, ok := sc.flags[flag]
	return ok
}

// isTrue treats an unset flag as false.
func (sc *ScenarioContext) isTrue(flag Flag) bool {
	return sc.flags[flag]
}

// Snapshot returns a copy of the flags that have been set.
func (sc *ScenarioContext) Snapshot() map[Flag]bool {
	out := make(map[Flag]bool, len(sc.flags))
	for k, v := range sc.flags {
		out[k] = v
	}
	return out
}

// snapshotArgs flattens the set flags into sorted slog key/value pairs.
func (sc *ScenarioContext) snapshotArgs() []any {
	keys := make([]string, 0, len(sc.flags))
	for k := range sc.flags {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)

	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		args = append(args, k, sc.flags[Flag(k)])
	}
	return args
}
