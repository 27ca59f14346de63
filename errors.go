package checkout

import (
	"errors"
	"fmt"
)

// Scenario state errors
var (
	ErrFlagNotSet        = errors.New("flag not set")
	ErrUnknownFlag       = errors.New("unknown flag")
	ErrNoScenarioContext = errors.New("no scenario context in context")
)

// Assertion errors
var (
	ErrAssertionFailed = errors.New("assertion failed")
	ErrNoopAssertion   = errors.New("assertion does not check any state")
)

// Step registry errors
var (
	ErrUndefinedStep  = errors.New("undefined step")
	ErrAmbiguousStep  = errors.New("ambiguous step")
	ErrDuplicateStep  = errors.New("step already registered")
	ErrEmptyPhrase    = errors.New("step phrase cannot be empty")
	ErrNilHandler     = errors.New("step handler cannot be nil")
	ErrUnknownKeyword = errors.New("unknown step keyword")
)

// Configuration errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrNilFeeder     = errors.New("feeder cannot be nil")
)

// AssertionError is returned by Then steps when a flag does not hold the
// expected value. It wraps ErrAssertionFailed.
type AssertionError struct {
	Flag     Flag
	Expected bool
	Actual   bool
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("expected %s to be %t, but got %t", e.Flag, e.Expected, e.Actual)
}

// Unwrap lets errors.Is match ErrAssertionFailed.
func (e *AssertionError) Unwrap() error {
	return ErrAssertionFailed
}
