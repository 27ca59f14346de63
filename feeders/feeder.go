// Package feeders populates configuration structs from files and the
// environment.
package feeders

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Static errors for feeders
var (
	ErrUnsupportedFileType = errors.New("unsupported config file type")
	ErrInvalidTarget       = errors.New("target must be a non-nil pointer to a struct")
	ErrEnvConversion       = errors.New("cannot convert environment value")
)

// Feeder populates a struct and reports its priority.
type Feeder interface {
	Feed(structure interface{}) error
	Priority() int
}

// DebugLogger is the subset of a logger used for verbose feeding.
type DebugLogger interface {
	Debug(msg string, args ...any)
}

// ForFile returns a feeder for path chosen by its extension, with the
// given priority.
func ForFile(path string, priority int) (Feeder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return NewYamlFeeder(path).WithPriority(priority), nil
	case ".toml":
		return NewTomlFeeder(path).WithPriority(priority), nil
	case ".json":
		return NewJSONFeeder(path).WithPriority(priority), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, path)
	}
}

// verbose carries the shared priority and debug logging state.
type verbose struct {
	priority     int
	verboseDebug bool
	logger       DebugLogger
}

// Priority returns the priority set with WithPriority.
func (v *verbose) Priority() int {
	return v.priority
}

// SetVerboseDebug enables or disables verbose debug logging
func (v *verbose) SetVerboseDebug(enabled bool, logger interface{ Debug(msg string, args ...any) }) {
	v.verboseDebug = enabled
	v.logger = logger
}

func (v *verbose) debug(msg string, args ...any) {
	if v.verboseDebug && v.logger != nil {
		v.logger.Debug(msg, args...)
	}
}
