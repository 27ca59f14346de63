package feeders

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONFeeder reads configuration from a JSON file.
type JSONFeeder struct {
	verbose
	Path string
}

// NewJSONFeeder creates a feeder for the JSON file at path.
func NewJSONFeeder(path string) *JSONFeeder {
	return &JSONFeeder{Path: path}
}

// WithPriority sets the priority of this feeder.
func (f *JSONFeeder) WithPriority(priority int) *JSONFeeder {
	f.priority = priority
	return f
}

// Feed decodes the file into structure.
func (f *JSONFeeder) Feed(structure interface{}) error {
	f.debug("JSONFeeder: reading file", "path", f.Path)

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("json feeder: %w", err)
	}
	if err := json.Unmarshal(content, structure); err != nil {
		return fmt.Errorf("json feeder: failed to parse %s: %w", f.Path, err)
	}

	f.debug("JSONFeeder: file applied", "path", f.Path)
	return nil
}
