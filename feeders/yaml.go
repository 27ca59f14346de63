package feeders

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// YamlFeeder reads configuration from a YAML file.
type YamlFeeder struct {
	verbose
	Path string
}

// NewYamlFeeder creates a feeder for the YAML file at path.
func NewYamlFeeder(path string) *YamlFeeder {
	return &YamlFeeder{Path: path}
}

// WithPriority sets the priority of this feeder.
func (f *YamlFeeder) WithPriority(priority int) *YamlFeeder {
	f.priority = priority
	return f
}

// Feed decodes the file into structure. Keys missing from the file leave
// the existing values untouched.
func (f *YamlFeeder) Feed(structure interface{}) error {
	f.debug("YamlFeeder: reading file", "path", f.Path)

	content, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("yaml feeder: %w", err)
	}
	if err := yaml.Unmarshal(content, structure); err != nil {
		return fmt.Errorf("yaml feeder: failed to parse %s: %w", f.Path, err)
	}

	f.debug("YamlFeeder: file applied", "path", f.Path)
	return nil
}
