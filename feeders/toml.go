package feeders

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// TomlFeeder reads configuration from a TOML file.
type TomlFeeder struct {
	verbose
	Path string
}

// NewTomlFeeder creates a feeder for the TOML file at path.
func NewTomlFeeder(path string) *TomlFeeder {
	return &TomlFeeder{Path: path}
}

// WithPriority sets the priority of this feeder.
func (f *TomlFeeder) WithPriority(priority int) *TomlFeeder {
	f.priority = priority
	return f
}

// Feed decodes the file into structure.
func (f *TomlFeeder) Feed(structure interface{}) error {
	f.debug("TomlFeeder: reading file", "path", f.Path)

	md, err := toml.DecodeFile(f.Path, structure)
	if err != nil {
		return fmt.Errorf("toml feeder: failed to parse %s: %w", f.Path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		f.debug("TomlFeeder: ignored unknown keys", "path", f.Path, "keys", fmt.Sprint(undecoded))
	}

	f.debug("TomlFeeder: file applied", "path", f.Path)
	return nil
}
