package feeders

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/golobby/cast"
)

// EnvFeeder populates struct fields tagged with `env:"NAME"` from the
// environment variable Prefix+NAME. Nested structs are walked recursively.
// Unset variables leave fields untouched.
type EnvFeeder struct {
	verbose
	Prefix string
	lookup func(string) (string, bool)
}

// NewEnvFeeder creates an environment feeder using prefix.
func NewEnvFeeder(prefix string) *EnvFeeder {
	return &EnvFeeder{Prefix: prefix, lookup: os.LookupEnv}
}

// WithPriority sets the priority of this feeder.
func (f *EnvFeeder) WithPriority(priority int) *EnvFeeder {
	f.priority = priority
	return f
}

// Feed implements the Feeder interface.
func (f *EnvFeeder) Feed(structure interface{}) error {
	rv := reflect.ValueOf(structure)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("env feeder: %w", ErrInvalidTarget)
	}

	f.debug("EnvFeeder: starting feed", "prefix", f.Prefix, "type", rv.Elem().Type().String())
	return f.feedStruct(rv.Elem())
}

func (f *EnvFeeder) feedStruct(rv reflect.Value) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		value := rv.Field(i)
		if !field.IsExported() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := f.feedStruct(value); err != nil {
				return err
			}
			continue
		}

		tag := field.Tag.Get("env")
		if tag == "" {
			continue
		}

		name := f.Prefix + tag
		raw, ok := f.lookup(name)
		if !ok {
			continue
		}

		if err := setField(value, raw); err != nil {
			return fmt.Errorf("env feeder: %s: %w", name, err)
		}
		f.debug("EnvFeeder: field set", "field", field.Name, "env", name)
	}
	return nil
}

// setField converts raw to the field's type through cast. String slices are
// split here instead: cast keeps the blanks around and between commas, while
// "features, extra," must yield [features extra].
func setField(field reflect.Value, raw string) error {
	if field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String {
		var parts []string
		for _, p := range strings.Split(raw, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		field.Set(reflect.ValueOf(parts).Convert(field.Type()))
		return nil
	}

	converted, err := cast.FromType(raw, field.Type())
	if err != nil {
		return fmt.Errorf("%w %q to %s: %w", ErrEnvConversion, raw, field.Type(), err)
	}
	field.Set(reflect.ValueOf(converted).Convert(field.Type()))
	return nil
}
