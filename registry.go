package checkout

import (
	"fmt"
	"regexp"
	"strings"
)

// Keyword is the Gherkin phase a step is registered under.
type Keyword int

const (
	Given Keyword = iota
	When
	Then
)

func (k Keyword) String() string {
	switch k {
	case Given:
		return "Given"
	case When:
		return "When"
	case Then:
		return "Then"
	default:
		return fmt.Sprintf("Keyword(%d)", int(k))
	}
}

// ParseKeyword parses "Given", "When" or "Then", ignoring case.
func ParseKeyword(s string) (Keyword, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "given":
		return Given, nil
	case "when":
		return When, nil
	case "then":
		return Then, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKeyword, s)
}

// StepDefinition binds one phrase to its handler.
type StepDefinition struct {
	Keyword Keyword
	Phrase  string
	// Pattern is the anchored expression compiled from Phrase at registration.
	Pattern *regexp.Regexp
	Handler StepHandler
	// Noop marks assertions that do not inspect any scenario state.
	Noop bool
}

// DefinitionOption customizes a StepDefinition during registration.
type DefinitionOption func(*StepDefinition)

// AsNoop marks a Then step as an assertion that checks nothing.
func AsNoop() DefinitionOption {
	return func(d *StepDefinition) {
		d.Noop = true
	}
}

// StepRegistry maps step phrases to handlers. Patterns are compiled when a
// step is registered, so matching never fails on a bad expression.
type StepRegistry struct {
	definitions []*StepDefinition
	byPhrase    map[string]*StepDefinition
}

// NewStepRegistry creates an empty registry.
func NewStepRegistry() *StepRegistry {
	return &StepRegistry{
		byPhrase: make(map[string]*StepDefinition),
	}
}

// Register adds a step. The phrase must match step text exactly.
func (r *StepRegistry) Register(keyword Keyword, phrase string, handler StepHandler, opts ...DefinitionOption) error {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return ErrEmptyPhrase
	}
	if handler == nil {
		return fmt.Errorf("%w: %q", ErrNilHandler, phrase)
	}
	if keyword < Given || keyword > Then {
		return fmt.Errorf("%w: %d", ErrUnknownKeyword, int(keyword))
	}
	if existing, ok := r.byPhrase[phrase]; ok {
		return fmt.Errorf("%w: %s %q", ErrDuplicateStep, existing.Keyword, phrase)
	}

	def := &StepDefinition{
		Keyword: keyword,
		Phrase:  phrase,
		Pattern: regexp.MustCompile("^" + regexp.QuoteMeta(phrase) + "$"),
		Handler: handler,
	}
	for _, opt := range opts {
		opt(def)
	}

	r.definitions = append(r.definitions, def)
	r.byPhrase[phrase] = def
	return nil
}

// MustRegister is like Register but panics on error. It is meant for
// registries built from constant phrases.
func (r *StepRegistry) MustRegister(keyword Keyword, phrase string, handler StepHandler, opts ...DefinitionOption) {
	if err := r.Register(keyword, phrase, handler, opts...); err != nil {
		panic(err)
	}
}

// Match finds the single definition whose pattern matches text.
func (r *StepRegistry) Match(text string) (*StepDefinition, error) {
	text = strings.TrimSpace(text)

	var matched []*StepDefinition
	for _, def := range r.definitions {
		if def.Pattern.MatchString(text) {
			matched = append(matched, def)
		}
	}

	switch len(matched) {
	case 0:
		return nil, fmt.Errorf("%w: %q", ErrUndefinedStep, text)
	case 1:
		return matched[0], nil
	default:
		return nil, fmt.Errorf("%w: %q matches %d definitions", ErrAmbiguousStep, text, len(matched))
	}
}

// Execute matches text and runs the handler against sc.
func (r *StepRegistry) Execute(sc *ScenarioContext, text string) error {
	def, err := r.Match(text)
	if err != nil {
		return err
	}
	return def.Handler(sc)
}

// Definitions returns the registered steps in registration order.
func (r *StepRegistry) Definitions() []StepDefinition {
	out := make([]StepDefinition, 0, len(r.definitions))
	for _, def := range r.definitions {
		out = append(out, *def)
	}
	return out
}

// Len returns the number of registered steps.
func (r *StepRegistry) Len() int {
	return len(r.definitions)
}
