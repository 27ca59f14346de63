package checkout

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
)

type scenarioKey struct{}

// WithScenario returns a context carrying sc.
func WithScenario(ctx context.Context, sc *ScenarioContext) context.Context {
	return context.WithValue(ctx, scenarioKey{}, sc)
}

// ScenarioFromContext returns the scenario state stored by the suite's
// Before hook.
func ScenarioFromContext(ctx context.Context) (*ScenarioContext, error) {
	sc, ok := ctx.Value(scenarioKey{}).(*ScenarioContext)
	if !ok || sc == nil {
		return nil, ErrNoScenarioContext
	}
	return sc, nil
}

// Suite binds a StepRegistry into godog and reports what the steps do.
type Suite struct {
	config   ConfigProvider
	initial  *Config
	registry *StepRegistry
	logger   Logger
	events   *EventSubject

	mu    sync.Mutex
	noops []string
}

// SuiteOption configures a Suite.
type SuiteOption func(*Suite) error

// WithLogger sets the logger used by the suite.
func WithLogger(logger Logger) SuiteOption {
	return func(s *Suite) error {
		if logger != nil {
			s.logger = logger
		}
		return nil
	}
}

// WithRegistry replaces the default checkout step registry.
func WithRegistry(registry *StepRegistry) SuiteOption {
	return func(s *Suite) error {
		if registry == nil {
			return fmt.Errorf("%w: nil step registry", ErrInvalidConfig)
		}
		s.registry = registry
		return nil
	}
}

// WithObserver registers an observer for suite events.
func WithObserver(observer Observer, eventTypes ...string) SuiteOption {
	return func(s *Suite) error {
		return s.events.RegisterObserver(observer, eventTypes...)
	}
}

// NewSuite creates a suite for cfg. A nil cfg uses DefaultConfig.
func NewSuite(cfg *Config, opts ...SuiteOption) (*Suite, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return NewSuiteWithProvider(NewStdConfigProvider(cfg), opts...)
}

// NewSuiteWithProvider creates a suite that reads its configuration from
// provider whenever it needs it, so an ImmutableConfigProvider can swap the
// configuration between runs. The provider must hold a *Config.
func NewSuiteWithProvider(provider ConfigProvider, opts ...SuiteOption) (*Suite, error) {
	if provider == nil {
		return nil, fmt.Errorf("%w: nil config provider", ErrInvalidConfig)
	}
	cfg, err := configFrom(provider)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Suite{
		config:   provider,
		initial:  cfg,
		registry: CheckoutSteps(),
		logger:   noopLogger{},
	}
	s.events = NewEventSubject(s.logger)

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.events.logger = s.logger
	return s, nil
}

func configFrom(provider ConfigProvider) (*Config, error) {
	cfg, ok := provider.GetConfig().(*Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("%w: config provider holds %T", ErrInvalidConfig, provider.GetConfig())
	}
	return cfg, nil
}

// Config returns the current suite configuration. If the provider no longer
// holds a *Config the configuration the suite was created with is used.
func (s *Suite) Config() *Config {
	cfg, err := configFrom(s.config)
	if err != nil {
		s.logger.Error("Falling back to initial configuration", "error", err)
		return s.initial
	}
	return cfg
}

// Registry returns the step registry bound by the suite.
func (s *Suite) Registry() *StepRegistry {
	return s.registry
}

// Events returns the subject suite events are published on.
func (s *Suite) Events() *EventSubject {
	return s.events
}

// NoopAssertions returns the phrases of no-op assertions run so far, once
// per scenario that ran them.
func (s *Suite) NoopAssertions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.noops))
	copy(out, s.noops)
	return out
}

// InitializeScenario is a godog ScenarioInitializer. Each scenario gets a
// fresh ScenarioContext through the Before hook.
func (s *Suite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		s.logger.Debug("Scenario started", "scenario", sc.Name, "uri", sc.Uri)
		s.emit(ctx, EventTypeScenarioStarted, map[string]interface{}{
			"scenario": sc.Name,
			"uri":      sc.Uri,
		})
		return WithScenario(ctx, NewScenarioContext()), nil
	})

	for _, def := range s.registry.Definitions() {
		ctx.Step(def.Pattern, s.bind(def))
	}

	ctx.After(func(ctx context.Context, sc *godog.Scenario, err error) (context.Context, error) {
		data := map[string]interface{}{
			"scenario": sc.Name,
			"uri":      sc.Uri,
			"passed":   err == nil,
		}
		if state, stateErr := ScenarioFromContext(ctx); stateErr == nil {
			data["flags"] = state.Snapshot()
		}
		if err != nil {
			data["error"] = err.Error()
			s.logger.Error("Scenario failed", "scenario", sc.Name, "error", err)
		} else {
			s.logger.Info("Scenario passed", "scenario", sc.Name)
		}
		s.emit(ctx, EventTypeScenarioFinished, data)
		return ctx, nil
	})
}

// bind adapts a StepDefinition to a godog step function.
func (s *Suite) bind(def StepDefinition) func(context.Context) error {
	return func(ctx context.Context) error {
		sc, err := ScenarioFromContext(ctx)
		if err != nil {
			return err
		}

		err = def.Handler(sc)
		if err == nil && def.Noop {
			err = s.reportNoop(ctx, def)
		}

		data := map[string]interface{}{
			"keyword": def.Keyword.String(),
			"phrase":  def.Phrase,
			"flags":   sc.Snapshot(),
		}
		if err != nil {
			data["error"] = err.Error()
			s.logger.Debug("Step failed", append([]any{"keyword", def.Keyword.String(), "phrase", def.Phrase, "error", err}, sc.snapshotArgs()...)...)
			s.emit(ctx, EventTypeStepFailed, data)
			return err
		}

		s.logger.Debug("Step executed", append([]any{"keyword", def.Keyword.String(), "phrase", def.Phrase}, sc.snapshotArgs()...)...)
		s.emit(ctx, EventTypeStepExecuted, data)
		return nil
	}
}

func (s *Suite) reportNoop(ctx context.Context, def StepDefinition) error {
	s.mu.Lock()
	s.noops = append(s.noops, def.Phrase)
	s.mu.Unlock()

	s.logger.Warn("Assertion does not check any scenario state", "keyword", def.Keyword.String(), "phrase", def.Phrase)
	s.emit(ctx, EventTypeNoopAssertion, map[string]interface{}{
		"keyword": def.Keyword.String(),
		"phrase":  def.Phrase,
	})

	if s.Config().Checks.FailOnNoopAssertion {
		return fmt.Errorf("%w: %q", ErrNoopAssertion, def.Phrase)
	}
	return nil
}

// emit publishes an event when events are enabled. Delivery failures are
// logged and never fail a step.
func (s *Suite) emit(ctx context.Context, eventType string, data map[string]interface{}) {
	if !s.Config().Events.Enabled {
		return
	}
	if err := s.events.Emit(ctx, eventType, data, nil); err != nil {
		s.logger.Error("Failed to emit event", "event", eventType, "error", err)
	}
}

// Options converts the suite configuration into godog options writing to w.
func (s *Suite) Options(w io.Writer) godog.Options {
	sc := s.Config().Suite

	var output io.Writer = colors.Colored(w)
	if sc.NoColors {
		output = colors.Uncolored(w)
	}

	return godog.Options{
		Output:        output,
		Format:        sc.Format,
		Paths:         append([]string(nil), sc.Paths...),
		Tags:          sc.Tags,
		Strict:        sc.Strict,
		Randomize:     sc.Randomize,
		StopOnFailure: sc.StopOnFailure,
		NoColors:      sc.NoColors,
		Concurrency:   1,
	}
}

// TestSuite builds the godog suite. Scenarios always run one at a time.
func (s *Suite) TestSuite(opts *godog.Options) godog.TestSuite {
	opts.Concurrency = 1
	return godog.TestSuite{
		Name:                s.Config().Suite.Name,
		ScenarioInitializer: s.InitializeScenario,
		Options:             opts,
	}
}

// Run runs the features and returns godog's exit status.
func (s *Suite) Run(opts *godog.Options) int {
	s.logger.Info("Running checkout suite", "name", s.Config().Suite.Name, "paths", opts.Paths, "tags", opts.Tags)
	suite := s.TestSuite(opts)
	status := suite.Run()
	if noops := s.NoopAssertions(); len(noops) > 0 {
		s.logger.Warn("No-op assertions were run", "count", len(noops))
	}
	return status
}
