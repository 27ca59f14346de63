package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/CrisisTextLine/checkout"
	"github.com/spf13/cobra"
)

type runFlags struct {
	configFile string
	format     string
	tags       string
	strict     bool
	noColors   bool
	failOnNoop bool
	random     int64
	stopOnFail bool
	eventsOut  string
	verbose    bool
}

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	// Local flag variables to avoid global state issues in tests
	var flags runFlags

	runCmd := &cobra.Command{
		Use:   "run [paths...]",
		Short: "Run feature files against the checkout steps",
		Long: `Run Gherkin feature files against the checkout step definitions.
Paths default to the suite.paths configuration value ("features").

Configuration is read from --config (YAML, TOML or JSON by extension) and from
CHECKOUT_* environment variables, which take precedence. Flags override both.

Examples:
  checkout-bdd run                              # ./features
  checkout-bdd run features/checkout.feature    # One file
  checkout-bdd run --tags @payment              # Only payment scenarios
  checkout-bdd run --config checkout.yaml --events-out events.jsonl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuiteWithFlags(cmd, args, flags)
		},
	}

	bindRunFlags(runCmd, &flags)
	return runCmd
}

func bindRunFlags(runCmd *cobra.Command, flags *runFlags) {
	runCmd.Flags().StringVarP(&flags.configFile, "config", "c", "", "Config file (.yaml, .yml, .toml or .json)")
	runCmd.Flags().StringVarP(&flags.format, "format", "f", "", "godog output format (pretty, progress, cucumber, junit)")
	runCmd.Flags().StringVarP(&flags.tags, "tags", "t", "", "Tag expression selecting scenarios")
	runCmd.Flags().BoolVar(&flags.strict, "strict", true, "Fail on undefined or pending steps")
	runCmd.Flags().BoolVar(&flags.noColors, "no-colors", false, "Disable ANSI colors")
	runCmd.Flags().BoolVar(&flags.failOnNoop, "fail-on-noop", false, "Fail scenarios that run assertions which check nothing")
	runCmd.Flags().Int64Var(&flags.random, "random", 0, "Randomize scenario order with this seed (-1 picks a seed)")
	runCmd.Flags().BoolVar(&flags.stopOnFail, "stop-on-failure", false, "Stop at the first failed scenario")
	runCmd.Flags().StringVar(&flags.eventsOut, "events-out", "", "Write step events as JSON lines to this file")
	runCmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose output")
}

// loadRunConfig merges the config file, the environment and changed flags.
func loadRunConfig(cmd *cobra.Command, args []string, flags runFlags, logger checkout.Logger) (*checkout.Config, error) {
	loader := checkout.NewConfigLoader()
	for _, f := range checkout.ConfigFeeders {
		loader.AddFeeder(f)
	}
	if flags.configFile != "" {
		f, err := checkout.FileFeeder(flags.configFile)
		if err != nil {
			return nil, err
		}
		loader.AddFeeder(f)
	}
	// ConfigFeeders is shared, so reset its verbose state on every load.
	loader.SetVerboseDebug(flags.verbose, logger)

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Suite.Format = flags.format
	}
	if changed("tags") {
		cfg.Suite.Tags = flags.tags
	}
	if changed("strict") {
		cfg.Suite.Strict = flags.strict
	}
	if changed("no-colors") {
		cfg.Suite.NoColors = flags.noColors
	}
	if changed("fail-on-noop") {
		cfg.Checks.FailOnNoopAssertion = flags.failOnNoop
	}
	if changed("random") {
		cfg.Suite.Randomize = flags.random
	}
	if changed("stop-on-failure") {
		cfg.Suite.StopOnFailure = flags.stopOnFail
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	if len(args) > 0 {
		cfg.Suite.Paths = args
	}
	if flags.eventsOut != "" {
		cfg.Events.Enabled = true
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runSuiteWithFlags(cmd *cobra.Command, args []string, flags runFlags) error {
	// Bootstrap logger until the configured one exists
	bootstrap := checkout.NewLogger(checkout.LogConfig{Level: "debug", Format: checkout.LogFormatText}, cmd.ErrOrStderr())

	cfg, err := loadRunConfig(cmd, args, flags, bootstrap)
	if err != nil {
		return err
	}
	logger := checkout.NewLogger(cfg.Log, cmd.ErrOrStderr())

	opts := []checkout.SuiteOption{checkout.WithLogger(logger)}
	var events *jsonLinesObserver
	if flags.eventsOut != "" {
		file, err := os.Create(flags.eventsOut)
		if err != nil {
			return fmt.Errorf("failed to create events file: %w", err)
		}
		events = newJSONLinesObserver(file)
		opts = append(opts, checkout.WithObserver(events))
	}

	suite, err := checkout.NewSuiteWithProvider(checkout.NewImmutableConfigProvider(cfg), opts...)
	if err != nil {
		if events != nil {
			_ = events.Close()
		}
		return err
	}

	godogOpts := suite.Options(cmd.OutOrStdout())
	status := suite.Run(&godogOpts)

	if events != nil {
		if err := events.Close(); err != nil {
			return err
		}
	}

	if noops := suite.NoopAssertions(); len(noops) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d no-op assertion(s) ran: %s\n", len(noops), strings.Join(uniq(noops), "; "))
	}
	if status != 0 {
		return fmt.Errorf("%w: godog exit status %d", ErrSuiteFailed, status)
	}
	return nil
}

func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// jsonLinesObserver writes each CloudEvent as one JSON line.
type jsonLinesObserver struct {
	enc    *json.Encoder
	closer io.Closer
}

func newJSONLinesObserver(w io.WriteCloser) *jsonLinesObserver {
	return &jsonLinesObserver{enc: json.NewEncoder(w), closer: w}
}

// Close closes the underlying file. A failed close can mean lost events.
func (o *jsonLinesObserver) Close() error {
	if err := o.closer.Close(); err != nil {
		return fmt.Errorf("failed to close events file: %w", err)
	}
	return nil
}

func (o *jsonLinesObserver) OnEvent(_ context.Context, event checkout.CloudEvent) error {
	if err := o.enc.Encode(event); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event.ID(), err)
	}
	return nil
}

func (o *jsonLinesObserver) ObserverID() string {
	return "checkout-bdd.events-out"
}
