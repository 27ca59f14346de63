// Package cmd implements the checkout-bdd CLI commands.
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Define static errors
var (
	ErrSuiteFailed = errors.New("checkout suite failed")
)

// BuildInfo describes the binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// NewRootCommand creates the root checkout-bdd command with all subcommands registered.
func NewRootCommand(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:   "checkout-bdd",
		Short: "Run the checkout Gherkin scenarios",
		Long: `checkout-bdd runs Gherkin feature files against the checkout step definitions
(login, cart, payment, confirmation) and reports the result.

Available subcommands:
  run      - Run feature files
  steps    - List the registered step phrases
  version  - Print version information`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       info.Version,
	}

	root.AddCommand(NewRunCommand())
	root.AddCommand(NewStepsCommand())
	root.AddCommand(newVersionCommand(info))
	return root
}

func newVersionCommand(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "checkout-bdd %s (commit %s, built %s)\n", info.Version, info.Commit, info.BuildDate)
		},
	}
}
