package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/CrisisTextLine/checkout"
	"github.com/spf13/cobra"
)

type stepInfo struct {
	Keyword string `json:"keyword"`
	Phrase  string `json:"phrase"`
	Pattern string `json:"pattern"`
	Noop    bool   `json:"noop,omitempty"`
}

// NewStepsCommand creates the steps command
func NewStepsCommand() *cobra.Command {
	var asJSON bool

	stepsCmd := &cobra.Command{
		Use:   "steps",
		Short: "List the registered step phrases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSteps(cmd, checkout.CheckoutSteps(), asJSON)
		},
	}

	stepsCmd.Flags().BoolVar(&asJSON, "json", false, "Print the steps as JSON")
	return stepsCmd
}

func runSteps(cmd *cobra.Command, registry *checkout.StepRegistry, asJSON bool) error {
	defs := registry.Definitions()

	if asJSON {
		infos := make([]stepInfo, 0, len(defs))
		for _, def := range defs {
			infos = append(infos, stepInfo{
				Keyword: def.Keyword.String(),
				Phrase:  def.Phrase,
				Pattern: def.Pattern.String(),
				Noop:    def.Noop,
			})
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(infos); err != nil {
			return fmt.Errorf("failed to encode steps: %w", err)
		}
		return nil
	}

	for _, keyword := range []checkout.Keyword{checkout.Given, checkout.When, checkout.Then} {
		fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", keyword)
		for _, def := range defs {
			if def.Keyword != keyword {
				continue
			}
			suffix := ""
			if def.Noop {
				suffix = "  (no-op)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s%s\n", def.Phrase, suffix)
		}
	}
	return nil
}
