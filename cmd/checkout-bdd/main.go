// Package main is the entry point for the checkout-bdd CLI.
package main

import (
	"fmt"
	"os"

	"github.com/CrisisTextLine/checkout/cmd/checkout-bdd/cmd"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	rootCmd := cmd.NewRootCommand(cmd.BuildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
