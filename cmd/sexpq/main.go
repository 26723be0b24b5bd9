// Package main is the entry point for the sexpq command-line tool.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sexpq",
		Short: "Query records with S-expressions",
		Long: `sexpq parses S-expression queries such as

  (and (> x 0) (not (< y 0)))

and evaluates them against JSON, JSON Lines and YAML records.`,
		SilenceUsage: true,
	}
	rootCmd.Version = version + " (commit=" + commit + ", built=" + date + ")"
	rootCmd.SetVersionTemplate("sexpq version {{.Version}}\n")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (env SEXPQ_CONFIG)")

	rootCmd.AddCommand(
		newCheckCmd(),
		newEvalCmd(),
		newFilterCmd(),
		newServeCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
