package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"nfsft/internal/config"
	"nfsft/internal/logger"
	"nfsft/internal/runner"
)

var version = "1.0.0"

var (
	cfg      *config.Config
	registry *runner.Registry
)

var rootCmd = &cobra.Command{
	Use:   "nfsft",
	Short: "NFS/FT ledger processing and reconciliation toolkit",
	Long: `nfsft processes accounting export spreadsheets: it validates and
deduplicates invoice ledgers, classifies rows by invoice protocol, produces
formatted summary workbooks, and reconciles the NFS and Pisa sources by the
SDI identifier over a reporting period.

Inputs are xlsx files or Google Sheets worksheets; every run writes a styled
xlsx workbook into the output directory.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("nfsft executed")

		fmt.Println("Use --help to see available commands and options.")
	},
}

// Execute runs the CLI with the loaded configuration.
func Execute(c *config.Config) {
	log := logger.WithComponent("cmd")

	cfg = c
	registry = runner.NewRegistry(c.RunRetention)

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
