package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/internal/pipeline"
	"nfsft/internal/runner"
	"nfsft/internal/xlsx"
)

var pisaCmd = &cobra.Command{
	Use:   "pisa",
	Short: "Process a Pisa payment export",
	Long: `Process a Pisa payment export: pick the relevant columns by position,
keep only rows with a payment date, split cartacee/elettroniche by the SDI
identifier, and write a workbook with the dataset and per-category
summaries.

Rows can be restricted to one reporting month with --period; without it the
whole export is processed.`,
	Example: `  # Process a local export
  nfsft pisa --input pagamenti.xlsx

  # Restrict to the January 2025 reporting month
  nfsft pisa --input pagamenti.xlsx --period 2025-01`,
	RunE: runPisa,
}

func init() {
	rootCmd.AddCommand(pisaCmd)

	pisaCmd.Flags().String("input", "", "Path to the xlsx export")
	pisaCmd.Flags().String("sheet-url", "", "Google Sheets URL to read instead of a file")
	pisaCmd.Flags().String("sheet-name", "", "Worksheet name (default: first sheet)")
	pisaCmd.Flags().String("profile", "", "Path to a YAML profile overriding the built-in column picks")
	pisaCmd.Flags().String("period", "", "Restrict to one reporting month (format: YYYY-MM)")
	pisaCmd.Flags().String("output", "", "Output workbook path (default: <run-id>_output.xlsx in OUTPUT_DIR)")
}

func runPisa(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("pisa")

	input, _ := cmd.Flags().GetString("input")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	sheetName, _ := cmd.Flags().GetString("sheet-name")
	profilePath, _ := cmd.Flags().GetString("profile")
	periodStr, _ := cmd.Flags().GetString("period")
	output, _ := cmd.Flags().GetString("output")

	profile, err := loadProfile(profilePath, pipeline.PisaProfile())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	var period *ledger.Period
	if periodStr != "" {
		p, err := ledger.ParsePeriod(periodStr)
		if err != nil {
			return err
		}
		period = &p
	}

	ctx := context.Background()
	ds, err := loadDataset(ctx, input, sheetURL, sheetName)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	log.Info().
		Int("rows", len(ds.Rows)).
		Str("period", periodStr).
		Msg("Starting Pisa processing")

	run, err := registry.Execute("pisa", func(run runner.Run) (string, error) {
		res, err := pipeline.ProcessPisa(ds, profile, ledger.SidePisa, period)
		if err != nil {
			return "", err
		}

		path, err := resolveOutput(output, run.ID)
		if err != nil {
			return "", err
		}
		if err := xlsx.WritePisaReport(path, res); err != nil {
			return "", err
		}

		log.Info().
			Int("total_records", res.Stats.TotalRecords).
			Int("cartacee", res.Stats.Fase2Records).
			Int("elettroniche", res.Stats.Fase3Records).
			Msg("Pisa processing completed")
		return path, nil
	})
	if err != nil {
		return fmt.Errorf("pisa processing failed: %w", err)
	}

	fmt.Printf("Report written: %s\n", run.OutputPath)
	return nil
}
