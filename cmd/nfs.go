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

var nfsCmd = &cobra.Command{
	Use:   "nfs",
	Short: "Process an NFS ledger export",
	Long: `Process an NFS invoice ledger export: validate the required columns,
remove duplicate rows, keep only rows with a known invoice protocol, rename
to the output schema, and write a workbook with the full dataset and the
per-protocol cartacee/elettroniche summaries.

Input is an xlsx file (--input) or a Google Sheets worksheet (--sheet-url,
which needs GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS).`,
	Example: `  # Process a local export
  nfsft nfs --input registrazioni.xlsx

  # Process a worksheet of a Google Sheet
  nfsft nfs --sheet-url https://docs.google.com/spreadsheets/d/... --sheet-name Registrazioni

  # Custom column mapping and output path
  nfsft nfs --input registrazioni.xlsx --profile nfs.yaml --output nfs-report.xlsx`,
	RunE: runNFS,
}

func init() {
	rootCmd.AddCommand(nfsCmd)

	nfsCmd.Flags().String("input", "", "Path to the xlsx export")
	nfsCmd.Flags().String("sheet-url", "", "Google Sheets URL to read instead of a file")
	nfsCmd.Flags().String("sheet-name", "", "Worksheet name (default: first sheet)")
	nfsCmd.Flags().String("profile", "", "Path to a YAML profile overriding the built-in column mapping")
	nfsCmd.Flags().String("output", "", "Output workbook path (default: <run-id>_output.xlsx in OUTPUT_DIR)")
}

func runNFS(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("nfs")

	input, _ := cmd.Flags().GetString("input")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	sheetName, _ := cmd.Flags().GetString("sheet-name")
	profilePath, _ := cmd.Flags().GetString("profile")
	output, _ := cmd.Flags().GetString("output")

	profile, err := loadProfile(profilePath, pipeline.NFSProfile())
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	ctx := context.Background()
	ds, err := loadDataset(ctx, input, sheetURL, sheetName)
	if err != nil {
		return fmt.Errorf("failed to load input: %w", err)
	}

	log.Info().
		Int("rows", len(ds.Rows)).
		Msg("Starting NFS processing")

	run, err := registry.Execute("nfs", func(run runner.Run) (string, error) {
		res, err := pipeline.ProcessNFS(ds, profile, ledger.SideNFS)
		if err != nil {
			return "", err
		}

		path, err := resolveOutput(output, run.ID)
		if err != nil {
			return "", err
		}
		if err := xlsx.WriteNFSReport(path, res); err != nil {
			return "", err
		}

		log.Info().
			Int("total_records", res.Stats.TotalRecords).
			Int("fase2_records", res.Stats.Fase2Records).
			Int("fase3_records", res.Stats.Fase3Records).
			Int("duplicates_removed", res.Stats.DuplicatesRemoved).
			Msg("NFS processing completed")
		return path, nil
	})
	if err != nil {
		return fmt.Errorf("NFS processing failed: %w", err)
	}

	fmt.Printf("Report written: %s\n", run.OutputPath)
	return nil
}
