package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/internal/pipeline"
	"nfsft/internal/reconcile"
	"nfsft/internal/runner"
	"nfsft/internal/xlsx"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Reconcile the NFS and Pisa ledgers",
	Long: `Reconcile the NFS and Pisa ledgers over a reporting month: both
sources are processed with their own profiles, restricted to the period, and
cross-referenced by the normalized SDI identifier. The output workbook holds
the per-category summary and the discrepancy sheets (keys to verify,
one-sided rows, amount differences, and the month lookup for Pisa-only
keys).

Each source is an xlsx file (--nfs/--pisa) or a worksheet of one Google
Sheet (--sheet-url with --nfs-sheet/--pisa-sheet).`,
	Example: `  # Reconcile two local exports for the configured period
  nfsft compare --nfs registrazioni.xlsx --pisa pagamenti.xlsx

  # Explicit period and looser amount tolerance
  nfsft compare --nfs registrazioni.xlsx --pisa pagamenti.xlsx --period 2025-01 --tolerance 0.05

  # Both sources from one Google Sheet
  nfsft compare --sheet-url https://docs.google.com/spreadsheets/d/... --nfs-sheet NFS --pisa-sheet Pisa`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().String("nfs", "", "Path to the NFS xlsx export")
	compareCmd.Flags().String("pisa", "", "Path to the Pisa xlsx export")
	compareCmd.Flags().String("sheet-url", "", "Google Sheets URL holding both worksheets")
	compareCmd.Flags().String("nfs-sheet", "", "Worksheet name of the NFS ledger")
	compareCmd.Flags().String("pisa-sheet", "", "Worksheet name of the Pisa ledger")
	compareCmd.Flags().String("nfs-profile", "", "Path to a YAML profile for the NFS source")
	compareCmd.Flags().String("pisa-profile", "", "Path to a YAML profile for the Pisa source")
	compareCmd.Flags().String("period", "", "Reporting month (format: YYYY-MM, default: REPORT_PERIOD)")
	compareCmd.Flags().Float64("tolerance", -1, "Amount tolerance in currency units (default: AMOUNT_TOLERANCE)")
	compareCmd.Flags().String("output", "", "Output workbook path (default: <run-id>_output.xlsx in OUTPUT_DIR)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("compare")

	nfsPath, _ := cmd.Flags().GetString("nfs")
	pisaPath, _ := cmd.Flags().GetString("pisa")
	sheetURL, _ := cmd.Flags().GetString("sheet-url")
	nfsSheet, _ := cmd.Flags().GetString("nfs-sheet")
	pisaSheet, _ := cmd.Flags().GetString("pisa-sheet")
	nfsProfilePath, _ := cmd.Flags().GetString("nfs-profile")
	pisaProfilePath, _ := cmd.Flags().GetString("pisa-profile")
	periodStr, _ := cmd.Flags().GetString("period")
	tolerance, _ := cmd.Flags().GetFloat64("tolerance")
	output, _ := cmd.Flags().GetString("output")

	if periodStr == "" {
		periodStr = cfg.ReportPeriod
	}
	period, err := ledger.ParsePeriod(periodStr)
	if err != nil {
		return err
	}
	if tolerance < 0 {
		tolerance = cfg.AmountTolerance
	}

	opts := reconcile.DefaultOptions()
	opts.Tolerance = tolerance
	opts.KeyMode = cfg.KeyMode()
	if opts.NFS, err = loadProfile(nfsProfilePath, pipeline.NFSProfile()); err != nil {
		return fmt.Errorf("failed to load NFS profile: %w", err)
	}
	if opts.Pisa, err = loadProfile(pisaProfilePath, pipeline.PisaProfile()); err != nil {
		return fmt.Errorf("failed to load Pisa profile: %w", err)
	}

	ctx := context.Background()
	nfsDS, err := loadDataset(ctx, nfsPath, sheetURL, nfsSheet)
	if err != nil {
		return fmt.Errorf("failed to load NFS input: %w", err)
	}
	pisaDS, err := loadDataset(ctx, pisaPath, sheetURL, pisaSheet)
	if err != nil {
		return fmt.Errorf("failed to load Pisa input: %w", err)
	}

	log.Info().
		Str("period", period.Label()).
		Float64("tolerance", tolerance).
		Int("nfs_rows", len(nfsDS.Rows)).
		Int("pisa_rows", len(pisaDS.Rows)).
		Msg("Starting reconciliation")

	run, err := registry.Execute("compare", func(run runner.Run) (string, error) {
		res, err := reconcile.Reconcile(nfsDS, pisaDS, period, opts)
		if err != nil {
			return "", err
		}

		path, err := resolveOutput(output, run.ID)
		if err != nil {
			return "", err
		}
		if err := xlsx.WriteCompareReport(path, res); err != nil {
			return "", err
		}
		return path, nil
	})
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	fmt.Printf("Report written: %s\n", run.OutputPath)
	return nil
}
