package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"nfsft/internal/ledger"
	"nfsft/internal/pipeline"
	"nfsft/internal/runner"
	"nfsft/internal/sheets"
	"nfsft/internal/xlsx"
)

// loadDataset resolves one source dataset: a local xlsx file when path is
// set, otherwise a Google Sheets worksheet. For files, sheetName selects the
// worksheet inside the workbook.
func loadDataset(ctx context.Context, path, sheetURL, sheetName string) (*ledger.Dataset, error) {
	if path != "" {
		return xlsx.ReadDataset(path, sheetName)
	}

	if sheetURL == "" {
		sheetURL = cfg.GoogleSheetURL
	}
	if sheetURL == "" {
		return nil, fmt.Errorf("either --input or --sheet-url (or GOOGLE_SHEET_URL) is required")
	}
	if sheetName == "" {
		sheetName = cfg.GoogleSheetWorksheet
	}

	service, err := sheets.NewService(ctx, sheetURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets service: %w", err)
	}
	return service.ReadDataset(ctx, sheetName)
}

// loadProfile returns the built-in profile unless a YAML override is given.
func loadProfile(path string, builtin pipeline.Profile) (pipeline.Profile, error) {
	if path == "" {
		return builtin, nil
	}
	return pipeline.LoadProfile(path)
}

// resolveOutput returns the workbook path for a run: the explicit --output
// value when given, otherwise the run-id based name inside the output
// directory. The parent directory is created either way.
func resolveOutput(explicit, runID string) (string, error) {
	path := explicit
	if path == "" {
		path = runner.OutputPath(cfg.OutputDir, runID)
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return path, nil
}
