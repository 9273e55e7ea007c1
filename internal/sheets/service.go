package sheets

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
)

// Service reads ledger exports that live in a Google Sheet instead of an
// xlsx file. It is a read-only input surface: every worksheet it loads goes
// through the same Dataset model the file reader produces.
type Service struct {
	sheetsService *sheets.Service
	spreadsheetID string
	log           zerolog.Logger
}

// NewService creates a read-only Sheets client for the spreadsheet addressed
// by sheetURL. Credentials come from GOOGLE_APPLICATION_CREDENTIALS (a file
// path) or GOOGLE_CREDENTIALS (inline JSON).
func NewService(ctx context.Context, sheetURL string) (*Service, error) {
	const op = "NewService"

	log := logger.WithComponent("sheets")

	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to extract spreadsheet ID: %w", op, err)
	}

	log.Debug().Str("spreadsheet_id", spreadsheetID).Msg("Extracted spreadsheet ID")

	var creds []byte
	if credsFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); credsFile != "" {
		creds, err = os.ReadFile(credsFile)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to read credentials file: %w", op, err)
		}
	} else if credsJSON := os.Getenv("GOOGLE_CREDENTIALS"); credsJSON != "" {
		creds = []byte(credsJSON)
	} else {
		return nil, fmt.Errorf("%s: neither GOOGLE_APPLICATION_CREDENTIALS nor GOOGLE_CREDENTIALS is set", op)
	}

	config, err := google.JWTConfigFromJSON(creds, sheets.SpreadsheetsReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse credentials: %w", op, err)
	}

	client := config.Client(ctx)
	sheetsService, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create sheets service: %w", op, err)
	}

	return &Service{
		sheetsService: sheetsService,
		spreadsheetID: spreadsheetID,
		log:           log,
	}, nil
}

// extractSpreadsheetID extracts the spreadsheet ID from a Google Sheets URL.
func extractSpreadsheetID(url string) (string, error) {
	re := regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	matches := re.FindStringSubmatch(url)

	if len(matches) < 2 {
		return "", fmt.Errorf("invalid Google Sheets URL format")
	}

	return matches[1], nil
}

// ReadDataset loads one worksheet into a Dataset. The first non-empty row is
// the header. An empty sheetName selects the first worksheet. Cells are
// requested unformatted so numeric identifiers arrive as numbers, not as
// locale-formatted text.
func (s *Service) ReadDataset(ctx context.Context, sheetName string) (*ledger.Dataset, error) {
	const op = "ReadDataset"

	if sheetName == "" {
		spreadsheet, err := s.sheetsService.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to get spreadsheet: %w", op, err)
		}
		if len(spreadsheet.Sheets) == 0 {
			return nil, fmt.Errorf("%s: spreadsheet %s has no sheets", op, s.spreadsheetID)
		}
		sheetName = spreadsheet.Sheets[0].Properties.Title
	}

	resp, err := s.sheetsService.Spreadsheets.Values.Get(s.spreadsheetID, sheetName).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read sheet %s: %w", op, sheetName, err)
	}

	headerIdx := -1
	for i, row := range resp.Values {
		if !valuesEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%s: sheet %s is empty", op, sheetName)
	}

	header := make([]string, len(resp.Values[headerIdx]))
	for i, cell := range resp.Values[headerIdx] {
		header[i] = ledger.CellString(cell)
	}

	ds := &ledger.Dataset{Columns: header}
	for _, row := range resp.Values[headerIdx+1:] {
		if valuesEmpty(row) {
			continue
		}
		rec := make(ledger.Record, len(header))
		for i, col := range header {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, rec)
	}

	s.log.Debug().
		Str("sheet", sheetName).
		Int("rows", len(ds.Rows)).
		Int("columns", len(ds.Columns)).
		Msg("Loaded worksheet from spreadsheet")

	return ds, nil
}

func valuesEmpty(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(ledger.CellString(cell)) != "" {
			return false
		}
	}
	return true
}
