package xlsx

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
)

// ReadDataset loads one worksheet of an xlsx file into a Dataset. The first
// non-empty row is the header; rows shorter than the header are padded with
// empty cells by the Dataset constructor. An empty sheetName selects the
// first worksheet.
func ReadDataset(path, sheetName string) (*ledger.Dataset, error) {
	const op = "ReadDataset"
	log := logger.WithComponent("xlsx")

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open workbook: %w", op, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
		if sheetName == "" {
			return nil, fmt.Errorf("%s: %s: %w", op, path, ErrNoSheets)
		}
	} else if idx, _ := f.GetSheetIndex(sheetName); idx < 0 {
		return nil, fmt.Errorf("%s: %w", op, &SheetNotFoundError{Path: path, Sheet: sheetName})
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read rows: %w", op, err)
	}

	headerIdx := -1
	for i, row := range rows {
		if !rowEmpty(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, fmt.Errorf("%s: %s/%s: %w", op, path, sheetName, ErrEmptySheet)
	}

	header := make([]string, len(rows[headerIdx]))
	for i, cell := range rows[headerIdx] {
		header[i] = strings.TrimSpace(cell)
	}

	var data [][]string
	for _, row := range rows[headerIdx+1:] {
		if rowEmpty(row) {
			continue
		}
		data = append(data, row)
	}

	ds := ledger.NewDataset(header, data)
	log.Debug().
		Str("path", path).
		Str("sheet", sheetName).
		Int("rows", len(ds.Rows)).
		Int("columns", len(ds.Columns)).
		Msg("Loaded worksheet")
	return ds, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
