package xlsx

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSheets indicates the workbook contains no worksheets at all.
	ErrNoSheets = errors.New("workbook has no sheets")

	// ErrEmptySheet indicates the selected worksheet has no header row.
	ErrEmptySheet = errors.New("worksheet is empty")
)

// SheetNotFoundError indicates the named worksheet does not exist in the
// workbook.
type SheetNotFoundError struct {
	Path  string
	Sheet string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in %s", e.Sheet, e.Path)
}
