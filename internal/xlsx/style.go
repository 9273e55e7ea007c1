package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	headerFill = "4472C4"
	totalFill  = "FFF2CC"
	moneyFmt   = "#,##0.00"
	dateFmt    = "dd/mm/yyyy"
)

// styleSet holds the style ids registered once per workbook.
type styleSet struct {
	header int
	total  int
	money  int
	date   int
}

func buildStyles(f *excelize.File) (styleSet, error) {
	const op = "buildStyles"
	var s styleSet
	var err error

	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{headerFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("%s: header style: %w", op, err)
	}

	s.total, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{totalFill}, Pattern: 1},
	})
	if err != nil {
		return s, fmt.Errorf("%s: total style: %w", op, err)
	}

	money := moneyFmt
	s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money})
	if err != nil {
		return s, fmt.Errorf("%s: money style: %w", op, err)
	}

	date := dateFmt
	s.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &date})
	if err != nil {
		return s, fmt.Errorf("%s: date style: %w", op, err)
	}

	return s, nil
}
