package ledger

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a raw cell value to a monetary float. Text values may
// use a comma decimal separator and dot thousands separators (the export
// locale). Unparseable values coerce to 0 so a bad cell never aborts a run.
func ParseAmount(raw any) float64 {
	switch v := raw.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(v) {
			return 0
		}
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}

	s := strings.TrimSpace(CellString(raw))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimPrefix(s, "€")

	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			// Full locale form 1.234,56: dots are thousands separators.
			s = strings.ReplaceAll(s, ".", "")
		}
		s = strings.ReplaceAll(s, ",", ".")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// Round2 rounds to two decimal places, the resolution used for all monetary
// comparison and display.
func Round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// SumAmounts sums the named column over all rows, coercing each cell with
// ParseAmount, and rounds the result to two decimals.
func SumAmounts(d *Dataset, column string) float64 {
	var total float64
	for _, rec := range d.Rows {
		total += ParseAmount(rec[column])
	}
	return Round2(total)
}
