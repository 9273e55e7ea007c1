package ledger

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Record is one row of a source export: field name to raw cell value.
// Values arrive as strings from xlsx files, as arbitrary scalars from the
// Sheets API, and as time.Time/float64 once a pipeline has coerced them.
type Record map[string]any

// Dataset is an ordered sequence of records sharing one schema. Column order
// matters for display only; validation treats Columns as a set.
type Dataset struct {
	Columns []string
	Rows    []Record
}

// NewDataset builds a dataset from a header row and raw cell rows. Short rows
// are padded with empty strings so every record exposes every column.
func NewDataset(columns []string, rows [][]string) *Dataset {
	ds := &Dataset{Columns: columns}
	for _, row := range rows {
		rec := make(Record, len(columns))
		for i, col := range columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = ""
			}
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds
}

// HasColumn reports whether the dataset schema contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Filter returns a new dataset with the same schema holding only the rows for
// which keep returns true. Row order is preserved.
func (d *Dataset) Filter(keep func(Record) bool) *Dataset {
	out := &Dataset{Columns: d.Columns}
	for _, rec := range d.Rows {
		if keep(rec) {
			out.Rows = append(out.Rows, rec)
		}
	}
	return out
}

// String returns the cell value for col rendered as a trimmed string.
// Integral floats render without a fractional part so that numeric identifiers
// read back from spreadsheets ("123.0") compare equal to their text form.
func (r Record) String(col string) string {
	return CellString(r[col])
}

// Time returns the cell value for col when it holds a parsed time.
func (r Record) Time(col string) (time.Time, bool) {
	t, ok := r[col].(time.Time)
	return t, ok
}

// CellString renders a raw cell value as a trimmed string.
func CellString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		if math.IsNaN(x) {
			return ""
		}
		if x == math.Trunc(x) && math.Abs(x) < 1e15 {
			return strconv.FormatFloat(x, 'f', 0, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return CellString(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format("2006-01-02")
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", x))
	}
}
