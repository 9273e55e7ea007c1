package ledger

import (
	"fmt"
	"time"
)

// Period is the fixed calendar window both sources are restricted to before
// reconciliation. Both boundary dates are inclusive.
type Period struct {
	Start time.Time
	End   time.Time
}

// ParsePeriod parses a "YYYY-MM" label into the full-month window it names.
func ParsePeriod(label string) (Period, error) {
	t, err := time.Parse("2006-01", label)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q, expected YYYY-MM: %w", label, err)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return Period{Start: start, End: end}, nil
}

// Contains reports whether t falls inside the window, boundaries included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Label renders the period as its "YYYY-MM" name.
func (p Period) Label() string {
	return p.Start.Format("2006-01")
}
