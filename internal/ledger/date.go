package ledger

import (
	"strings"
	"time"
)

// dateFormats are tried in order when coercing a text cell to a date. The
// exports mix ISO dates, Italian day-first dates and full timestamps.
var dateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"02.01.2006",
	"01-02-06",
	"2006/01/02",
}

// ParseDate coerces a raw cell value to a date. The second return is false
// when the value is empty or unparseable; callers substitute null and
// continue, a date cell never aborts a run.
func ParseDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case nil:
		return time.Time{}, false
	}

	s := strings.TrimSpace(CellString(raw))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
