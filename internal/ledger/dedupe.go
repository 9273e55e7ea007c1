package ledger

import "strings"

// Deduplicate removes rows sharing the same composite key, keeping the first
// occurrence in input order and dropping later ones entirely. It returns the
// deduplicated dataset and the number of rows removed.
func Deduplicate(d *Dataset, keyColumns []string) (*Dataset, int) {
	seen := make(map[string]struct{}, len(d.Rows))
	out := &Dataset{Columns: d.Columns}

	for _, rec := range d.Rows {
		parts := make([]string, len(keyColumns))
		for i, col := range keyColumns {
			parts[i] = rec.String(col)
		}
		key := strings.Join(parts, "\x1f")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out.Rows = append(out.Rows, rec)
	}
	return out, len(d.Rows) - len(out.Rows)
}
