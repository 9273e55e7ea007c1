package ledger

// ValidateColumns confirms the dataset exposes every required column before
// any transform runs. On failure it returns a SchemaError naming all missing
// columns, not just the first.
func ValidateColumns(d *Dataset, required []string) error {
	have := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		have[c] = struct{}{}
	}

	var missing []string
	for _, col := range required {
		if _, ok := have[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
