package pipeline

import (
	"nfsft/internal/ledger"
	"nfsft/pkg/models"
)

// Result is the outcome of one single-source transform: the projected
// dataset, its category partition, run statistics, and the resolved names of
// the columns downstream steps key on. Positional profiles only know those
// names once the actual headers have been seen, so they are carried here
// rather than read from the profile.
type Result struct {
	Side ledger.Side

	Data         *ledger.Dataset
	Cartacee     *ledger.Dataset
	Elettroniche *ledger.Dataset
	Stats        models.Stats

	// KeyColumn is the output column holding the SDI identifier.
	KeyColumn string
	// DateColumn is the canonical date column: registration date for NFS,
	// payment date for Pisa. Period restriction reads this column.
	DateColumn string
	// AmountColumn is the column feeding category amount aggregates.
	AmountColumn string
	// InvoiceColumn is the invoice-number column, used for deterministic
	// tie-breaking; empty when the source does not expose one.
	InvoiceColumn string
}

func resolveAmountColumn(columns []string, candidates []string) string {
	for _, cand := range candidates {
		for _, col := range columns {
			if col == cand {
				return cand
			}
		}
	}
	return ""
}
