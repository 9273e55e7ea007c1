package pipeline

import (
	"sort"
	"strings"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/pkg/models"
)

// ProcessNFS runs the header-named single-source transform: validate,
// deduplicate by (invoice number, counterparty), filter to known protocols,
// recode the withholding-tax code, project and rename to the output schema,
// parse dates, sort by registration date and partition by protocol category.
func ProcessNFS(ds *ledger.Dataset, p Profile, side ledger.Side) (*Result, error) {
	log := logger.WithComponent("pipeline-nfs")

	if err := ledger.ValidateColumns(ds, p.Required); err != nil {
		return nil, ledger.QualifySide(err, side)
	}

	deduped, removed := ledger.Deduplicate(ds, p.DedupeColumns)
	if removed > 0 {
		log.Info().Int("duplicates_removed", removed).Msg("Removed duplicate rows")
	}

	filtered := deduped.Filter(func(rec ledger.Record) bool {
		return ledger.Classify(rec.String(p.ProtocolColumn)) != ledger.CategoryInvalid
	})
	if len(filtered.Rows) == 0 {
		return nil, &ledger.NoValidRecordsError{Side: side}
	}

	out := project(filtered, p)
	parseDateColumns(out, p.DateColumns)
	sortByDate(out, p.SortColumn)

	cartacee := out.Filter(func(rec ledger.Record) bool {
		return ledger.Classify(rec.String("Protocollo")) == ledger.CategoryPaper
	})
	elettroniche := out.Filter(func(rec ledger.Record) bool {
		return ledger.Classify(rec.String("Protocollo")) == ledger.CategoryElectronic
	})

	stats := models.Stats{
		TotalRecords:      len(out.Rows),
		Fase2Records:      len(cartacee.Rows),
		Fase3Records:      len(elettroniche.Rows),
		DuplicatesRemoved: removed,
		ProtocolsFase2:    countByProtocol(out, ledger.Fase2Protocols),
		ProtocolsFase3:    countByProtocol(out, ledger.Fase3Protocols),
	}

	log.Info().
		Int("total_records", stats.TotalRecords).
		Int("fase2_records", stats.Fase2Records).
		Int("fase3_records", stats.Fase3Records).
		Int("duplicates_removed", stats.DuplicatesRemoved).
		Msg("NFS transform completed")

	return &Result{
		Side:          side,
		Data:          out,
		Cartacee:      cartacee,
		Elettroniche:  elettroniche,
		Stats:         stats,
		KeyColumn:     p.KeyColumn,
		DateColumn:    p.SortColumn,
		AmountColumn:  resolveAmountColumn(columnNames(p.Output), p.AmountColumns),
		InvoiceColumn: p.InvoiceColumn,
	}, nil
}

// project builds the output dataset: columns renamed and reordered per the
// profile, with the withholding-tax code blanked unless it is in the allowed
// set.
func project(ds *ledger.Dataset, p Profile) *ledger.Dataset {
	out := &ledger.Dataset{Columns: columnNames(p.Output)}
	allowed := make(map[string]struct{}, len(p.WithholdingAllowed))
	for _, code := range p.WithholdingAllowed {
		allowed[code] = struct{}{}
	}

	for _, rec := range ds.Rows {
		projected := make(ledger.Record, len(p.Output))
		for _, m := range p.Output {
			v := rec[m.Source]
			if m.Source == p.WithholdingColumn && p.WithholdingColumn != "" {
				code := strings.TrimSpace(ledger.CellString(v))
				if _, ok := allowed[code]; ok {
					v = code
				} else {
					v = ""
				}
			}
			projected[m.Output] = v
		}
		out.Rows = append(out.Rows, projected)
	}
	return out
}

// parseDateColumns coerces the named columns to time.Time in place.
// Unparseable cells become nil, never an error.
func parseDateColumns(ds *ledger.Dataset, columns []string) {
	for _, rec := range ds.Rows {
		for _, col := range columns {
			if t, ok := ledger.ParseDate(rec[col]); ok {
				rec[col] = t
			} else {
				rec[col] = nil
			}
		}
	}
}

// sortByDate orders rows by the named date column ascending, nulls last.
// The sort is stable so equal dates keep their input order.
func sortByDate(ds *ledger.Dataset, column string) {
	if column == "" {
		return
	}
	sort.SliceStable(ds.Rows, func(i, j int) bool {
		ti, iOK := ds.Rows[i].Time(column)
		tj, jOK := ds.Rows[j].Time(column)
		if !iOK {
			return false
		}
		if !jOK {
			return true
		}
		return ti.Before(tj)
	})
}

func countByProtocol(ds *ledger.Dataset, protocols []string) map[string]int {
	counts := make(map[string]int, len(protocols))
	for _, prot := range protocols {
		counts[prot] = 0
	}
	for _, rec := range ds.Rows {
		code := rec.String("Protocollo")
		if _, ok := counts[code]; ok {
			counts[code]++
		}
	}
	return counts
}

func columnNames(mappings []FieldMapping) []string {
	names := make([]string, len(mappings))
	for i, m := range mappings {
		names[i] = m.Output
	}
	return names
}
