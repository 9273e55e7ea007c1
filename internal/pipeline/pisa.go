package pipeline

import (
	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/pkg/models"
)

// ProcessPisa runs the positional single-source transform for the Pisa
// payment export: validate the picked positions against the actual column
// count, keep only rows with a payment date, project to the output schema,
// optionally restrict to a reporting period, and split cartacee/elettroniche
// by whether the SDI identifier is present.
func ProcessPisa(ds *ledger.Dataset, p Profile, side ledger.Side, period *ledger.Period) (*Result, error) {
	log := logger.WithComponent("pipeline-pisa")

	indices := make([]int, len(p.Picks))
	var missing []string
	for i, pick := range p.Picks {
		idx, err := LetterToIndex(pick.Letter)
		if err != nil {
			return nil, err
		}
		indices[i] = idx
		if idx >= len(ds.Columns) {
			missing = append(missing, pick.Letter)
		}
	}
	if len(missing) > 0 {
		return nil, ledger.QualifySide(&ledger.SchemaError{Missing: missing}, side)
	}

	payIdx, err := LetterToIndex(p.PaymentDateLetter)
	if err != nil {
		return nil, err
	}
	paySource := ds.Columns[payIdx]

	paid := ds.Filter(func(rec ledger.Record) bool {
		return rec.String(paySource) != ""
	})
	if len(paid.Rows) == 0 {
		return nil, &ledger.NoValidRecordsError{Side: side}
	}

	// Project by position; unrenamed picks keep the source header.
	outColumns := make([]string, len(p.Picks))
	for i, pick := range p.Picks {
		if pick.Rename != "" {
			outColumns[i] = pick.Rename
		} else {
			outColumns[i] = ds.Columns[indices[i]]
		}
	}
	out := &ledger.Dataset{Columns: outColumns}
	for _, rec := range paid.Rows {
		projected := make(ledger.Record, len(outColumns))
		for i, idx := range indices {
			projected[outColumns[i]] = rec[ds.Columns[idx]]
		}
		out.Rows = append(out.Rows, projected)
	}

	dateColumn := outColumnFor(p, ds, indices, p.PaymentDateLetter)
	keyColumn := outColumnFor(p, ds, indices, p.KeyLetter)

	if period != nil {
		out = out.Filter(func(rec ledger.Record) bool {
			t, ok := ledger.ParseDate(rec[dateColumn])
			return ok && period.Contains(t)
		})
	}

	cartacee := out.Filter(func(rec ledger.Record) bool {
		return ledger.NormalizeKey(rec[keyColumn], ledger.KeyLoose) == ""
	})
	elettroniche := out.Filter(func(rec ledger.Record) bool {
		return ledger.NormalizeKey(rec[keyColumn], ledger.KeyLoose) != ""
	})

	stats := models.Stats{
		TotalRecords:      len(out.Rows),
		Fase2Records:      len(cartacee.Rows),
		Fase3Records:      len(elettroniche.Rows),
		DuplicatesRemoved: 0,
		ProtocolsFase2:    map[string]int{"Cartacee": len(cartacee.Rows)},
		ProtocolsFase3:    map[string]int{"Elettroniche": len(elettroniche.Rows)},
	}

	log.Info().
		Int("total_records", stats.TotalRecords).
		Int("cartacee", stats.Fase2Records).
		Int("elettroniche", stats.Fase3Records).
		Msg("Pisa transform completed")

	return &Result{
		Side:         side,
		Data:         out,
		Cartacee:     cartacee,
		Elettroniche: elettroniche,
		Stats:        stats,
		KeyColumn:    keyColumn,
		DateColumn:   dateColumn,
		AmountColumn: resolveAmountColumn(outColumns, p.AmountColumns),
	}, nil
}

// outColumnFor resolves the output name of the pick addressed by letter.
func outColumnFor(p Profile, ds *ledger.Dataset, indices []int, letter string) string {
	for i, pick := range p.Picks {
		if pick.Letter == letter {
			if pick.Rename != "" {
				return pick.Rename
			}
			return ds.Columns[indices[i]]
		}
	}
	return ""
}
