package xlsx

import (
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/internal/pipeline"
	"nfsft/internal/reconcile"
)

// Sheet names of the emitted workbooks. The compare summary sheet carries
// the period label, see compareSheetName.
const (
	SheetData         = "Dati"
	SheetCartacee     = "Fatture Cartacee"
	SheetElettroniche = "Fatture Elettroniche"
	SheetToVerify     = "Da Verificare"
	SheetPisaOnly     = "Solo Pisa"
	SheetNFSOnly      = "Solo NFS"
	SheetNFSNoKey     = "NFS Senza SDI"
	SheetDeltas       = "Differenze Importi"
	SheetMonths       = "Mesi NFS Solo Pisa"
)

// WriteNFSReport writes the NFS single-source workbook: the full projected
// dataset with a TOTALE row, plus the per-protocol summary sheets for each
// category with the protocol descriptions.
func WriteNFSReport(path string, res *pipeline.Result) error {
	const op = "WriteNFSReport"

	f := excelize.NewFile()
	defer f.Close()

	s, err := buildStyles(f)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f.SetSheetName(f.GetSheetName(0), SheetData)
	if err := writeDataSheet(f, SheetData, s, res.Data, res.AmountColumn, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeProtocolSheet(f, SheetCartacee, s, ledger.Fase2Protocols, res.Stats.ProtocolsFase2); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeProtocolSheet(f, SheetElettroniche, s, ledger.Fase3Protocols, res.Stats.ProtocolsFase3); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return saveAndLog(f, path, op)
}

// WritePisaReport writes the Pisa single-source workbook: the projected
// dataset with a TOTALE row, plus one count/amount summary sheet per
// category.
func WritePisaReport(path string, res *pipeline.Result) error {
	const op = "WritePisaReport"

	f := excelize.NewFile()
	defer f.Close()

	s, err := buildStyles(f)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	f.SetSheetName(f.GetSheetName(0), SheetData)
	if err := writeDataSheet(f, SheetData, s, res.Data, res.AmountColumn, true); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeCategorySheet(f, SheetCartacee, s, "Cartacee",
		len(res.Cartacee.Rows), ledger.SumAmounts(res.Cartacee, res.AmountColumn)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeCategorySheet(f, SheetElettroniche, s, "Elettroniche",
		len(res.Elettroniche.Rows), ledger.SumAmounts(res.Elettroniche, res.AmountColumn)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return saveAndLog(f, path, op)
}

// WriteCompareReport writes the reconciliation workbook: the per-category
// summary, the to-verify grouping, the one-sided row sheets, the common-key
// amount deltas and the Pisa-only month lookup.
func WriteCompareReport(path string, res *reconcile.Result) error {
	const op = "WriteCompareReport"

	f := excelize.NewFile()
	defer f.Close()

	s, err := buildStyles(f)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	summary := compareSheetName(res)
	f.SetSheetName(f.GetSheetName(0), summary)
	if err := writeSummarySheet(f, summary, s, res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeVerifySheet(f, SheetToVerify, s, res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeDataSheet(f, SheetPisaOnly, s, res.PisaOnly, "", false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeDataSheet(f, SheetNFSOnly, s, res.NFSOnly, "", false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeDataSheet(f, SheetNFSNoKey, s, res.NFSNoKey, "", false); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeDeltaSheet(f, SheetDeltas, s, res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := writeMonthSheet(f, SheetMonths, s, res); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return saveAndLog(f, path, op)
}

func compareSheetName(res *reconcile.Result) string {
	return "Confronto " + res.Period.Label()
}

func saveAndLog(f *excelize.File, path, op string) error {
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("%s: failed to save workbook: %w", op, err)
	}
	log := logger.WithComponent("xlsx")
	log.Info().Str("path", path).Msg("Report written")
	return nil
}

// writeDataSheet renders a dataset as a styled table. When withTotal is set,
// a TOTALE row with a SUM formula over amountColumn is appended.
func writeDataSheet(f *excelize.File, sheet string, s styleSet, ds *ledger.Dataset, amountColumn string, withTotal bool) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, ds.Columns); err != nil {
		return err
	}

	amountIdx := -1
	for i, col := range ds.Columns {
		if col == amountColumn && amountColumn != "" {
			amountIdx = i
		}
	}

	for r, rec := range ds.Rows {
		for c, col := range ds.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			switch v := rec[col].(type) {
			case time.Time:
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
				if err := f.SetCellStyle(sheet, cell, cell, s.date); err != nil {
					return err
				}
			default:
				if c == amountIdx {
					if err := f.SetCellValue(sheet, cell, ledger.ParseAmount(v)); err != nil {
						return err
					}
					if err := f.SetCellStyle(sheet, cell, cell, s.money); err != nil {
						return err
					}
				} else if err := f.SetCellValue(sheet, cell, ledger.CellString(v)); err != nil {
					return err
				}
			}
		}
	}

	if withTotal && amountIdx >= 0 {
		totalRow := len(ds.Rows) + 2
		first, _ := excelize.CoordinatesToCellName(1, totalRow)
		last, _ := excelize.CoordinatesToCellName(len(ds.Columns), totalRow)
		if err := f.SetCellValue(sheet, first, "TOTALE"); err != nil {
			return err
		}
		amountCol, _ := excelize.ColumnNumberToName(amountIdx + 1)
		target, _ := excelize.CoordinatesToCellName(amountIdx+1, totalRow)
		formula := fmt.Sprintf("SUM(%s2:%s%d)", amountCol, amountCol, totalRow-1)
		if err := f.SetCellFormula(sheet, target, formula); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, first, last, s.total); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, target, target, s.money); err != nil {
			return err
		}
	}

	return nil
}

// writeProtocolSheet renders per-protocol counts with the Italian protocol
// descriptions, zero counts included, with a TOTALE row.
func writeProtocolSheet(f *excelize.File, sheet string, s styleSet, protocols []string, counts map[string]int) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, []string{"Protocollo", "Descrizione", "Conteggio"}); err != nil {
		return err
	}

	for i, prot := range protocols {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{prot, ledger.Describe(prot), counts[prot]}); err != nil {
			return err
		}
	}

	totalRow := len(protocols) + 2
	if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "TOTALE"); err != nil {
		return err
	}
	formula := fmt.Sprintf("SUM(C2:C%d)", totalRow-1)
	if err := f.SetCellFormula(sheet, fmt.Sprintf("C%d", totalRow), formula); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("C%d", totalRow), s.total)
}

// writeCategorySheet renders the one-line count/amount summary the Pisa
// workbook carries per category.
func writeCategorySheet(f *excelize.File, sheet string, s styleSet, label string, count int, amount float64) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, []string{"Categoria", "Conteggio", "Importo"}); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A2", &[]any{label, count, amount}); err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "C2", "C2", s.money)
}

func writeSummarySheet(f *excelize.File, sheet string, s styleSet, res *reconcile.Result) error {
	if err := writeHeader(f, sheet, s, []string{"Categoria", "NFS Conteggio", "NFS Importo", "Pisa Conteggio", "Pisa Importo"}); err != nil {
		return err
	}

	sum := res.Summary
	rows := []struct {
		label           string
		nfsN, pisaN     int
		nfsAmt, pisaAmt float64
	}{
		{"Cartacee", sum.NFS.Cartacee.Count, sum.Pisa.Cartacee.Count, sum.NFS.Cartacee.Amount, sum.Pisa.Cartacee.Amount},
		{"Elettroniche", sum.NFS.Elettroniche.Count, sum.Pisa.Elettroniche.Count, sum.NFS.Elettroniche.Amount, sum.Pisa.Elettroniche.Amount},
		{"TOTALE", sum.NFS.Total.Count, sum.Pisa.Total.Count, sum.NFS.Total.Amount, sum.Pisa.Total.Amount},
	}
	for i, r := range rows {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &[]any{r.label, r.nfsN, r.nfsAmt, r.pisaN, r.pisaAmt}); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), s.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), s.money); err != nil {
			return err
		}
	}
	totalRow := len(rows) + 1
	return f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("B%d", totalRow), s.total)
}

func writeVerifySheet(f *excelize.File, sheet string, s styleSet, res *reconcile.Result) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, []string{"SDI", "NFS Conteggio", "NFS Importo", "Pisa Conteggio", "Pisa Importo", "Esito"}); err != nil {
		return err
	}
	for i, v := range res.ToVerify {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row),
			&[]any{v.Key, v.NFSCount, v.NFSAmount, v.PisaCount, v.PisaAmount, v.Outcome}); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), s.money); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), s.money); err != nil {
			return err
		}
	}
	return nil
}

func writeDeltaSheet(f *excelize.File, sheet string, s styleSet, res *reconcile.Result) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, []string{"SDI", "Importo NFS", "Importo Pisa", "Differenza"}); err != nil {
		return err
	}
	for i, d := range res.AmountDeltas {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row),
			&[]any{d.Key, d.NFSAmount, d.PisaAmount, d.Delta}); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("D%d", row), s.money); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthSheet(f *excelize.File, sheet string, s styleSet, res *reconcile.Result) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := writeHeader(f, sheet, s, []string{"SDI", "Mesi NFS", "Prima Registrazione"}); err != nil {
		return err
	}
	for i, m := range res.PisaOnlyMonths {
		row := i + 2
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row),
			&[]any{m.Key, strings.Join(m.Months, ", "), m.FirstSeen}); err != nil {
			return err
		}
	}
	return nil
}

func ensureSheet(f *excelize.File, sheet string) error {
	if idx, _ := f.GetSheetIndex(sheet); idx >= 0 {
		return nil
	}
	_, err := f.NewSheet(sheet)
	return err
}

func writeHeader(f *excelize.File, sheet string, s styleSet, columns []string) error {
	header := make([]any, len(columns))
	for i, col := range columns {
		header[i] = col
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(columns))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last+"1", s.header); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", last, 18)
}
