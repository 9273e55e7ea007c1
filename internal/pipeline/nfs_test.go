package pipeline_test

import (
	"errors"
	"testing"

	"nfsft/internal/ledger"
	"nfsft/internal/pipeline"
)

func nfsRow(overrides map[string]any) ledger.Record {
	rec := ledger.Record{
		"C_NOME":     "ACME",
		"FAT_DATDOC": "2025-01-10",
		"FAT_NDOC":   "F001",
		"FAT_DATREG": "2025-01-15",
		"FAT_PROT":   "EP",
		"FAT_NUM":    "F001",
		"IMPONIBILE": "100,00",
		"FAT_TOTFAT": "122,00",
		"FAT_TOTIVA": "22,00",
		"RA_IMPON":   "",
		"RA_CODTRIB": "",
		"RA_IMPOSTA": "",
		"TMC_G8":     "1234567",
	}
	for k, v := range overrides {
		rec[k] = v
	}
	return rec
}

func nfsColumns() []string {
	return []string{
		"C_NOME", "FAT_DATDOC", "FAT_NDOC", "FAT_DATREG", "FAT_PROT",
		"FAT_NUM", "IMPONIBILE", "FAT_TOTFAT", "FAT_TOTIVA",
		"RA_IMPON", "RA_CODTRIB", "RA_IMPOSTA", "TMC_G8",
	}
}

func TestProcessNFS(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: nfsColumns(),
		Rows: []ledger.Record{
			nfsRow(nil),
			nfsRow(map[string]any{
				"FAT_NUM": "F002", "FAT_NDOC": "F002", "FAT_PROT": "P",
				"FAT_DATREG": "2025-01-05", "TMC_G8": "", "RA_CODTRIB": "I9",
			}),
			// Duplicate of the first row by (FAT_NUM, C_NOME).
			nfsRow(map[string]any{"IMPONIBILE": "999,00"}),
			// Unknown protocol, excluded.
			nfsRow(map[string]any{"FAT_NUM": "F003", "FAT_PROT": "XX"}),
		},
	}

	res, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Stats.TotalRecords != 2 {
		t.Errorf("total = %d, want 2", res.Stats.TotalRecords)
	}
	if res.Stats.DuplicatesRemoved != 1 {
		t.Errorf("duplicates_removed = %d, want 1", res.Stats.DuplicatesRemoved)
	}
	if res.Stats.Fase2Records != 1 || res.Stats.Fase3Records != 1 {
		t.Errorf("fase2/fase3 = %d/%d, want 1/1", res.Stats.Fase2Records, res.Stats.Fase3Records)
	}
	if res.Stats.ProtocolsFase3["EP"] != 1 {
		t.Errorf("EP count = %d, want 1", res.Stats.ProtocolsFase3["EP"])
	}
	if res.Stats.ProtocolsFase3["EL"] != 0 {
		t.Errorf("EL count = %d, want 0 (all protocols reported)", res.Stats.ProtocolsFase3["EL"])
	}

	// Renamed schema, sorted by registration date ascending.
	first := res.Data.Rows[0]
	if got := first.String("Protocollo"); got != "P" {
		t.Errorf("first row protocol = %q, want P (sorted by Data Ricevimento)", got)
	}
	if _, ok := first.Time("Data Ricevimento"); !ok {
		t.Error("Data Ricevimento not parsed to a date")
	}
	if got := first.String("Rit. Codice Tributo"); got != "I9" {
		t.Errorf("withholding code = %q, want I9", got)
	}

	// First occurrence wins on duplicates.
	second := res.Data.Rows[1]
	if got := second.String("Tot. Imponibile"); got != "100,00" {
		t.Errorf("kept duplicate amount = %q, want 100,00", got)
	}

	if res.KeyColumn != "Identificativo SDI" {
		t.Errorf("key column = %q", res.KeyColumn)
	}
	if res.AmountColumn != "Tot. Imponibile" {
		t.Errorf("amount column = %q", res.AmountColumn)
	}
}

func TestProcessNFSWithholdingRecode(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: nfsColumns(),
		Rows: []ledger.Record{
			nfsRow(map[string]any{"RA_CODTRIB": "RO"}),
			nfsRow(map[string]any{"FAT_NUM": "F002", "RA_CODTRIB": "1040"}),
		},
	}

	res, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := res.Data.Rows[0].String("Rit. Codice Tributo"); got != "RO" {
		t.Errorf("allowed code = %q, want RO", got)
	}
	if got := res.Data.Rows[1].String("Rit. Codice Tributo"); got != "" {
		t.Errorf("disallowed code = %q, want empty", got)
	}
}

func TestProcessNFSMissingColumns(t *testing.T) {
	ds := &ledger.Dataset{Columns: []string{"C_NOME", "FAT_PROT"}}

	_, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	var schemaErr *ledger.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error type = %T, want *SchemaError", err)
	}
	if schemaErr.Side != ledger.SideNFS {
		t.Errorf("side = %q, want NFS", schemaErr.Side)
	}
	if len(schemaErr.Missing) != 11 {
		t.Errorf("missing = %d columns, want 11", len(schemaErr.Missing))
	}
}

// A garbage date never drops a row: it stays in the totals with a null date
// and sorts after every dated row.
func TestProcessNFSUnparseableDate(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: nfsColumns(),
		Rows: []ledger.Record{
			nfsRow(map[string]any{"FAT_NUM": "F002", "FAT_DATREG": "garbage"}),
			nfsRow(nil),
		},
	}

	res, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stats.TotalRecords != 2 {
		t.Errorf("total = %d, want 2 (bad date must not drop the row)", res.Stats.TotalRecords)
	}
	last := res.Data.Rows[1]
	if _, ok := last.Time("Data Ricevimento"); ok {
		t.Error("unparseable date should sort last as null")
	}
}

func TestProcessNFSNoValidRecords(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: nfsColumns(),
		Rows: []ledger.Record{
			nfsRow(map[string]any{"FAT_PROT": "XX"}),
		},
	}

	_, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	if !errors.Is(err, ledger.ErrNoValidRecords) {
		t.Fatalf("error = %v, want ErrNoValidRecords", err)
	}
}
