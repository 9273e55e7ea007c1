package xlsx_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"nfsft/internal/ledger"
	"nfsft/internal/pipeline"
	"nfsft/internal/reconcile"
	"nfsft/internal/xlsx"
)

func writeWorkbook(t *testing.T, rows [][]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadDataset(t *testing.T) {
	path := writeWorkbook(t, [][]any{
		{"", "", ""},
		{"FAT_NUM", "C_NOME", "IMPONIBILE"},
		{"F001", "ACME", "100,00"},
		{"", "", ""},
		{"F002", "Beta"},
	})

	ds, err := xlsx.ReadDataset(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Leading blank row skipped, header found, blank data rows dropped.
	if len(ds.Columns) != 3 || ds.Columns[0] != "FAT_NUM" {
		t.Errorf("columns = %v", ds.Columns)
	}
	if len(ds.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(ds.Rows))
	}
	if got := ds.Rows[0].String("C_NOME"); got != "ACME" {
		t.Errorf("first row name = %q, want ACME", got)
	}
	// Short rows are padded.
	if got := ds.Rows[1].String("IMPONIBILE"); got != "" {
		t.Errorf("padded cell = %q, want empty", got)
	}
}

func TestReadDatasetErrors(t *testing.T) {
	path := writeWorkbook(t, [][]any{{"A"}})

	if _, err := xlsx.ReadDataset(path, "NoSuchSheet"); err == nil {
		t.Error("expected error for unknown sheet")
	} else {
		var notFound *xlsx.SheetNotFoundError
		if !errors.As(err, &notFound) {
			t.Errorf("error type = %T, want *SheetNotFoundError", err)
		}
	}

	empty := writeWorkbook(t, nil)
	if _, err := xlsx.ReadDataset(empty, ""); !errors.Is(err, xlsx.ErrEmptySheet) {
		t.Errorf("error = %v, want ErrEmptySheet", err)
	}
}

func nfsFixture(t *testing.T) *pipeline.Result {
	t.Helper()
	ds := &ledger.Dataset{
		Columns: []string{
			"C_NOME", "FAT_DATDOC", "FAT_NDOC", "FAT_DATREG", "FAT_PROT",
			"FAT_NUM", "IMPONIBILE", "FAT_TOTFAT", "FAT_TOTIVA",
			"RA_IMPON", "RA_CODTRIB", "RA_IMPOSTA", "TMC_G8",
		},
		Rows: []ledger.Record{{
			"C_NOME": "ACME", "FAT_DATDOC": "2025-01-10", "FAT_NDOC": "F001",
			"FAT_DATREG": "2025-01-15", "FAT_PROT": "EP", "FAT_NUM": "F001",
			"IMPONIBILE": "100,00", "FAT_TOTFAT": "122,00", "FAT_TOTIVA": "22,00",
			"RA_IMPON": "", "RA_CODTRIB": "", "RA_IMPOSTA": "", "TMC_G8": "1234567",
		}},
	}
	res, err := pipeline.ProcessNFS(ds, pipeline.NFSProfile(), ledger.SideNFS)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestWriteNFSReport(t *testing.T) {
	res := nfsFixture(t)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	if err := xlsx.WriteNFSReport(path, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	for _, sheet := range []string{xlsx.SheetData, xlsx.SheetCartacee, xlsx.SheetElettroniche} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("sheet %q missing", sheet)
		}
	}

	// Header row plus one data row plus TOTALE.
	rows, err := f.GetRows(xlsx.SheetData)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("data sheet rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Ragione Sociale" {
		t.Errorf("header = %q, want Ragione Sociale", rows[0][0])
	}
	if rows[2][0] != "TOTALE" {
		t.Errorf("last row label = %q, want TOTALE", rows[2][0])
	}

	// The protocol summary carries descriptions for every code.
	summary, err := f.GetRows(xlsx.SheetElettroniche)
	if err != nil {
		t.Fatal(err)
	}
	if len(summary) != len(ledger.Fase3Protocols)+2 {
		t.Errorf("summary rows = %d, want %d", len(summary), len(ledger.Fase3Protocols)+2)
	}
	if summary[1][0] != "EP" || summary[1][1] == "" {
		t.Errorf("first summary row = %v, want EP with description", summary[1])
	}
}

func TestWriteCompareReport(t *testing.T) {
	nfsDS := &ledger.Dataset{
		Columns: []string{
			"C_NOME", "FAT_DATDOC", "FAT_NDOC", "FAT_DATREG", "FAT_PROT",
			"FAT_NUM", "IMPONIBILE", "FAT_TOTFAT", "FAT_TOTIVA",
			"RA_IMPON", "RA_CODTRIB", "RA_IMPOSTA", "TMC_G8",
		},
		Rows: []ledger.Record{{
			"C_NOME": "ACME", "FAT_DATDOC": "2025-01-10", "FAT_NDOC": "F001",
			"FAT_DATREG": "2025-01-15", "FAT_PROT": "EP", "FAT_NUM": "F001",
			"IMPONIBILE": "100,00", "FAT_TOTFAT": "122,00", "FAT_TOTIVA": "22,00",
			"RA_IMPON": "", "RA_CODTRIB": "", "RA_IMPOSTA": "", "TMC_G8": "1111111",
		}},
	}
	pisaHeader := []string{
		"Identificativo SDI", "Anno", "Numero Fattura", "Data Fattura",
		"Data Ricezione", "Data Pagamento", "Registro", "Fornitore", "CIG",
		"Totale Documento", "Aliquota", "Importo Netto", "Stato", "Ufficio",
		"Importo Pagato",
	}
	pisaRec := make(ledger.Record, len(pisaHeader))
	for _, c := range pisaHeader {
		pisaRec[c] = ""
	}
	pisaRec["Identificativo SDI"] = "2222222"
	pisaRec["Data Pagamento"] = "2025-01-20"
	pisaRec["Fornitore"] = "Beta"
	pisaRec["Importo Pagato"] = "50,00"
	pisaDS := &ledger.Dataset{Columns: pisaHeader, Rows: []ledger.Record{pisaRec}}

	period, err := ledger.ParsePeriod("2025-01")
	if err != nil {
		t.Fatal(err)
	}
	res, err := reconcile.Reconcile(nfsDS, pisaDS, period, reconcile.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "compare.xlsx")
	if err := xlsx.WriteCompareReport(path, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	want := []string{
		"Confronto 2025-01", xlsx.SheetToVerify, xlsx.SheetPisaOnly,
		xlsx.SheetNFSOnly, xlsx.SheetNFSNoKey, xlsx.SheetDeltas, xlsx.SheetMonths,
	}
	for _, sheet := range want {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("sheet %q missing", sheet)
		}
	}

	verify, err := f.GetRows(xlsx.SheetToVerify)
	if err != nil {
		t.Fatal(err)
	}
	// One only-NFS key and one only-Pisa key.
	if len(verify) != 3 {
		t.Fatalf("to-verify rows = %d, want 3", len(verify))
	}
	if verify[1][5] != "only NFS" || verify[2][5] != "only Pisa" {
		t.Errorf("outcomes = %q, %q", verify[1][5], verify[2][5])
	}
}
