package ledger_test

import (
	"testing"

	"nfsft/internal/ledger"
)

func TestDeduplicate(t *testing.T) {
	ds := ledger.NewDataset(
		[]string{"FAT_NUM", "C_NOME", "IMPONIBILE"},
		[][]string{
			{"F001", "ACME", "100"},
			{"F002", "ACME", "200"},
			{"F001", "ACME", "999"},
			{"F001", "OTHER", "300"},
		},
	)

	out, removed := ledger.Deduplicate(ds, []string{"FAT_NUM", "C_NOME"})

	if removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if len(out.Rows) != 3 {
		t.Fatalf("len(rows) = %d, want 3", len(out.Rows))
	}
	// First occurrence wins.
	if got := out.Rows[0].String("IMPONIBILE"); got != "100" {
		t.Errorf("kept row amount = %q, want %q", got, "100")
	}
	// Same invoice number under another counterparty is not a duplicate.
	if got := out.Rows[2].String("C_NOME"); got != "OTHER" {
		t.Errorf("third row counterparty = %q, want %q", got, "OTHER")
	}
}

func TestDeduplicateNumericTextEquivalence(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: []string{"FAT_NUM", "C_NOME"},
		Rows: []ledger.Record{
			{"FAT_NUM": "123", "C_NOME": "ACME"},
			{"FAT_NUM": float64(123), "C_NOME": "ACME"},
		},
	}

	out, removed := ledger.Deduplicate(ds, []string{"FAT_NUM", "C_NOME"})
	if removed != 1 || len(out.Rows) != 1 {
		t.Fatalf("removed = %d, rows = %d; want 1 and 1", removed, len(out.Rows))
	}
}
