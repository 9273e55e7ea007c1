package ledger_test

import (
	"errors"
	"testing"

	"nfsft/internal/ledger"
)

func TestValidateColumns(t *testing.T) {
	ds := &ledger.Dataset{Columns: []string{"A", "B"}}

	if err := ledger.ValidateColumns(ds, []string{"A", "B"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := ledger.ValidateColumns(ds, []string{"A", "C", "D"})
	var schemaErr *ledger.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("error type = %T, want *SchemaError", err)
	}
	// Every missing column is reported, not just the first.
	if len(schemaErr.Missing) != 2 || schemaErr.Missing[0] != "C" || schemaErr.Missing[1] != "D" {
		t.Errorf("missing = %v, want [C D]", schemaErr.Missing)
	}
}

func TestQualifySide(t *testing.T) {
	err := ledger.QualifySide(&ledger.SchemaError{Missing: []string{"X"}}, ledger.SideNFS)
	var schemaErr *ledger.SchemaError
	if !errors.As(err, &schemaErr) || schemaErr.Side != ledger.SideNFS {
		t.Errorf("side = %q, want %q", schemaErr.Side, ledger.SideNFS)
	}

	noValid := ledger.QualifySide(&ledger.NoValidRecordsError{}, ledger.SidePisa)
	if !errors.Is(noValid, ledger.ErrNoValidRecords) {
		t.Error("qualified error no longer matches ErrNoValidRecords")
	}
}
