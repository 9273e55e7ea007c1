package ledger_test

import (
	"testing"

	"nfsft/internal/ledger"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code string
		want ledger.Category
	}{
		{"paper P", "P", ledger.CategoryPaper},
		{"paper FCBI", "FCBI", ledger.CategoryPaper},
		{"electronic EP", "EP", ledger.CategoryElectronic},
		{"electronic ACSE", "ACSE", ledger.CategoryElectronic},
		{"trimmed", "  EP  ", ledger.CategoryElectronic},
		{"unknown", "XX", ledger.CategoryInvalid},
		{"empty", "", ledger.CategoryInvalid},
		{"lowercase not accepted", "ep", ledger.CategoryInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.Classify(tt.code); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

// The two protocol sets must stay disjoint: a code classifying both ways
// would double-count rows in every summary.
func TestProtocolSetsDisjoint(t *testing.T) {
	paper := make(map[string]struct{}, len(ledger.Fase2Protocols))
	for _, code := range ledger.Fase2Protocols {
		paper[code] = struct{}{}
	}
	for _, code := range ledger.Fase3Protocols {
		if _, ok := paper[code]; ok {
			t.Errorf("protocol %q appears in both sets", code)
		}
	}
}

func TestDescribe(t *testing.T) {
	for _, code := range ledger.Fase2Protocols {
		if ledger.Describe(code) == "" {
			t.Errorf("Describe(%q) is empty", code)
		}
	}
	for _, code := range ledger.Fase3Protocols {
		if ledger.Describe(code) == "" {
			t.Errorf("Describe(%q) is empty", code)
		}
	}
	if got := ledger.Describe("XX"); got != "" {
		t.Errorf("Describe(unknown) = %q, want empty", got)
	}
}
