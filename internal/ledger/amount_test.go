package ledger_test

import (
	"math"
	"testing"

	"nfsft/internal/ledger"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"plain", "1234.56", 1234.56},
		{"comma decimal", "1234,56", 1234.56},
		{"thousands and comma", "1.234,56", 1234.56},
		{"euro suffix", "1234,56€", 1234.56},
		{"euro prefix", "€ 1234,56", 1234.56},
		{"negative", "-1234,56", -1234.56},
		{"float64", 1234.56, 1234.56},
		{"int", 1234, 1234},
		{"garbage", "n/a", 0},
		{"nan", math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.ParseAmount(tt.raw); got != tt.want {
				t.Errorf("ParseAmount(%v) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{1.006, 1.01},
		{1.004, 1.0},
		{-1.006, -1.01},
		{0, 0},
		{100.129999, 100.13},
	}
	for _, tt := range tests {
		if got := ledger.Round2(tt.in); got != tt.want {
			t.Errorf("Round2(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSumAmounts(t *testing.T) {
	ds := &ledger.Dataset{
		Columns: []string{"Imponibile"},
		Rows: []ledger.Record{
			{"Imponibile": "100,10"},
			{"Imponibile": 200.2},
			{"Imponibile": "n/a"},
			{"Imponibile": nil},
		},
	}
	if got := ledger.SumAmounts(ds, "Imponibile"); got != 300.3 {
		t.Errorf("SumAmounts = %v, want 300.3", got)
	}
}
