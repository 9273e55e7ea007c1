package ledger_test

import (
	"testing"

	"nfsft/internal/ledger"
)

func TestNormalizeKeyLoose(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"nil", nil, ""},
		{"empty string", "", ""},
		{"whitespace only", "   ", ""},
		{"plain digits", "1234567", "1234567"},
		{"trimmed", "  1234567  ", "1234567"},
		{"trailing zero fraction", "1234567.0", "1234567"},
		{"long zero fraction", "1234567.000", "1234567"},
		{"integral float", float64(1234567), "1234567"},
		{"integral float with fraction bits", 1234567.0, "1234567"},
		{"int", 1234567, "1234567"},
		{"nan literal", "NaN", ""},
		{"none literal", "None", ""},
		{"null literal", "null", ""},
		{"all zeros", "000", ""},
		{"zero with fraction", "0.0", ""},
		{"alphanumeric kept", "IT-1234567", "IT-1234567"},
		{"short value kept", "12", "12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.NormalizeKey(tt.raw, ledger.KeyLoose); got != tt.want {
				t.Errorf("NormalizeKey(%v, KeyLoose) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeKeyStrict(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want string
	}{
		{"plain digits", "1234567", "1234567"},
		{"punctuation stripped", "IT-123.4567/X", "1234567"},
		{"spaces stripped", "12 34 56 7", "1234567"},
		{"too short after stripping", "IT-12", ""},
		{"exactly min length", "1234", "1234"},
		{"one below min length", "123", ""},
		{"letters only", "ABCDEF", ""},
		{"all zeros", "0000000", ""},
		{"float form", "1234567.0", "1234567"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ledger.NormalizeKey(tt.raw, ledger.KeyStrict); got != tt.want {
				t.Errorf("NormalizeKey(%v, KeyStrict) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

// Numerically equal representations of the same identifier must produce the
// same key on both sides of a join.
func TestNormalizeKeyNumericEquivalence(t *testing.T) {
	forms := []any{"1234567", "1234567.0", " 1234567 ", float64(1234567), 1234567, int64(1234567)}
	for _, mode := range []ledger.KeyMode{ledger.KeyLoose, ledger.KeyStrict} {
		want := ledger.NormalizeKey(forms[0], mode)
		for _, form := range forms[1:] {
			if got := ledger.NormalizeKey(form, mode); got != want {
				t.Errorf("mode %v: NormalizeKey(%#v) = %q, want %q", mode, form, got, want)
			}
		}
	}
}
