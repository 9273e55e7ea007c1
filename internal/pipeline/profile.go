package pipeline

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FieldMapping pairs a source column with the output name it is projected to.
// Order of the mappings is the order of the output schema.
type FieldMapping struct {
	Source string `yaml:"source"`
	Output string `yaml:"output"`
}

// ColumnPick selects a source column by spreadsheet position for exports that
// ship without stable headers. Rename is the output name; when empty, the
// source header found at that position is kept.
type ColumnPick struct {
	Letter string `yaml:"letter"`
	Rename string `yaml:"rename,omitempty"`
}

// Profile is the declarative configuration of one source pipeline: which
// columns are required, how they are selected and renamed, which hold dates
// and money, and how the category split is keyed. Exactly one of Output
// (header-named selection) or Picks (positional selection) is set.
type Profile struct {
	Name string `yaml:"name"`

	// Header-named selection (NFS-shaped exports).
	Required           []string       `yaml:"required_columns,omitempty"`
	Output             []FieldMapping `yaml:"output_columns,omitempty"`
	ProtocolColumn     string         `yaml:"protocol_column,omitempty"`
	DedupeColumns      []string       `yaml:"dedupe_columns,omitempty"`
	WithholdingColumn  string         `yaml:"withholding_column,omitempty"`
	WithholdingAllowed []string       `yaml:"withholding_allowed,omitempty"`

	// Positional selection (Pisa-shaped exports).
	Picks             []ColumnPick `yaml:"column_picks,omitempty"`
	PaymentDateLetter string       `yaml:"payment_date_letter,omitempty"`
	KeyLetter         string       `yaml:"key_letter,omitempty"`

	// Output-schema metadata, in post-rename names.
	DateColumns   []string `yaml:"date_columns,omitempty"`
	MoneyColumns  []string `yaml:"money_columns,omitempty"`
	SortColumn    string   `yaml:"sort_column,omitempty"`
	KeyColumn     string   `yaml:"key_column,omitempty"`
	InvoiceColumn string   `yaml:"invoice_column,omitempty"`
	// AmountColumns are the aggregate-amount candidates in preference order;
	// the first one present in the projected schema is used.
	AmountColumns []string `yaml:"amount_columns,omitempty"`
}

// Positional reports whether the profile selects columns by position.
func (p Profile) Positional() bool {
	return len(p.Picks) > 0
}

// IsDateColumn reports whether an output column holds dates. Positional
// profiles keep source headers for unrenamed columns, so any header naming a
// "data" is treated as a date as well.
func (p Profile) IsDateColumn(name string) bool {
	for _, c := range p.DateColumns {
		if c == name {
			return true
		}
	}
	return p.Positional() && strings.Contains(strings.ToLower(name), "data")
}

// NFSProfile returns the built-in configuration for the NFS ledger export.
func NFSProfile() Profile {
	return Profile{
		Name: "nfs",
		Required: []string{
			"C_NOME", "FAT_DATDOC", "FAT_NDOC", "FAT_DATREG", "FAT_PROT",
			"FAT_NUM", "IMPONIBILE", "FAT_TOTFAT", "FAT_TOTIVA",
			"RA_IMPON", "RA_CODTRIB", "RA_IMPOSTA", "TMC_G8",
		},
		Output: []FieldMapping{
			{Source: "C_NOME", Output: "Ragione Sociale"},
			{Source: "FAT_DATDOC", Output: "Data Fatture"},
			{Source: "FAT_NDOC", Output: "N. Fatture"},
			{Source: "FAT_DATREG", Output: "Data Ricevimento"},
			{Source: "FAT_PROT", Output: "Protocollo"},
			{Source: "FAT_NUM", Output: "N. Protocollo"},
			{Source: "FAT_TOTIVA", Output: "Imposta"},
			{Source: "IMPONIBILE", Output: "Tot. Imponibile"},
			{Source: "FAT_TOTFAT", Output: "Tot. Imp. Fatture"},
			{Source: "RA_CODTRIB", Output: "Rit. Codice Tributo"},
			{Source: "RA_IMPOSTA", Output: "Rit. Imposta"},
			{Source: "RA_IMPON", Output: "Rit. Imp."},
			{Source: "TMC_G8", Output: "Identificativo SDI"},
		},
		ProtocolColumn:     "FAT_PROT",
		DedupeColumns:      []string{"FAT_NUM", "C_NOME"},
		WithholdingColumn:  "RA_CODTRIB",
		WithholdingAllowed: []string{"I9", "RO"},
		DateColumns:        []string{"Data Fatture", "Data Ricevimento"},
		MoneyColumns: []string{
			"Imposta", "Tot. Imponibile", "Tot. Imp. Fatture",
			"Rit. Imposta", "Rit. Imp.",
		},
		SortColumn:    "Data Ricevimento",
		KeyColumn:     "Identificativo SDI",
		InvoiceColumn: "N. Fatture",
		AmountColumns: []string{"Tot. Imponibile"},
	}
}

// PisaProfile returns the built-in configuration for the Pisa payment export,
// which ships without stable headers and is read by position.
func PisaProfile() Profile {
	return Profile{
		Name: "pisa",
		Picks: []ColumnPick{
			{Letter: "H", Rename: "Ragione Sociale"},
			{Letter: "C"},
			{Letter: "D"},
			{Letter: "E"},
			{Letter: "F"},
			{Letter: "O"},
			{Letter: "L", Rename: "Imponibile"},
			{Letter: "J", Rename: "Imp.Tot. Fatture"},
			{Letter: "A"},
		},
		PaymentDateLetter: "F",
		KeyLetter:         "A",
		MoneyColumns:      []string{"Imponibile", "Imp.Tot. Fatture"},
		AmountColumns:     []string{"Importo Pagato", "Imponibile", "Imp.Tot. Fatture"},
	}
}

// LoadProfile reads a profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("parse profile %s: %w", path, err)
	}
	if err := p.check(); err != nil {
		return Profile{}, fmt.Errorf("invalid profile %s: %w", path, err)
	}
	return p, nil
}

func (p Profile) check() error {
	if len(p.Output) == 0 && len(p.Picks) == 0 {
		return fmt.Errorf("profile defines neither output_columns nor column_picks")
	}
	if len(p.Output) > 0 && len(p.Picks) > 0 {
		return fmt.Errorf("profile mixes header-named and positional selection")
	}
	for _, pick := range p.Picks {
		if _, err := LetterToIndex(pick.Letter); err != nil {
			return err
		}
	}
	return nil
}

// LetterToIndex converts a spreadsheet column letter ("A", "O", "AA") to its
// zero-based index.
func LetterToIndex(letter string) (int, error) {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if letter == "" {
		return 0, fmt.Errorf("empty column letter")
	}
	idx := 0
	for _, r := range letter {
		if r < 'A' || r > 'Z' {
			return 0, fmt.Errorf("invalid column letter %q", letter)
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1, nil
}
