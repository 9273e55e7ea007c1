package ledger

import "strings"

// Category is the processing channel of an invoice protocol.
type Category string

const (
	// CategoryPaper covers the Fase2 paper-submission protocols ("cartacee").
	CategoryPaper Category = "cartacee"
	// CategoryElectronic covers the Fase3 electronic protocols ("elettroniche").
	CategoryElectronic Category = "elettroniche"
	// CategoryInvalid marks a code outside both closed sets; such rows are
	// excluded from all downstream aggregation.
	CategoryInvalid Category = ""
)

// Fase2Protocols is the closed set of paper protocol codes.
var Fase2Protocols = []string{"P", "2P", "LABI", "FCBI", "FCSI", "FCBE", "FCSE"}

// Fase3Protocols is the closed set of electronic protocol codes.
var Fase3Protocols = []string{
	"EP", "2EP", "EL", "2EL", "EZ", "2EZ", "EZP",
	"FPIC", "FSIC", "FPEC", "FSEC",
	"AFIC", "ASIC", "AFEC", "ASEC",
	"ACBI", "ACSI", "ACBE", "ACSE",
}

// Fase2Descriptions maps each paper protocol to its ledger description.
var Fase2Descriptions = map[string]string{
	"P":    "Fatture Cartacee San",
	"2P":   "Fatture Cartacee Ter",
	"LABI": "Fatture Lib.Prof. San",
	"FCBI": "Fatture Cartacee Estere San",
	"FCSI": "Fatture Cartacee Estere San",
	"FCBE": "Fatture Cartacee Estere San",
	"FCSE": "Fatture Cartacee Estere San",
}

// Fase3Descriptions maps each electronic protocol to its ledger description.
var Fase3Descriptions = map[string]string{
	"EP":   "Fatture Elettroniche San",
	"2EP":  "Fatture Elettroniche Ter",
	"EL":   "Fatture Elettroniche Lib.Prof. San",
	"2EL":  "Fatture Elettroniche Lib.Prof. Ter",
	"EZ":   "Fatture Elettroniche Commerciali San",
	"2EZ":  "Fatture Elettroniche Commerciali Ter",
	"EZP":  "Fatture Elettroniche Commerciali San",
	"FPIC": "Fatture Elettroniche Estere San",
	"FSIC": "Fatture Elettroniche Estere San",
	"FPEC": "Fatture Elettroniche Estere San",
	"FSEC": "Fatture Elettroniche Estere San",
	"AFIC": "Fatture Elettroniche Estere San",
	"ASIC": "Fatture Elettroniche Estere San",
	"AFEC": "Fatture Elettroniche Estere San",
	"ASEC": "Fatture Elettroniche Estere San",
	"ACBI": "Fatture Elettroniche Estere San",
	"ACSI": "Fatture Elettroniche Estere San",
	"ACBE": "Fatture Elettroniche Estere San",
	"ACSE": "Fatture Elettroniche Estere San",
}

var (
	fase2Set = protocolSet(Fase2Protocols)
	fase3Set = protocolSet(Fase3Protocols)
)

func protocolSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

// Classify maps a protocol code to its category. The code is trimmed and
// compared case-sensitively against the two closed sets.
func Classify(code string) Category {
	code = strings.TrimSpace(code)
	if _, ok := fase2Set[code]; ok {
		return CategoryPaper
	}
	if _, ok := fase3Set[code]; ok {
		return CategoryElectronic
	}
	return CategoryInvalid
}

// Describe returns the human-readable description for a protocol code, or ""
// for codes outside both sets.
func Describe(code string) string {
	code = strings.TrimSpace(code)
	if d, ok := Fase2Descriptions[code]; ok {
		return d
	}
	if d, ok := Fase3Descriptions[code]; ok {
		return d
	}
	return ""
}
