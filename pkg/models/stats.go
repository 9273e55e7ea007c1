package models

// Stats summarizes a single-source transform run. All values are plain
// counts; the report emitter renders them without further computation.
type Stats struct {
	TotalRecords      int            `json:"total_records"`
	Fase2Records      int            `json:"fase2_records"`
	Fase3Records      int            `json:"fase3_records"`
	DuplicatesRemoved int            `json:"duplicates_removed"`
	ProtocolsFase2    map[string]int `json:"protocols_fase2"`
	ProtocolsFase3    map[string]int `json:"protocols_fase3"`
}

// CategoryTotal is a record count plus the 2-decimal-rounded sum of the
// category's designated amount column.
type CategoryTotal struct {
	Count  int     `json:"count"`
	Amount float64 `json:"imponibile"`
}

// SideSummary holds the per-category aggregates for one source within the
// reporting period, plus their combined total.
type SideSummary struct {
	Cartacee     CategoryTotal `json:"cartacee"`
	Elettroniche CategoryTotal `json:"elettroniche"`
	Total        CategoryTotal `json:"total"`
}

// CompareSummary is the cross-source aggregate block of a reconciliation run.
type CompareSummary struct {
	Period string      `json:"period"`
	NFS    SideSummary `json:"nfs"`
	Pisa   SideSummary `json:"pisa"`
}

// Outcome labels assigned to keys on the "to verify" sheet, in priority
// order: a one-sided key is labeled before an amount mismatch, an amount
// mismatch before a count mismatch.
const (
	OutcomeOnlyNFS        = "only NFS"
	OutcomeOnlyPisa       = "only Pisa"
	OutcomeAmountMismatch = "amount mismatch"
	OutcomeCountMismatch  = "count mismatch"
)

// VerifyRow is one flagged key on the "to verify" sheet: its per-side counts
// and amount sums plus the computed outcome label.
type VerifyRow struct {
	Key        string  `json:"key"`
	NFSCount   int     `json:"nfs_count"`
	NFSAmount  float64 `json:"nfs_amount"`
	PisaCount  int     `json:"pisa_count"`
	PisaAmount float64 `json:"pisa_amount"`
	Outcome    string  `json:"outcome"`
}

// DeltaRow is one key present exactly once on each side within the
// electronic category whose amounts differ beyond the tolerance.
type DeltaRow struct {
	Key        string  `json:"key"`
	NFSAmount  float64 `json:"nfs_amount"`
	PisaAmount float64 `json:"pisa_amount"`
	Delta      float64 `json:"delta"`
}

// MonthRow reports where a Pisa-only key actually appears in the full NFS
// ledger: every calendar month with at least one occurrence and the earliest
// registration date found. These are likely timing mismatches rather than
// true discrepancies.
type MonthRow struct {
	Key       string   `json:"key"`
	Months    []string `json:"months"`
	FirstSeen string   `json:"first_seen"`
}
