package reconcile

import (
	"nfsft/internal/ledger"
	"nfsft/pkg/models"
)

// Result holds everything a reconciliation run produces. It is built fresh
// per run and never mutated after construction; the report emitter consumes
// it read-only.
type Result struct {
	Period  ledger.Period
	Summary models.CompareSummary

	// ToVerify lists every key flagged as one-sided, count-mismatched or
	// amount-mismatched, sorted by outcome label then key.
	ToVerify []models.VerifyRow

	// PisaOnly and NFSOnly hold one representative electronic row per key
	// present on only one side. NFSNoKey lists NFS electronic rows whose
	// identifier is empty and which therefore cannot be matched at all.
	PisaOnly *ledger.Dataset
	NFSOnly  *ledger.Dataset
	NFSNoKey *ledger.Dataset

	// AmountDeltas lists keys present exactly once on each side within the
	// electronic category whose amounts differ beyond the tolerance.
	AmountDeltas []models.DeltaRow

	// PisaOnlyMonths reports, for each Pisa-only key, the months in which it
	// appears anywhere in the full NFS ledger.
	PisaOnlyMonths []models.MonthRow
}
