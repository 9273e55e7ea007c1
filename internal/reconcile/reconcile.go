package reconcile

import (
	"math"
	"sort"
	"time"

	"nfsft/internal/ledger"
	"nfsft/internal/logger"
	"nfsft/internal/pipeline"
	"nfsft/pkg/models"
)

// DefaultTolerance is the amount difference below which two sides are
// considered to agree, in currency units.
const DefaultTolerance = 0.01

// Options configures a reconciliation run.
type Options struct {
	NFS       pipeline.Profile
	Pisa      pipeline.Profile
	Tolerance float64
	// KeyMode is applied identically to both sides of every join; asymmetric
	// normalization would fabricate discrepancies.
	KeyMode ledger.KeyMode
}

// DefaultOptions returns the built-in profiles with the strict key rule used
// for cross-source joins.
func DefaultOptions() Options {
	return Options{
		NFS:       pipeline.NFSProfile(),
		Pisa:      pipeline.PisaProfile(),
		Tolerance: DefaultTolerance,
		KeyMode:   ledger.KeyStrict,
	}
}

type keyAgg struct {
	count  int
	amount float64
}

// Reconcile cross-references the two ledgers within the reporting period:
// transforms each side with its own profile, restricts both to the period,
// computes per-side per-category aggregates, and builds the discrepancy
// sheets (to-verify grouping, one-sided electronic rows, common-key amount
// deltas, Pisa-only month lookup).
func Reconcile(nfsDS, pisaDS *ledger.Dataset, period ledger.Period, opts Options) (*Result, error) {
	log := logger.WithComponent("reconcile")

	nfsRes, err := pipeline.ProcessNFS(nfsDS, opts.NFS, ledger.SideNFS)
	if err != nil {
		return nil, err
	}
	pisaRes, err := pipeline.ProcessPisa(pisaDS, opts.Pisa, ledger.SidePisa, nil)
	if err != nil {
		return nil, err
	}

	nfsPeriod := periodFilter(nfsRes.Data, nfsRes.DateColumn, period)
	pisaPeriod := periodFilter(pisaRes.Data, pisaRes.DateColumn, period)

	// NFS categories are protocol-driven; the Pisa export carries no
	// protocol column, so its split follows identifier presence.
	nfsCart := nfsPeriod.Filter(func(rec ledger.Record) bool {
		return ledger.Classify(rec.String("Protocollo")) == ledger.CategoryPaper
	})
	nfsElec := nfsPeriod.Filter(func(rec ledger.Record) bool {
		return ledger.Classify(rec.String("Protocollo")) == ledger.CategoryElectronic
	})
	pisaCart := pisaPeriod.Filter(func(rec ledger.Record) bool {
		return ledger.NormalizeKey(rec[pisaRes.KeyColumn], ledger.KeyLoose) == ""
	})
	pisaElec := pisaPeriod.Filter(func(rec ledger.Record) bool {
		return ledger.NormalizeKey(rec[pisaRes.KeyColumn], ledger.KeyLoose) != ""
	})

	res := &Result{Period: period}
	res.Summary = models.CompareSummary{
		Period: period.Label(),
		NFS:    sideSummary(nfsCart, nfsElec, nfsRes.KeyColumn, nfsRes.AmountColumn, opts.KeyMode),
		Pisa:   sideSummary(pisaCart, pisaElec, pisaRes.KeyColumn, pisaRes.AmountColumn, opts.KeyMode),
	}

	res.ToVerify = buildToVerify(nfsPeriod, pisaPeriod, nfsRes, pisaRes, opts)

	nfsByKey := groupByKey(nfsElec, nfsRes.KeyColumn, nfsRes.AmountColumn, opts.KeyMode)
	pisaByKey := groupByKey(pisaElec, pisaRes.KeyColumn, pisaRes.AmountColumn, opts.KeyMode)

	res.PisaOnly = oneSidedRows(pisaElec, pisaRes, nfsByKey, opts.KeyMode)
	res.NFSOnly = oneSidedRows(nfsElec, nfsRes, pisaByKey, opts.KeyMode)
	res.NFSNoKey = nfsElec.Filter(func(rec ledger.Record) bool {
		return ledger.NormalizeKey(rec[nfsRes.KeyColumn], opts.KeyMode) == ""
	})

	res.AmountDeltas = buildAmountDeltas(nfsByKey, pisaByKey, opts.Tolerance)
	res.PisaOnlyMonths = buildPisaOnlyMonths(res.PisaOnly, pisaRes, nfsRes, opts.KeyMode)

	log.Info().
		Str("period", period.Label()).
		Int("to_verify", len(res.ToVerify)).
		Int("pisa_only", len(res.PisaOnly.Rows)).
		Int("nfs_only", len(res.NFSOnly.Rows)).
		Int("nfs_no_key", len(res.NFSNoKey.Rows)).
		Int("amount_deltas", len(res.AmountDeltas)).
		Msg("Reconciliation completed")

	return res, nil
}

// periodFilter keeps rows whose date cell parses and falls inside the
// period. Unparseable dates are excluded from the period, never defaulted
// into it.
func periodFilter(ds *ledger.Dataset, dateColumn string, period ledger.Period) *ledger.Dataset {
	return ds.Filter(func(rec ledger.Record) bool {
		t, ok := ledger.ParseDate(rec[dateColumn])
		return ok && period.Contains(t)
	})
}

// sideSummary computes the per-category aggregates for one side. Paper
// counts are row counts; electronic counts are distinct non-empty keys, so a
// payment split across rows is still one invoice.
func sideSummary(cart, elec *ledger.Dataset, keyColumn, amountColumn string, mode ledger.KeyMode) models.SideSummary {
	cartTotal := models.CategoryTotal{
		Count:  len(cart.Rows),
		Amount: ledger.SumAmounts(cart, amountColumn),
	}
	elecTotal := models.CategoryTotal{
		Count:  distinctKeys(elec, keyColumn, mode),
		Amount: ledger.SumAmounts(elec, amountColumn),
	}
	return models.SideSummary{
		Cartacee:     cartTotal,
		Elettroniche: elecTotal,
		Total: models.CategoryTotal{
			Count:  cartTotal.Count + elecTotal.Count,
			Amount: ledger.Round2(cartTotal.Amount + elecTotal.Amount),
		},
	}
}

func distinctKeys(ds *ledger.Dataset, keyColumn string, mode ledger.KeyMode) int {
	seen := make(map[string]struct{})
	for _, rec := range ds.Rows {
		if k := ledger.NormalizeKey(rec[keyColumn], mode); k != "" {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

func groupByKey(ds *ledger.Dataset, keyColumn, amountColumn string, mode ledger.KeyMode) map[string]keyAgg {
	groups := make(map[string]keyAgg)
	for _, rec := range ds.Rows {
		k := ledger.NormalizeKey(rec[keyColumn], mode)
		if k == "" {
			continue
		}
		agg := groups[k]
		agg.count++
		agg.amount += ledger.ParseAmount(rec[amountColumn])
		groups[k] = agg
	}
	return groups
}

// buildToVerify groups both full period-restricted sides by key and flags
// one-sided keys, count mismatches and amount mismatches, labeling each with
// the highest-priority applicable outcome.
func buildToVerify(nfsPeriod, pisaPeriod *ledger.Dataset, nfsRes, pisaRes *pipeline.Result, opts Options) []models.VerifyRow {
	nfsByKey := groupByKey(nfsPeriod, nfsRes.KeyColumn, nfsRes.AmountColumn, opts.KeyMode)
	pisaByKey := groupByKey(pisaPeriod, pisaRes.KeyColumn, pisaRes.AmountColumn, opts.KeyMode)

	keys := make(map[string]struct{}, len(nfsByKey)+len(pisaByKey))
	for k := range nfsByKey {
		keys[k] = struct{}{}
	}
	for k := range pisaByKey {
		keys[k] = struct{}{}
	}

	var rows []models.VerifyRow
	for k := range keys {
		n, nOK := nfsByKey[k]
		p, pOK := pisaByKey[k]

		var outcome string
		switch {
		case !pOK:
			outcome = models.OutcomeOnlyNFS
		case !nOK:
			outcome = models.OutcomeOnlyPisa
		case amountsDiffer(n.amount, p.amount, opts.Tolerance):
			outcome = models.OutcomeAmountMismatch
		case n.count != p.count:
			outcome = models.OutcomeCountMismatch
		default:
			continue
		}

		rows = append(rows, models.VerifyRow{
			Key:        k,
			NFSCount:   n.count,
			NFSAmount:  ledger.Round2(n.amount),
			PisaCount:  p.count,
			PisaAmount: ledger.Round2(p.amount),
			Outcome:    outcome,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Outcome != rows[j].Outcome {
			return rows[i].Outcome < rows[j].Outcome
		}
		return rows[i].Key < rows[j].Key
	})
	return rows
}

// amountsDiffer compares 2-decimal-rounded sums against the tolerance. A
// difference of exactly the tolerance still agrees.
func amountsDiffer(a, b, tolerance float64) bool {
	diff := math.Abs(ledger.Round2(a) - ledger.Round2(b))
	return diff > tolerance+1e-9
}

// oneSidedRows returns one representative row per key present in ds but
// absent from the other side's key groups. When a key occurs several times,
// the earliest-dated row wins, tie-broken by invoice number so reruns emit
// identical sheets.
func oneSidedRows(ds *ledger.Dataset, res *pipeline.Result, other map[string]keyAgg, mode ledger.KeyMode) *ledger.Dataset {
	best := make(map[string]ledger.Record)
	order := make([]string, 0)

	for _, rec := range ds.Rows {
		k := ledger.NormalizeKey(rec[res.KeyColumn], mode)
		if k == "" {
			continue
		}
		if _, shared := other[k]; shared {
			continue
		}
		current, ok := best[k]
		if !ok {
			best[k] = rec
			order = append(order, k)
			continue
		}
		if earlierRow(rec, current, res.DateColumn, res.InvoiceColumn) {
			best[k] = rec
		}
	}

	out := &ledger.Dataset{Columns: ds.Columns}
	for _, k := range order {
		out.Rows = append(out.Rows, best[k])
	}
	return out
}

func earlierRow(a, b ledger.Record, dateColumn, invoiceColumn string) bool {
	ta, aOK := ledger.ParseDate(a[dateColumn])
	tb, bOK := ledger.ParseDate(b[dateColumn])
	switch {
	case aOK && !bOK:
		return true
	case !aOK && bOK:
		return false
	case aOK && bOK && !ta.Equal(tb):
		return ta.Before(tb)
	}
	if invoiceColumn != "" {
		return a.String(invoiceColumn) < b.String(invoiceColumn)
	}
	return false
}

// buildAmountDeltas compares keys present exactly once on each side within
// the electronic category and keeps those whose rounded amounts differ
// beyond the tolerance.
func buildAmountDeltas(nfsByKey, pisaByKey map[string]keyAgg, tolerance float64) []models.DeltaRow {
	var rows []models.DeltaRow
	for k, n := range nfsByKey {
		p, ok := pisaByKey[k]
		if !ok || n.count != 1 || p.count != 1 {
			continue
		}
		nAmount := ledger.Round2(n.amount)
		pAmount := ledger.Round2(p.amount)
		delta := ledger.Round2(nAmount - pAmount)
		if math.Abs(delta) <= tolerance+1e-9 {
			continue
		}
		rows = append(rows, models.DeltaRow{
			Key:        k,
			NFSAmount:  nAmount,
			PisaAmount: pAmount,
			Delta:      delta,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}

// buildPisaOnlyMonths looks up each Pisa-only key across the entire NFS
// dataset, ignoring the reporting period, and reports the months in which
// it appears. A key registered in a neighboring month is a timing mismatch,
// not a missing invoice.
func buildPisaOnlyMonths(pisaOnly *ledger.Dataset, pisaRes, nfsRes *pipeline.Result, mode ledger.KeyMode) []models.MonthRow {
	type nfsHit struct {
		months map[string]struct{}
		first  time.Time
	}

	hits := make(map[string]*nfsHit)
	for _, rec := range nfsRes.Data.Rows {
		k := ledger.NormalizeKey(rec[nfsRes.KeyColumn], mode)
		if k == "" {
			continue
		}
		t, ok := ledger.ParseDate(rec[nfsRes.DateColumn])
		if !ok {
			continue
		}
		h := hits[k]
		if h == nil {
			h = &nfsHit{months: make(map[string]struct{}), first: t}
			hits[k] = h
		}
		h.months[t.Format("2006-01")] = struct{}{}
		if t.Before(h.first) {
			h.first = t
		}
	}

	var rows []models.MonthRow
	for _, rec := range pisaOnly.Rows {
		k := ledger.NormalizeKey(rec[pisaRes.KeyColumn], mode)
		h, ok := hits[k]
		if !ok {
			continue
		}
		months := make([]string, 0, len(h.months))
		for m := range h.months {
			months = append(months, m)
		}
		sort.Strings(months)
		rows = append(rows, models.MonthRow{
			Key:       k,
			Months:    months,
			FirstSeen: h.first.Format("2006-01-02"),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
	return rows
}
