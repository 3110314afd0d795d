package classify

import (
	"github.com/shopspring/decimal"

	"resultsift/internal/ingest"
)

var hundred = decimal.NewFromInt(100)

// Metrics holds the cross-period quantities derived from one snapshot.
// Lifetime-bound to a single classification pass.
type Metrics struct {
	// CoreProfit is net profit minus other income, position-wise; nil
	// wherever either operand is missing.
	CoreProfit ingest.Series

	SalesGood      bool
	ProfitGood     bool
	BestMargins    bool
	BorrowingsDown bool
}

// PctChange returns (curr-prev)/prev*100, or nil when curr is missing or
// prev is missing or zero.
func PctChange(curr, prev *decimal.Decimal) *decimal.Decimal {
	if curr == nil || prev == nil || prev.IsZero() {
		return nil
	}
	change := curr.Sub(*prev).Div(*prev).Mul(hundred)
	return &change
}

// CoreProfit subtracts other income from net profit at every position.
func CoreProfit(netProfit, otherIncome ingest.Series) ingest.Series {
	n := len(netProfit)
	if len(otherIncome) < n {
		n = len(otherIncome)
	}
	core := ingest.EmptySeries(n)
	for i := 0; i < n; i++ {
		if netProfit[i] == nil || otherIncome[i] == nil {
			continue
		}
		v := netProfit[i].Sub(*otherIncome[i])
		core[i] = &v
	}
	return core
}

// Derive computes all trend flags for one snapshot. Missing comparators
// are skipped rather than failing a flag, except where a flag needs at
// least one defined comparator to mean anything.
func Derive(snap *ingest.CompanySnapshot) Metrics {
	m := Metrics{CoreProfit: CoreProfit(snap.NetProfit, snap.OtherIncome)}

	m.SalesGood = riseOverWindow(snap.Sales, decimal.NewFromInt(10))
	m.ProfitGood = riseOverPrevious(m.CoreProfit, decimal.NewFromInt(15))
	m.BestMargins = bestInWindow(snap.OPMPercent)

	currBorrow, prevBorrow := snap.Borrowings.Latest(), snap.Borrowings.Previous()
	m.BorrowingsDown = currBorrow != nil && prevBorrow != nil && currBorrow.LessThan(*prevBorrow)

	return m
}

// riseOverWindow is true iff the latest value is defined, at least one
// prior value is defined, and the percentage change of latest vs every
// defined prior value exceeds threshold.
func riseOverWindow(s ingest.Series, threshold decimal.Decimal) bool {
	curr := s.Latest()
	if curr == nil {
		return false
	}
	compared := false
	for _, prev := range s.Window() {
		pc := PctChange(curr, prev)
		if pc == nil {
			continue
		}
		if !pc.GreaterThan(threshold) {
			return false
		}
		compared = true
	}
	return compared
}

// riseOverPrevious is true iff the latest value and the one immediately
// before it are defined and the change exceeds threshold.
func riseOverPrevious(s ingest.Series, threshold decimal.Decimal) bool {
	pc := PctChange(s.Latest(), s.Previous())
	return pc != nil && pc.GreaterThan(threshold)
}

// bestInWindow is true iff the latest value strictly exceeds every defined
// prior value. An empty comparison set is false: one data point cannot
// prove a margin is at its best.
func bestInWindow(s ingest.Series) bool {
	curr := s.Latest()
	if curr == nil {
		return false
	}
	compared := false
	for _, prev := range s.Window() {
		if prev == nil {
			continue
		}
		if !curr.GreaterThan(*prev) {
			return false
		}
		compared = true
	}
	return compared
}
