package classify

import (
	"fmt"

	"github.com/shopspring/decimal"

	"resultsift/internal/ingest"
)

// DefaultMinMarketCap is the screening floor, in the same crore-denominated
// units as the source pages.
var DefaultMinMarketCap = decimal.NewFromInt(125)

// fairBand is the |stock P/E - reference P/E| width inside which a
// valuation is called fair regardless of direction.
var fairBand = decimal.NewFromInt(3)

const commentNA = "N/A"

// Engine applies the ordered filter set and assigns result labels. Pure:
// classifying the same snapshot twice yields identical decisions.
type Engine struct {
	minMarketCap decimal.Decimal
}

func NewEngine(minMarketCap decimal.Decimal) *Engine {
	return &Engine{minMarketCap: minMarketCap}
}

// Classify evaluates the filters in fixed order; the first failure rejects
// the snapshot with that filter's name and nothing further is computed.
// Accepted snapshots get a result type, a valuation and trend comments.
func (e *Engine) Classify(snap *ingest.CompanySnapshot, m Metrics) Decision {
	if reason := e.reject(snap, m); reason != "" {
		return Decision{RejectReason: reason}
	}

	dec := Decision{
		Accepted:    true,
		ResultType:  resultType(m),
		ReferencePE: snap.ReferencePE(),
	}
	dec.Valuation = valuation(snap.StockPE, dec.ReferencePE)
	dec.Comments = comments(snap, m)
	dec.Remarks = fmt.Sprintf("%s | %s", dec.ResultType, dec.Valuation)
	return dec
}

func (e *Engine) reject(snap *ingest.CompanySnapshot, m Metrics) string {
	// A promoter holding of exactly zero in either recent quarter is
	// disqualifying on its own, regardless of every other metric.
	for _, p := range snap.PromotersPct {
		if p != nil && p.IsZero() {
			return "promoter holding is zero"
		}
	}

	// Strict decline tests: dropping below even one prior quarter
	// disqualifies, deliberately harsher than an average decline.
	if belowAnyPrior(snap.Sales) {
		return "sales below a prior quarter"
	}
	if belowAnyPrior(m.CoreProfit) {
		return "core profit below a prior quarter"
	}

	if snap.MarketCap != nil && snap.MarketCap.LessThan(e.minMarketCap) {
		return "market cap below floor"
	}

	currBorrow := snap.Borrowings.Latest()
	if currBorrow != nil && snap.MarketCap != nil && currBorrow.GreaterThan(*snap.MarketCap) {
		return "borrowings exceed market cap"
	}

	return ""
}

// belowAnyPrior reports whether the latest value is defined and lower than
// any defined value earlier in the window.
func belowAnyPrior(s ingest.Series) bool {
	curr := s.Latest()
	if curr == nil {
		return false
	}
	for _, prev := range s.Window() {
		if prev != nil && curr.LessThan(*prev) {
			return true
		}
	}
	return false
}

func resultType(m Metrics) ResultType {
	switch {
	case m.SalesGood && m.ProfitGood && m.BestMargins && m.BorrowingsDown:
		return ResultSolid
	case m.SalesGood || m.ProfitGood:
		return ResultBest
	default:
		return ResultGood
	}
}

// valuation compares stock P/E against the reference. The fair band is
// checked last and overrides a prior Over/Under call: within +-3 of the
// reference the direction doesn't matter.
func valuation(stockPE, refPE *decimal.Decimal) Valuation {
	if stockPE == nil || refPE == nil {
		return ValuationUnknown
	}
	v := ValuationUnknown
	if stockPE.GreaterThan(*refPE) {
		v = ValuationOver
	}
	if stockPE.LessThan(*refPE) {
		v = ValuationUnder
	}
	if stockPE.Sub(*refPE).Abs().LessThanOrEqual(fairBand) {
		v = ValuationFair
	}
	return v
}

func comments(snap *ingest.CompanySnapshot, m Metrics) Comments {
	c := Comments{
		Sales:          commentNA,
		Profit:         commentNA,
		OPM:            commentNA,
		Borrowings:     commentNA,
		WorkingCapital: commentNA,
		CashFlow:       commentNA,
	}

	if snap.Sales.Latest() != nil {
		if m.SalesGood {
			c.Sales = "Sales >10% vs each of last 4"
		} else {
			c.Sales = "Sales not strongly higher"
		}
	}

	if m.CoreProfit.Latest() != nil {
		if m.ProfitGood {
			c.Profit = "Core profit >15% vs last qtr"
		} else {
			c.Profit = "Core profit not strongly higher"
		}
	}

	if snap.OPMPercent.Latest() != nil {
		if m.BestMargins {
			c.OPM = "OPM best in 5 qtrs"
		} else {
			c.OPM = "OPM not best in 5 qtrs"
		}
	}

	c.Borrowings = trendComment(snap.Borrowings, "Borrowings lower", "Borrowings higher", "Borrowings flat")
	c.WorkingCapital = trendComment(snap.WorkingCapitalDays, "WC days lower (better)", "WC days higher (worse)", "WC days flat")
	c.CashFlow = trendComment(snap.CashFromOps, "CFO decreased", "CFO increased", "CFO flat")

	return c
}

// trendComment describes the latest-vs-previous direction of a two-period
// series, N/A when either reading is missing.
func trendComment(s ingest.Series, lower, higher, flat string) string {
	curr, prev := s.Latest(), s.Previous()
	if curr == nil || prev == nil {
		return commentNA
	}
	switch {
	case curr.LessThan(*prev):
		return lower
	case curr.GreaterThan(*prev):
		return higher
	default:
		return flat
	}
}
