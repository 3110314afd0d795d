package ingest

import (
	"github.com/shopspring/decimal"
)

// RawTable is one tabular region as extracted from a disclosure page:
// an ordered list of rows, each an ordered list of cell texts.
type RawTable [][]string

// Logical section names used by SectionSource implementations. They match
// the section anchors on screener-style company pages.
const (
	SectionQuarters     = "quarters"
	SectionBalanceSheet = "balance-sheet"
	SectionCashFlow     = "cash-flow"
	SectionRatios       = "ratios"
	SectionShareholding = "shareholding"
	SectionTopRatios    = "top-ratios"
)

// SectionSource is the contract the document-access collaborator must
// satisfy. Navigation, rendering and waiting for page readiness all happen
// behind this interface; the core only sees resolved tables and text.
type SectionSource interface {
	// ResolveSection returns all tabular regions within a named section,
	// empty if the section is absent.
	ResolveSection(name string) []RawTable
	// SectionText returns the visible text of a named summary block,
	// one text fragment per line.
	SectionText(name string) string
	// ChartMedianPE is the fallback consulted only when industry P/E is
	// missing from the top-ratios block.
	ChartMedianPE() *decimal.Decimal
}

// Series is a fixed-length window of optional values in chronological
// order, oldest first. Missing readings are nil; the length never varies
// with how much data the source actually had.
type Series []*decimal.Decimal

// Latest returns the most recent value, nil if the window is empty or the
// most recent reading is missing.
func (s Series) Latest() *decimal.Decimal {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// Previous returns the reading immediately before the latest one.
func (s Series) Previous() *decimal.Decimal {
	if len(s) < 2 {
		return nil
	}
	return s[len(s)-2]
}

// Window returns all readings strictly before the latest one.
func (s Series) Window() Series {
	if len(s) == 0 {
		return nil
	}
	return s[:len(s)-1]
}

// EmptySeries returns an all-nil series of length n.
func EmptySeries(n int) Series {
	return make(Series, n)
}

// CompanySnapshot is the unit of work: one company's normalized figures,
// built once per classification pass and immutable afterwards.
type CompanySnapshot struct {
	// Quarterly windows, 5 quarters each, oldest first.
	Sales       Series
	OtherIncome Series
	NetProfit   Series
	// OPM readings are percentages and arrive formatted differently from
	// the money rows, so they are normalized through their own sanitizer.
	OPMPercent Series

	// Two-period windows, [older, newer].
	Borrowings         Series
	CashFromOps        Series
	WorkingCapitalDays Series
	PromotersPct       Series

	// Point figures from the top-ratios block.
	MarketCap  *decimal.Decimal
	StockPE    *decimal.Decimal
	IndustryPE *decimal.Decimal
	MedianPE   *decimal.Decimal
}

// ReferencePE is the baseline used for valuation: industry P/E when
// available, else the chart's median P/E, else nil.
func (s *CompanySnapshot) ReferencePE() *decimal.Decimal {
	if s.IndustryPE != nil {
		return s.IndustryPE
	}
	return s.MedianPE
}
