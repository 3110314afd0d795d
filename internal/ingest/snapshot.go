package ingest

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Quarterly series cover the most recent five quarters; point-in-time
// series the two most recent reporting periods.
const (
	QuarterWindow = 5
	PeriodWindow  = 2
)

// Row labels as they appear in the first cell of disclosure tables.
// Matching is substring-based, so "net profit" also hits "Net Profit +".
const (
	labelSales       = "sales"
	labelOtherIncome = "other income"
	labelNetProfit   = "net profit"
	labelOPM         = "opm"
	labelBorrowings  = "borrowings"
	labelCashFromOps = "cash from operating activity"
	labelWCDays      = "working capital days"
	labelPromoters   = "promoters"
)

// Builder assembles a CompanySnapshot from a SectionSource. A missing
// section, a missing row or an unparsable cell each degrade to nil values;
// building never fails.
type Builder struct {
	san    *Sanitizer
	pctSan *Sanitizer
	log    zerolog.Logger
}

func NewBuilder(log zerolog.Logger) *Builder {
	return &Builder{
		san:    NewSanitizer(),
		pctSan: NewPercentSanitizer(),
		log:    log,
	}
}

// Build extracts every field of the snapshot. All series come out
// chronological, oldest first, including the two-period ones.
func (b *Builder) Build(src SectionSource) *CompanySnapshot {
	snap := &CompanySnapshot{}

	quarters := src.ResolveSection(SectionQuarters)
	snap.Sales = b.series(quarters, labelSales, QuarterWindow, b.san)
	snap.OtherIncome = b.series(quarters, labelOtherIncome, QuarterWindow, b.san)
	snap.NetProfit = b.series(quarters, labelNetProfit, QuarterWindow, b.san)
	snap.OPMPercent = b.series(quarters, labelOPM, QuarterWindow, b.pctSan)

	snap.Borrowings = b.series(src.ResolveSection(SectionBalanceSheet), labelBorrowings, PeriodWindow, b.san)
	snap.CashFromOps = b.series(src.ResolveSection(SectionCashFlow), labelCashFromOps, PeriodWindow, b.san)
	snap.WorkingCapitalDays = b.series(src.ResolveSection(SectionRatios), labelWCDays, PeriodWindow, b.san)
	snap.PromotersPct = b.series(src.ResolveSection(SectionShareholding), labelPromoters, PeriodWindow, b.san)

	snap.MarketCap, snap.StockPE, snap.IndustryPE = b.topRatios(src.SectionText(SectionTopRatios))
	if snap.IndustryPE == nil {
		snap.MedianPE = src.ChartMedianPE()
		b.log.Debug().Msg("industry P/E missing, consulted chart median P/E")
	}

	return snap
}

// series resolves one labeled row and normalizes its value cells into a
// window of length n. RowNotFound degrades to an all-nil series.
func (b *Builder) series(tables []RawTable, label string, n int, san *Sanitizer) Series {
	row, err := FindRow(tables, label)
	if err != nil {
		b.log.Debug().Str("label", label).Msg("row not found, series left empty")
		return EmptySeries(n)
	}
	return Normalize(row[1:], n, san)
}

// topRatios scans the summary block's text lines for the market cap, stock
// P/E and industry P/E figures. The block renders as alternating label and
// value lines; a label arms the scan and the next line is parsed as its
// value, falling back to the first numeric token when the line carries
// units or other noise.
func (b *Builder) topRatios(text string) (marketCap, stockPE, industryPE *decimal.Decimal) {
	var armed string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch armed {
		case "market cap":
			marketCap = b.pointValue(line)
		case "stock p/e":
			stockPE = b.pointValue(line)
		case "industry p/e":
			industryPE = b.pointValue(line)
		}
		armed = ""

		switch strings.ToLower(line) {
		case "market cap":
			armed = "market cap"
		case "stock p/e":
			armed = "stock p/e"
		case "industry p/e":
			armed = "industry p/e"
		}
	}
	return marketCap, stockPE, industryPE
}

func (b *Builder) pointValue(line string) *decimal.Decimal {
	if v := b.san.Clean(line); v != nil {
		return v
	}
	return FirstNumber(line)
}
