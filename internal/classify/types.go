package classify

import (
	"github.com/shopspring/decimal"
)

// ResultType grades an accepted result.
type ResultType string

const (
	ResultSolid ResultType = "Solid"
	ResultBest  ResultType = "Best"
	ResultGood  ResultType = "Good"
)

// Valuation compares the stock's P/E against its reference P/E. The string
// values are the externally visible ledger spellings.
type Valuation string

const (
	ValuationOver    Valuation = "Over valuation"
	ValuationFair    Valuation = "Fair valuation"
	ValuationUnder   Valuation = "Under valuation"
	ValuationUnknown Valuation = "Unknown"
)

// Comments are the human-readable trend notes written alongside a result.
// Each defaults to "N/A" when its inputs are undefined; none is ever left
// blank.
type Comments struct {
	Sales          string `json:"sales"`
	Profit         string `json:"profit"`
	OPM            string `json:"opm"`
	Borrowings     string `json:"borrowings"`
	WorkingCapital string `json:"working_capital"`
	CashFlow       string `json:"cash_flow"`
}

// Decision is the immutable outcome of one classification pass.
type Decision struct {
	Accepted     bool             `json:"accepted"`
	RejectReason string           `json:"reject_reason,omitempty"`
	ResultType   ResultType       `json:"result_type,omitempty"`
	Valuation    Valuation        `json:"valuation,omitempty"`
	ReferencePE  *decimal.Decimal `json:"reference_pe,omitempty"`
	Comments     Comments         `json:"comments"`
	Remarks      string           `json:"remarks,omitempty"`
}
