package ledger

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrStorageUnavailable wraps any failure to read or append the backing
// store. It propagates to the caller uncaught; the core never retries
// storage failures.
var ErrStorageUnavailable = errors.New("ledger storage unavailable")

// Row is one appended result. The field order here is the externally
// visible column contract of the ledger.
type Row struct {
	Date                  string           `json:"date"`
	StockName             string           `json:"stock_name"`
	MarketCap             *decimal.Decimal `json:"market_cap"`
	StockPE               *decimal.Decimal `json:"stock_pe"`
	ReferencePE           *decimal.Decimal `json:"reference_pe"`
	ResultType            string           `json:"result_type"`
	Valuation             string           `json:"valuation"`
	SalesComment          string           `json:"sales_comment"`
	ProfitComment         string           `json:"profit_comment"`
	OPMComment            string           `json:"opm_comment"`
	BorrowingsComment     string           `json:"borrowings_comment"`
	WorkingCapitalComment string           `json:"wc_comment"`
	CashFlowComment       string           `json:"cfo_comment"`
	Remarks               string           `json:"remarks"`
}

// Key is the uniqueness key of a row: the trade date plus the stock name,
// case-insensitive and trimmed.
type Key struct {
	Date string
	Name string
}

func (r Row) Key() Key {
	return Key{
		Date: strings.TrimSpace(r.Date),
		Name: strings.ToLower(strings.TrimSpace(r.StockName)),
	}
}

// Store is the storage collaborator: a full read plus a blind append.
// Rows are never mutated or deleted.
type Store interface {
	ReadAll(ctx context.Context) ([]Row, error)
	Append(ctx context.Context, row Row) error
}

// Writer appends rows while suppressing duplicates. The duplicate check is
// a full read-then-append with no locking, which is racy under concurrent
// writers: two processes can both pass the check before either appends.
// Deployment is single-writer; the Postgres migration adds a unique index
// as a server-side backstop, the Sheets store has no equivalent.
type Writer struct {
	store Store
	log   zerolog.Logger
}

func NewWriter(store Store, log zerolog.Logger) *Writer {
	return &Writer{store: store, log: log}
}

// Record appends row unless a row with the same key already exists.
// Returns false with a nil error on a duplicate: an expected outcome, not
// an error.
func (w *Writer) Record(ctx context.Context, row Row) (bool, error) {
	existing, err := w.store.ReadAll(ctx)
	if err != nil {
		return false, err
	}

	key := row.Key()
	for _, r := range existing {
		if r.Key() == key {
			w.log.Info().
				Str("stock", row.StockName).
				Str("date", row.Date).
				Msg("duplicate ledger row, skipping append")
			return false, nil
		}
	}

	if err := w.store.Append(ctx, row); err != nil {
		return false, err
	}
	w.log.Info().
		Str("stock", row.StockName).
		Str("date", row.Date).
		Msg("ledger row appended")
	return true, nil
}
