package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// sheetRange covers the ledger's 14 columns on the first sheet.
const sheetRange = "Sheet1!A:N"

// SheetsStore keeps the ledger in a Google Sheets spreadsheet, one row per
// record, columns in the Row contract order.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
}

// NewSheetsStore authenticates with a service-account credentials file.
func NewSheetsStore(ctx context.Context, credentialsFile, spreadsheetID string) (*SheetsStore, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsStore{svc: svc, spreadsheetID: spreadsheetID}, nil
}

func (s *SheetsStore) ReadAll(ctx context.Context) ([]Row, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: reading spreadsheet: %v", ErrStorageUnavailable, err)
	}

	var out []Row
	for _, cells := range resp.Values {
		if len(cells) < 2 {
			continue
		}
		out = append(out, rowFromCells(cells))
	}
	return out, nil
}

func (s *SheetsStore) Append(ctx context.Context, row Row) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{rowCells(row)}}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, sheetRange, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("%w: appending spreadsheet row: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func rowCells(r Row) []interface{} {
	return []interface{}{
		r.Date, r.StockName,
		decimalCell(r.MarketCap), decimalCell(r.StockPE), decimalCell(r.ReferencePE),
		r.ResultType, r.Valuation,
		r.SalesComment, r.ProfitComment, r.OPMComment,
		r.BorrowingsComment, r.WorkingCapitalComment, r.CashFlowComment,
		r.Remarks,
	}
}

func rowFromCells(cells []interface{}) Row {
	return Row{
		Date:                  cellString(cells, 0),
		StockName:             cellString(cells, 1),
		MarketCap:             cellDecimal(cells, 2),
		StockPE:               cellDecimal(cells, 3),
		ReferencePE:           cellDecimal(cells, 4),
		ResultType:            cellString(cells, 5),
		Valuation:             cellString(cells, 6),
		SalesComment:          cellString(cells, 7),
		ProfitComment:         cellString(cells, 8),
		OPMComment:            cellString(cells, 9),
		BorrowingsComment:     cellString(cells, 10),
		WorkingCapitalComment: cellString(cells, 11),
		CashFlowComment:       cellString(cells, 12),
		Remarks:               cellString(cells, 13),
	}
}

func decimalCell(d *decimal.Decimal) interface{} {
	if d == nil {
		return ""
	}
	return d.String()
}

func cellString(cells []interface{}, i int) string {
	if i >= len(cells) || cells[i] == nil {
		return ""
	}
	if s, ok := cells[i].(string); ok {
		return s
	}
	return fmt.Sprintf("%v", cells[i])
}

func cellDecimal(cells []interface{}, i int) *decimal.Decimal {
	s := cellString(cells, i)
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
