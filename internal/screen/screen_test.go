package screen

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"resultsift/internal/classify"
	"resultsift/internal/ingest"
	"resultsift/internal/ledger"
)

// acceptedSource yields a company that passes every filter.
func acceptedSource() *ingest.TableSource {
	return &ingest.TableSource{
		Sections: map[string][]ingest.RawTable{
			ingest.SectionQuarters: {{
				{"Sales +", "80", "85", "90", "95", "115"},
				{"Other Income +", "2", "2", "2", "2", "2"},
				{"OPM %", "10%", "10%", "10%", "10%", "15%"},
				{"Net Profit +", "12", "12", "12", "12", "15"},
			}},
			ingest.SectionBalanceSheet: {{
				{"Borrowings +", "50", "40"},
			}},
			ingest.SectionCashFlow: {{
				{"Cash from Operating Activity +", "30", "35"},
			}},
			ingest.SectionRatios: {{
				{"Working Capital Days", "60", "55"},
			}},
			ingest.SectionShareholding: {{
				{"Promoters +", "45.00%", "45.10%"},
			}},
		},
		Text: map[string]string{
			ingest.SectionTopRatios: "Market Cap\n₹ 1,500 Cr.\nStock P/E\n22\nIndustry P/E\n20",
		},
	}
}

func newService(store ledger.Store) *Service {
	log := zerolog.Nop()
	return New(
		ingest.NewBuilder(log),
		classify.NewEngine(classify.DefaultMinMarketCap),
		ledger.NewWriter(store, log),
		log,
	)
}

func TestClassifyAndRecord(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := newService(store)

	out, err := svc.ClassifyAndRecord(ctx, acceptedSource(), "Acme Industries", "10-Nov-2025")
	if err != nil {
		t.Fatalf("ClassifyAndRecord: %v", err)
	}
	if !out.Decision.Accepted {
		t.Fatalf("rejected: %s", out.Decision.RejectReason)
	}
	if out.Decision.ResultType != classify.ResultSolid {
		t.Errorf("ResultType = %s, want Solid", out.Decision.ResultType)
	}
	if !out.Recorded || out.Duplicate {
		t.Errorf("outcome = %+v, want recorded, not duplicate", out)
	}

	rows, err := store.ReadAll(ctx)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows, want 1", len(rows))
	}
	row := rows[0]
	if row.StockName != "Acme Industries" || row.Date != "10-Nov-2025" {
		t.Errorf("row identity = %q %q", row.StockName, row.Date)
	}
	if row.MarketCap == nil || !row.MarketCap.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("market cap = %v", row.MarketCap)
	}
	if row.ReferencePE == nil || !row.ReferencePE.Equal(decimal.NewFromInt(20)) {
		t.Errorf("reference pe = %v", row.ReferencePE)
	}
	if row.Valuation != string(classify.ValuationFair) {
		t.Errorf("valuation = %q", row.Valuation)
	}
	if row.Remarks != "Solid | Fair valuation" {
		t.Errorf("remarks = %q", row.Remarks)
	}
}

func TestClassifyAndRecordDuplicate(t *testing.T) {
	ctx := context.Background()
	store := ledger.NewMemoryStore()
	svc := newService(store)

	if _, err := svc.ClassifyAndRecord(ctx, acceptedSource(), "Acme Industries", "10-Nov-2025"); err != nil {
		t.Fatalf("first call: %v", err)
	}
	out, err := svc.ClassifyAndRecord(ctx, acceptedSource(), "ACME Industries", "10-Nov-2025")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !out.Duplicate || out.Recorded {
		t.Errorf("outcome = %+v, want duplicate, not recorded", out)
	}

	rows, _ := store.ReadAll(ctx)
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows, want exactly 1 after duplicate", len(rows))
	}
}

func TestClassifyAndRecordRejectedSkipsLedger(t *testing.T) {
	ctx := context.Background()
	src := acceptedSource()
	src.Sections[ingest.SectionShareholding] = []ingest.RawTable{{
		{"Promoters +", "0.00%", "45.10%"},
	}}

	store := ledger.NewMemoryStore()
	svc := newService(store)

	out, err := svc.ClassifyAndRecord(ctx, src, "Acme Industries", "10-Nov-2025")
	if err != nil {
		t.Fatalf("ClassifyAndRecord: %v", err)
	}
	if out.Decision.Accepted {
		t.Fatal("accepted, want rejection on zero promoter holding")
	}
	if out.Recorded || out.Duplicate {
		t.Errorf("outcome = %+v, want neither recorded nor duplicate", out)
	}

	rows, _ := store.ReadAll(ctx)
	if len(rows) != 0 {
		t.Fatalf("ledger has %d rows, want 0", len(rows))
	}
}

type downStore struct{}

func (downStore) ReadAll(ctx context.Context) ([]ledger.Row, error) {
	return nil, ledger.ErrStorageUnavailable
}

func (downStore) Append(ctx context.Context, row ledger.Row) error {
	return ledger.ErrStorageUnavailable
}

func TestClassifyAndRecordStorageFailure(t *testing.T) {
	svc := newService(downStore{})
	_, err := svc.ClassifyAndRecord(context.Background(), acceptedSource(), "Acme", "10-Nov-2025")
	if !errors.Is(err, ledger.ErrStorageUnavailable) {
		t.Errorf("err = %v, want ErrStorageUnavailable", err)
	}
}
