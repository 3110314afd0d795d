package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"resultsift/internal/classify"
	"resultsift/internal/ingest"
	"resultsift/internal/ledger"
	"resultsift/internal/screen"
)

func newTestHandler() *ClassifyHandler {
	log := zerolog.Nop()
	svc := screen.New(
		ingest.NewBuilder(log),
		classify.NewEngine(classify.DefaultMinMarketCap),
		ledger.NewWriter(ledger.NewMemoryStore(), log),
		log,
	)
	return NewClassifyHandler(svc, log)
}

func doClassify(t *testing.T, h *ClassifyHandler, body string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/classify", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, h.Classify(e.NewContext(req, rec))
}

func TestClassifyEndpoint(t *testing.T) {
	body := `{
		"stock_name": "Acme Industries | Quarterly Results",
		"trade_date": "10-Nov-2025",
		"sections": {
			"quarters": [[
				["Sales +", "80", "85", "90", "95", "115"],
				["Other Income +", "2", "2", "2", "2", "2"],
				["OPM %", "10%", "10%", "10%", "10%", "15%"],
				["Net Profit +", "12", "12", "12", "12", "15"]
			]],
			"balance-sheet": [[["Borrowings +", "50", "40"]]],
			"shareholding": [[["Promoters +", "45.00%", "45.10%"]]]
		},
		"section_text": {
			"top-ratios": "Market Cap\n₹ 1,500 Cr.\nStock P/E\n22\nIndustry P/E\n20"
		}
	}`

	h := newTestHandler()
	rec, err := doClassify(t, h, body)
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp ClassifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.StockName != "Acme Industries" {
		t.Errorf("stock name = %q, want title suffix stripped", resp.StockName)
	}
	if !resp.Outcome.Decision.Accepted {
		t.Errorf("rejected: %s", resp.Outcome.Decision.RejectReason)
	}
	if !resp.Outcome.Recorded {
		t.Error("accepted decision was not recorded")
	}

	// Same company posted again: reported as duplicate, not recorded.
	rec, err = doClassify(t, h, body)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding second response: %v", err)
	}
	if !resp.Outcome.Duplicate || resp.Outcome.Recorded {
		t.Errorf("second outcome = %+v, want duplicate", resp.Outcome)
	}
}

func TestClassifyEndpointValidation(t *testing.T) {
	h := newTestHandler()

	tests := []struct {
		name string
		body string
	}{
		{name: "missing identity", body: `{"html": "<html></html>"}`},
		{name: "missing document", body: `{"stock_name": "Acme", "trade_date": "10-Nov-2025"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := doClassify(t, h, tt.body)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
				t.Errorf("err = %v, want 400", err)
			}
		})
	}
}

func TestCleanStockName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "Acme Industries | Screener", want: "Acme Industries"},
		{input: "Acme Industries", want: "Acme Industries"},
		{input: "  Acme  ", want: "Acme"},
	}
	for _, tt := range tests {
		if got := CleanStockName(tt.input); got != tt.want {
			t.Errorf("CleanStockName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
