package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"resultsift/internal/ingest"
	"resultsift/internal/ledger"
	"resultsift/internal/screen"
)

// ClassifyHandler exposes the one-snapshot-per-call surface over HTTP.
type ClassifyHandler struct {
	svc *screen.Service
	log zerolog.Logger
}

func NewClassifyHandler(svc *screen.Service, log zerolog.Logger) *ClassifyHandler {
	return &ClassifyHandler{svc: svc, log: log}
}

// ClassifyRequest carries one company's disclosure. Either the raw page
// HTML or pre-resolved sections must be present; HTML wins when both are.
type ClassifyRequest struct {
	StockName string `json:"stock_name"`
	TradeDate string `json:"trade_date"`

	HTML string `json:"html,omitempty"`

	Sections    map[string][]ingest.RawTable `json:"sections,omitempty"`
	SectionText map[string]string            `json:"section_text,omitempty"`
	MedianPE    *decimal.Decimal             `json:"median_pe,omitempty"`
}

// ClassifyResponse is the JSON response for the classify endpoint.
type ClassifyResponse struct {
	StockName string         `json:"stock_name"`
	TradeDate string         `json:"trade_date"`
	Outcome   screen.Outcome `json:"outcome"`
	Elapsed   string         `json:"elapsed,omitempty"`
}

// Classify handles POST /classify.
func (h *ClassifyHandler) Classify(c echo.Context) error {
	ctx := c.Request().Context()
	start := time.Now()

	var req ClassifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.StockName == "" || req.TradeDate == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "stock_name and trade_date are required")
	}
	if req.HTML == "" && len(req.Sections) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "either html or sections is required")
	}

	var src ingest.SectionSource
	if req.HTML != "" {
		parsed, err := ingest.NewHTMLSource(req.HTML)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unparsable html")
		}
		src = parsed
	} else {
		src = &ingest.TableSource{
			Sections: req.Sections,
			Text:     req.SectionText,
			MedianPE: req.MedianPE,
		}
	}

	stockName := CleanStockName(req.StockName)

	outcome, err := h.svc.ClassifyAndRecord(ctx, src, stockName, req.TradeDate)
	if err != nil {
		h.log.Error().Err(err).Str("stock", stockName).Msg("classify and record failed")
		if errors.Is(err, ledger.ErrStorageUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "ledger storage unavailable")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "classification failed")
	}

	return c.JSON(http.StatusOK, ClassifyResponse{
		StockName: stockName,
		TradeDate: req.TradeDate,
		Outcome:   outcome,
		Elapsed:   time.Since(start).String(),
	})
}

// CleanStockName trims a page-title style name ("Company | Extra | ...")
// down to the company portion.
func CleanStockName(name string) string {
	if i := strings.Index(name, " | "); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
