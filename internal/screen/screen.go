// Package screen wires extraction, classification and the ledger into the
// one-call-per-company surface.
package screen

import (
	"context"

	"github.com/rs/zerolog"

	"resultsift/internal/classify"
	"resultsift/internal/ingest"
	"resultsift/internal/ledger"
)

// Outcome reports what one pass did: the decision itself, and whether a
// ledger row was written or suppressed as a duplicate.
type Outcome struct {
	Decision  classify.Decision `json:"decision"`
	Recorded  bool              `json:"recorded"`
	Duplicate bool              `json:"duplicate"`
}

// Service runs one company snapshot at a time: build, derive, classify,
// record. Snapshots share no state with each other beyond the ledger.
type Service struct {
	builder *ingest.Builder
	engine  *classify.Engine
	writer  *ledger.Writer
	log     zerolog.Logger
}

func New(builder *ingest.Builder, engine *classify.Engine, writer *ledger.Writer, log zerolog.Logger) *Service {
	return &Service{builder: builder, engine: engine, writer: writer, log: log}
}

// ClassifyAndRecord classifies one company's sections and appends the
// result to the ledger when accepted. Pure with respect to src; the only
// side effect is the append. Extraction and classification never fail;
// only storage errors propagate.
func (s *Service) ClassifyAndRecord(ctx context.Context, src ingest.SectionSource, stockName, tradeDate string) (Outcome, error) {
	snap := s.builder.Build(src)
	metrics := classify.Derive(snap)
	decision := s.engine.Classify(snap, metrics)

	if !decision.Accepted {
		s.log.Info().
			Str("stock", stockName).
			Str("date", tradeDate).
			Str("reason", decision.RejectReason).
			Msg("snapshot rejected")
		return Outcome{Decision: decision}, nil
	}

	row := ledger.Row{
		Date:                  tradeDate,
		StockName:             stockName,
		MarketCap:             snap.MarketCap,
		StockPE:               snap.StockPE,
		ReferencePE:           decision.ReferencePE,
		ResultType:            string(decision.ResultType),
		Valuation:             string(decision.Valuation),
		SalesComment:          decision.Comments.Sales,
		ProfitComment:         decision.Comments.Profit,
		OPMComment:            decision.Comments.OPM,
		BorrowingsComment:     decision.Comments.Borrowings,
		WorkingCapitalComment: decision.Comments.WorkingCapital,
		CashFlowComment:       decision.Comments.CashFlow,
		Remarks:               decision.Remarks,
	}

	added, err := s.writer.Record(ctx, row)
	if err != nil {
		return Outcome{Decision: decision}, err
	}
	return Outcome{Decision: decision, Recorded: added, Duplicate: !added}, nil
}
