package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps the ledger in a Postgres table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	return pool, nil
}

func (s *PostgresStore) ReadAll(ctx context.Context) ([]Row, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT trade_date, stock_name, market_cap, stock_pe, reference_pe,
		       result_type, valuation, sales_comment, profit_comment,
		       opm_comment, borrowings_comment, wc_comment, cfo_comment,
		       remarks
		FROM ledger
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ledger: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		err := rows.Scan(
			&r.Date, &r.StockName, &r.MarketCap, &r.StockPE, &r.ReferencePE,
			&r.ResultType, &r.Valuation, &r.SalesComment, &r.ProfitComment,
			&r.OPMComment, &r.BorrowingsComment, &r.WorkingCapitalComment,
			&r.CashFlowComment, &r.Remarks,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning ledger row: %v", ErrStorageUnavailable, err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading ledger: %v", ErrStorageUnavailable, err)
	}
	return out, nil
}

func (s *PostgresStore) Append(ctx context.Context, row Row) error {
	// The unique index backstops the writer's read-then-append check;
	// DO NOTHING keeps a lost race from surfacing as an error.
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ledger (
			trade_date, stock_name, market_cap, stock_pe, reference_pe,
			result_type, valuation, sales_comment, profit_comment,
			opm_comment, borrowings_comment, wc_comment, cfo_comment,
			remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (trade_date, lower(stock_name)) DO NOTHING
	`,
		row.Date, row.StockName, row.MarketCap, row.StockPE, row.ReferencePE,
		row.ResultType, row.Valuation, row.SalesComment, row.ProfitComment,
		row.OPMComment, row.BorrowingsComment, row.WorkingCapitalComment,
		row.CashFlowComment, row.Remarks,
	)
	if err != nil {
		return fmt.Errorf("%w: appending ledger row: %v", ErrStorageUnavailable, err)
	}
	return nil
}
