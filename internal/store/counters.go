package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// nextNumber atomically increments and returns the per-kind, per-year
// sequence. Runs inside the caller's transaction so the number is only
// consumed when the surrounding insert commits.
func nextNumber(ctx context.Context, tx pgx.Tx, kind string, year int) (int, error) {
	q := `INSERT INTO counters (kind, year, value) VALUES ($1,$2,1)
	      ON CONFLICT (kind, year) DO UPDATE SET value = counters.value + 1
	      RETURNING value`
	var n int
	if err := tx.QueryRow(ctx, q, kind, year).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
