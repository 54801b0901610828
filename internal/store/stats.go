package store

import (
	"context"

	"bolo-service/internal/database"
)

// StatsRepository aggregates the per-year financial summary.
type StatsRepository struct {
	db database.DBTX
}

func NewStatsRepository(db database.DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// YearSummary counts bookings per status and sums confirmed fees and mileage
// for one calendar year.
func (r *StatsRepository) YearSummary(ctx context.Context, year int) (*YearStats, error) {
	s := &YearStats{Year: year, BookingsByStatus: map[string]int{}}

	q := `SELECT status, COUNT(*),
	             COALESCE(SUM(fee_cents) FILTER (WHERE status = 'confirmed'), 0),
	             COALESCE(SUM(mileage_km), 0)
	      FROM bookings
	      WHERE EXTRACT(YEAR FROM date)::int = $1
	      GROUP BY status`
	rows, err := r.db.Query(ctx, q, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count, mileage int
		var fees int64
		if err := rows.Scan(&status, &count, &fees, &mileage); err != nil {
			return nil, err
		}
		s.BookingsByStatus[status] = count
		s.ConfirmedFeeCents += fees
		s.TotalMileageKM += mileage
	}
	return s, rows.Err()
}
