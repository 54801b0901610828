package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"bolo-service/internal/database"
)

// RequestRepository persists inbound performance requests.
type RequestRepository struct {
	db database.DBTX
}

func NewRequestRepository(db database.DBTX) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, pr *PerformanceRequest) error {
	now := time.Now().UTC()
	q := `INSERT INTO performance_requests (id, contact_name, contact_email, place, date, notes, created_at)
	      VALUES (gen_random_uuid(),$1,$2,$3,$4,$5,$6) RETURNING id`
	err := r.db.QueryRow(ctx, q,
		pr.ContactName, pr.ContactEmail, pr.Place, pr.Date, pr.Notes, now,
	).Scan(&pr.ID)
	if err != nil {
		return err
	}
	pr.CreatedAt = now
	return nil
}

func (r *RequestRepository) Get(ctx context.Context, id string) (*PerformanceRequest, error) {
	q := `SELECT id, contact_name, contact_email, place, date, notes, booking_id, created_at
	      FROM performance_requests WHERE id=$1`
	var pr PerformanceRequest
	err := r.db.QueryRow(ctx, q, id).Scan(&pr.ID, &pr.ContactName, &pr.ContactEmail,
		&pr.Place, &pr.Date, &pr.Notes, &pr.BookingID, &pr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// List returns requests newest first; pending=true hides converted ones.
func (r *RequestRepository) List(ctx context.Context, pending bool) ([]PerformanceRequest, error) {
	q := `SELECT id, contact_name, contact_email, place, date, notes, booking_id, created_at
	      FROM performance_requests
	      WHERE NOT $1 OR booking_id IS NULL
	      ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, q, pending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PerformanceRequest
	for rows.Next() {
		var pr PerformanceRequest
		if err := rows.Scan(&pr.ID, &pr.ContactName, &pr.ContactEmail, &pr.Place,
			&pr.Date, &pr.Notes, &pr.BookingID, &pr.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, pr)
	}
	return out, rows.Err()
}

// MarkConverted records the booking created from this request.
func (r *RequestRepository) MarkConverted(ctx context.Context, id, bookingID string) error {
	q := `UPDATE performance_requests SET booking_id=$1 WHERE id=$2 AND booking_id IS NULL`
	ct, err := r.db.Exec(ctx, q, bookingID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrAlreadyExists
	}
	return nil
}
