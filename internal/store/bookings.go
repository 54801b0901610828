package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"bolo-service/internal/database"
)

// BookingRepository persists bookings in Postgres.
type BookingRepository struct {
	db database.DBTX
}

func NewBookingRepository(db database.DBTX) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `b.id, b.code, b.place, b.concept, b.venue_detail, b.date,
       b.start_time, b.duration_minutes, b.status, b.fee_cents, b.mileage_km,
       b.notes, b.client_id, COALESCE(c.name, ''), b.gcal_event_id,
       b.created_at, b.updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(&b.ID, &b.Code, &b.Place, &b.Concept, &b.VenueDetail, &b.Date,
		&b.StartTime, &b.DurationMins, &b.Status, &b.FeeCents, &b.MileageKM,
		&b.Notes, &b.ClientID, &b.ClientName, &b.GCalEventID,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Create inserts a booking, assigning its per-year short code inside the same
// transaction as the insert.
func (r *BookingRepository) Create(ctx context.Context, b *Booking) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	n, err := nextNumber(ctx, tx, "booking", b.Date.Year())
	if err != nil {
		return err
	}
	b.Code = fmt.Sprintf("B%02d-%03d", b.Date.Year()%100, n)

	now := time.Now().UTC()
	q := `INSERT INTO bookings
	      (id, code, place, concept, venue_detail, date, start_time, duration_minutes,
	       status, fee_cents, mileage_km, notes, client_id, created_at, updated_at)
	      VALUES (gen_random_uuid(),$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$13)
	      RETURNING id`
	err = tx.QueryRow(ctx, q,
		b.Code, b.Place, b.Concept, b.VenueDetail, b.Date, b.StartTime,
		b.DurationMins, b.Status, b.FeeCents, b.MileageKM, b.Notes, b.ClientID, now,
	).Scan(&b.ID)
	if err != nil {
		return err
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	return tx.Commit(ctx)
}

// Get loads a booking with its linked client name.
func (r *BookingRepository) Get(ctx context.Context, id string) (*Booking, error) {
	q := `SELECT ` + bookingColumns + `
	      FROM bookings b LEFT JOIN clients c ON c.id = b.client_id
	      WHERE b.id=$1`
	return scanBooking(r.db.QueryRow(ctx, q, id))
}

// Update overwrites the editable fields of a booking.
func (r *BookingRepository) Update(ctx context.Context, b *Booking) error {
	now := time.Now().UTC()
	q := `UPDATE bookings
	      SET place=$1, concept=$2, venue_detail=$3, date=$4, start_time=$5,
	          duration_minutes=$6, fee_cents=$7, mileage_km=$8, notes=$9,
	          client_id=$10, updated_at=$11
	      WHERE id=$12`
	ct, err := r.db.Exec(ctx, q,
		b.Place, b.Concept, b.VenueDetail, b.Date, b.StartTime, b.DurationMins,
		b.FeeCents, b.MileageKM, b.Notes, b.ClientID, now, b.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	b.UpdatedAt = now
	return nil
}

// UpdateStatus moves a booking to a new workflow state.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) error {
	q := `UPDATE bookings SET status=$1, updated_at=now() WHERE id=$2`
	ct, err := r.db.Exec(ctx, q, status, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEventID persists the external calendar event id onto the booking.
func (r *BookingRepository) SetEventID(ctx context.Context, id, eventID string) error {
	q := `UPDATE bookings SET gcal_event_id=$1, updated_at=now() WHERE id=$2`
	ct, err := r.db.Exec(ctx, q, eventID, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns bookings ordered by date, optionally filtered by status and/or
// year. Empty status or zero year means no filter on that column.
func (r *BookingRepository) List(ctx context.Context, status string, year int) ([]Booking, error) {
	q := `SELECT ` + bookingColumns + `
	      FROM bookings b LEFT JOIN clients c ON c.id = b.client_id
	      WHERE ($1 = '' OR b.status = $1)
	        AND ($2 = 0 OR EXTRACT(YEAR FROM b.date)::int = $2)
	      ORDER BY b.date, b.start_time`
	rows, err := r.db.Query(ctx, q, status, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}
