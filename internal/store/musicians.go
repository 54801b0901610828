package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"bolo-service/internal/database"
)

// MusicianRepository persists musicians and their booking assignments.
type MusicianRepository struct {
	db database.DBTX
}

func NewMusicianRepository(db database.DBTX) *MusicianRepository {
	return &MusicianRepository{db: db}
}

func (r *MusicianRepository) Create(ctx context.Context, m *Musician) error {
	q := `INSERT INTO musicians (id, name, instrument, email)
	      VALUES (gen_random_uuid(),$1,$2,$3) RETURNING id`
	return r.db.QueryRow(ctx, q, m.Name, m.Instrument, m.Email).Scan(&m.ID)
}

func (r *MusicianRepository) List(ctx context.Context) ([]Musician, error) {
	q := `SELECT id, name, instrument, email FROM musicians ORDER BY name`
	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Musician
	for rows.Next() {
		var m Musician
		if err := rows.Scan(&m.ID, &m.Name, &m.Instrument, &m.Email); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Assign links a musician to a booking. When driver is set, any previous
// driver on the booking is demoted first so one driver carries the mileage.
func (r *MusicianRepository) Assign(ctx context.Context, a *Assignment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if a.Driver {
		demote := `UPDATE assignments SET driver=false, mileage_km=0 WHERE booking_id=$1 AND driver`
		if _, err := tx.Exec(ctx, demote, a.BookingID); err != nil {
			return err
		}
	}

	q := `INSERT INTO assignments (booking_id, musician_id, driver, mileage_km)
	      VALUES ($1,$2,$3,$4)
	      ON CONFLICT (booking_id, musician_id) DO UPDATE SET
	          driver = EXCLUDED.driver, mileage_km = EXCLUDED.mileage_km`
	if _, err := tx.Exec(ctx, q, a.BookingID, a.MusicianID, a.Driver, a.MileageKM); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return ErrNotFound
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *MusicianRepository) Unassign(ctx context.Context, bookingID, musicianID string) error {
	q := `DELETE FROM assignments WHERE booking_id=$1 AND musician_id=$2`
	ct, err := r.db.Exec(ctx, q, bookingID, musicianID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForBooking returns a booking's assignments with musician names.
func (r *MusicianRepository) ListForBooking(ctx context.Context, bookingID string) ([]Assignment, error) {
	q := `SELECT a.booking_id, a.musician_id, m.name, a.driver, a.mileage_km
	      FROM assignments a JOIN musicians m ON m.id = a.musician_id
	      WHERE a.booking_id=$1 ORDER BY m.name`
	rows, err := r.db.Query(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Assignment
	for rows.Next() {
		var a Assignment
		if err := rows.Scan(&a.BookingID, &a.MusicianID, &a.Musician, &a.Driver, &a.MileageKM); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
