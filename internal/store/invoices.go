package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bolo-service/internal/database"
)

// InvoiceRepository persists invoices and quotes with per-year numbering.
type InvoiceRepository struct {
	db database.DBTX
}

func NewInvoiceRepository(db database.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

// Create assigns the next number for the kind/year pair and inserts the row
// in one transaction, so numbers stay gap-free under concurrent issuance.
func (r *InvoiceRepository) Create(ctx context.Context, inv *Invoice) error {
	if inv.Kind != "invoice" && inv.Kind != "quote" {
		return fmt.Errorf("unknown invoice kind %q", inv.Kind)
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	n, err := nextNumber(ctx, tx, inv.Kind, inv.Year)
	if err != nil {
		return err
	}
	inv.Number = n
	inv.Code = fmt.Sprintf("%s-%d-%03d", strings.ToUpper(inv.Kind[:1]), inv.Year, n)
	inv.IssuedAt = time.Now().UTC()

	q := `INSERT INTO invoices (id, booking_id, kind, year, number, code, amount_cents, issued_at)
	      VALUES (gen_random_uuid(),$1,$2,$3,$4,$5,$6,$7)
	      RETURNING id`
	err = tx.QueryRow(ctx, q,
		inv.BookingID, inv.Kind, inv.Year, inv.Number, inv.Code, inv.AmountCents, inv.IssuedAt,
	).Scan(&inv.ID)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ListByYear returns invoices of one kind issued in a year, in number order.
func (r *InvoiceRepository) ListByYear(ctx context.Context, kind string, year int) ([]Invoice, error) {
	q := `SELECT id, booking_id, kind, year, number, code, amount_cents, issued_at
	      FROM invoices WHERE kind=$1 AND year=$2 ORDER BY number`
	rows, err := r.db.Query(ctx, q, kind, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Invoice
	for rows.Next() {
		var inv Invoice
		if err := rows.Scan(&inv.ID, &inv.BookingID, &inv.Kind, &inv.Year,
			&inv.Number, &inv.Code, &inv.AmountCents, &inv.IssuedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
