package store

import (
	"context"
	"regexp"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bolo-service/internal/database"
)

func setupInvoiceRepo(t *testing.T) (*InvoiceRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewInvoiceRepository(mock), mock
}

func TestInvoiceCreateNumbersPerYearAndKind(t *testing.T) {
	repo, mock := setupInvoiceRepo(t)
	inv := &Invoice{BookingID: "b-1", Kind: "quote", Year: 2026, AmountCents: 150000}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO counters`)).
		WithArgs("quote", 2026).
		WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow(7))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO invoices`)).
		WithArgs("b-1", "quote", 2026, 7, "Q-2026-007", int64(150000), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("inv-uuid"))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), inv))
	assert.Equal(t, 7, inv.Number)
	assert.Equal(t, "Q-2026-007", inv.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInvoiceCreateRejectsUnknownKind(t *testing.T) {
	repo, _ := setupInvoiceRepo(t)
	err := repo.Create(context.Background(), &Invoice{BookingID: "b-1", Kind: "receipt", Year: 2026})
	assert.Error(t, err)
}

func TestInvoiceListByYear(t *testing.T) {
	repo, mock := setupInvoiceRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM invoices WHERE kind=$1 AND year=$2`)).
		WithArgs("invoice", 2026).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "booking_id", "kind", "year", "number", "code", "amount_cents", "issued_at",
		}).AddRow("i-1", "b-1", "invoice", 2026, 1, "I-2026-001", int64(90000), sampleTime()))

	out, err := repo.ListByYear(context.Background(), "invoice", 2026)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "I-2026-001", out[0].Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
