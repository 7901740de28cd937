package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

func newArchive(t *testing.T) (*PostgresOrderArchive, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresOrderArchive(db, logging.NewLoggerV2("test")), mock
}

func sampleRecord() *models.PlacedOrderRecord {
	return &models.PlacedOrderRecord{
		OrderID:   "ORD-ABC123",
		SessionID: "sess-1",
		Items:     models.Cart{{ID: "drink-cola", Name: "Cola", Price: 2.5, Qty: 2}},
		Totals:    models.Totals{Subtotal: 5, Tax: 0.44, Total: 5.44},
		PlacedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestPostgresOrderArchive_Save(t *testing.T) {
	archive, mock := newArchive(t)
	rec := sampleRecord()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO placed_orders")).
		WithArgs(rec.OrderID, rec.SessionID, sqlmock.AnyArg(), 5.0, 0.44, 5.44, rec.PlacedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, archive.Save(context.Background(), rec))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderArchive_SaveDuplicateIsNoop(t *testing.T) {
	archive, mock := newArchive(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO placed_orders")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, archive.Save(context.Background(), sampleRecord()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderArchive_SaveError(t *testing.T) {
	archive, mock := newArchive(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO placed_orders")).
		WillReturnError(sql.ErrConnDone)

	err := archive.Save(context.Background(), sampleRecord())
	assert.ErrorIs(t, err, sql.ErrConnDone)
}

func TestPostgresOrderArchive_GetByID(t *testing.T) {
	archive, mock := newArchive(t)
	rec := sampleRecord()

	rows := sqlmock.NewRows([]string{"id", "session_id", "items", "subtotal", "tax", "total", "placed_at"}).
		AddRow(rec.OrderID, rec.SessionID, []byte(`[{"id":"drink-cola","name":"Cola","price":2.5,"qty":2}]`), 5.0, 0.44, 5.44, rec.PlacedAt)
	mock.ExpectQuery(regexp.QuoteMeta("FROM placed_orders")).
		WithArgs(rec.OrderID).
		WillReturnRows(rows)

	got, err := archive.GetByID(context.Background(), rec.OrderID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}

func TestPostgresOrderArchive_GetByIDNotFound(t *testing.T) {
	archive, mock := newArchive(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM placed_orders")).
		WithArgs("ORD-NOPE00").
		WillReturnError(sql.ErrNoRows)

	_, err := archive.GetByID(context.Background(), "ORD-NOPE00")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresOrderArchive_ListBySession(t *testing.T) {
	archive, mock := newArchive(t)
	placed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "session_id", "items", "subtotal", "tax", "total", "placed_at"}).
		AddRow("ORD-000002", "sess-1", []byte(`[]`), 0.0, 0.0, 0.0, placed.Add(time.Hour)).
		AddRow("ORD-000001", "sess-1", []byte(`[]`), 0.0, 0.0, 0.0, placed)
	mock.ExpectQuery(regexp.QuoteMeta("WHERE session_id = $1")).
		WithArgs("sess-1", defaultListLimit).
		WillReturnRows(rows)

	got, err := archive.ListBySession(context.Background(), "sess-1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ORD-000002", got[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
