package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// ErrNotFound is returned when an archived order does not exist.
var ErrNotFound = errors.New("not found")

const defaultListLimit = 20

// Schema creates the archive table. Applied by migrations in deployed environments.
const Schema = `
CREATE TABLE IF NOT EXISTS placed_orders (
	id          TEXT PRIMARY KEY,
	session_id  TEXT NOT NULL,
	items       JSONB NOT NULL,
	subtotal    NUMERIC(10,2) NOT NULL,
	tax         NUMERIC(10,2) NOT NULL,
	total       NUMERIC(10,2) NOT NULL,
	placed_at   TIMESTAMPTZ NOT NULL,
	archived_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS placed_orders_session_idx ON placed_orders (session_id, placed_at DESC);
`

// PostgresOrderArchive implements OrderArchive using PostgreSQL.
type PostgresOrderArchive struct {
	db     *sql.DB
	logger *logging.LoggerV2
}

// NewPostgresOrderArchive creates a new PostgreSQL order archive.
func NewPostgresOrderArchive(db *sql.DB, logger *logging.LoggerV2) *PostgresOrderArchive {
	return &PostgresOrderArchive{
		db:     db,
		logger: logger,
	}
}

// Save inserts a placed order. Saving the same order id twice is a no-op.
func (r *PostgresOrderArchive) Save(ctx context.Context, record *models.PlacedOrderRecord) error {
	r.logger.Debug("Archiving order", logging.Fields{
		"order_id":   record.OrderID,
		"session_id": record.SessionID,
	})

	itemsJSON, err := json.Marshal(record.Items)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO placed_orders (id, session_id, items, subtotal, tax, total, placed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query,
		record.OrderID,
		record.SessionID,
		itemsJSON,
		record.Totals.Subtotal,
		record.Totals.Tax,
		record.Totals.Total,
		record.PlacedAt,
	)
	if err != nil {
		r.logger.Error("Failed to archive order", logging.Fields{
			"order_id": record.OrderID,
			"error":    err.Error(),
		})
		return err
	}

	if n, _ := result.RowsAffected(); n == 0 {
		r.logger.Debug("Order already archived", logging.Fields{"order_id": record.OrderID})
		return nil
	}

	r.logger.Info("Order archived", logging.Fields{
		"order_id": record.OrderID,
		"total":    record.Totals.Total,
	})
	return nil
}

// GetByID retrieves an archived order.
func (r *PostgresOrderArchive) GetByID(ctx context.Context, orderID string) (*models.PlacedOrderRecord, error) {
	query := `
		SELECT id, session_id, items, subtotal, tax, total, placed_at
		FROM placed_orders
		WHERE id = $1
	`

	record, err := scanRecord(r.db.QueryRowContext(ctx, query, orderID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.logger.Error("Failed to fetch archived order", logging.Fields{
			"order_id": orderID,
			"error":    err.Error(),
		})
		return nil, err
	}
	return record, nil
}

// ListBySession returns a session's archived orders, newest first.
func (r *PostgresOrderArchive) ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.PlacedOrderRecord, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query := `
		SELECT id, session_id, items, subtotal, tax, total, placed_at
		FROM placed_orders
		WHERE session_id = $1
		ORDER BY placed_at DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*models.PlacedOrderRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	r.logger.Debug("Archived orders listed", logging.Fields{
		"session_id": sessionID,
		"count":      len(records),
	})
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner) (*models.PlacedOrderRecord, error) {
	var record models.PlacedOrderRecord
	var itemsJSON []byte

	err := row.Scan(
		&record.OrderID,
		&record.SessionID,
		&itemsJSON,
		&record.Totals.Subtotal,
		&record.Totals.Tax,
		&record.Totals.Total,
		&record.PlacedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(itemsJSON, &record.Items); err != nil {
		return nil, err
	}
	return &record, nil
}
