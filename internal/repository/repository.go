package repository

import (
	"context"
	"errors"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// ErrCorruptSession is returned when stored session state cannot be decoded.
var ErrCorruptSession = errors.New("corrupt session state")

// SessionStore keeps the per-session cart and last placed order.
// Callers serialize access per session; implementations need not.
type SessionStore interface {
	// GetCart returns the session's cart, empty if the session has none yet.
	GetCart(ctx context.Context, sessionID string) (models.Cart, error)
	SaveCart(ctx context.Context, sessionID string, cart models.Cart) error
	// GetOrder returns the last placed order, or nil when there is none.
	GetOrder(ctx context.Context, sessionID string) (*models.Order, error)
	SaveOrder(ctx context.Context, sessionID string, order *models.Order) error
	// SaveCheckout stores the placed order and the emptied cart together: either both
	// writes land or neither does.
	SaveCheckout(ctx context.Context, sessionID string, order *models.Order, cart models.Cart) error
	Ping(ctx context.Context) error
}

// OrderArchive stores placed orders for later lookup.
type OrderArchive interface {
	Save(ctx context.Context, record *models.PlacedOrderRecord) error
	GetByID(ctx context.Context, orderID string) (*models.PlacedOrderRecord, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]*models.PlacedOrderRecord, error)
}

// Ensure implementations satisfy their interfaces.
var (
	_ SessionStore = (*MemorySessionStore)(nil)
	_ SessionStore = (*RedisSessionStore)(nil)
	_ OrderArchive = (*PostgresOrderArchive)(nil)
)
