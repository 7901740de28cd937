package service

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/cart"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrNoRecentOrder = errors.New("no recent order")
)

const (
	orderIDPrefix   = "ORD-"
	orderIDLength   = 6
	orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	defaultBaseMinutes  = 25
	defaultFloorMinutes = 5
)

// OrderTracker places orders from a session's cart and reports their progress.
type OrderTracker struct {
	eta   config.ETAConfig
	clock func() time.Time
}

func NewOrderTracker(eta config.ETAConfig, clock func() time.Time) *OrderTracker {
	if clock == nil {
		clock = time.Now
	}
	if eta.BaseMinutes <= 0 {
		eta.BaseMinutes = defaultBaseMinutes
	}
	if eta.FloorMinutes <= 0 {
		eta.FloorMinutes = defaultFloorMinutes
	}
	return &OrderTracker{eta: eta, clock: clock}
}

// Checkout snapshots the cart into a new order, replaces the session's last order with it
// and empties the cart.
func (t *OrderTracker) Checkout(sess *SessionState) (*models.Order, error) {
	if len(sess.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:       GenerateOrderID(),
		Items:    cart.Clone(sess.Cart),
		PlacedAt: t.clock(),
	}

	sess.SetOrder(order)
	sess.SetCart(models.Cart{})
	return order, nil
}

// Track reports the ETA of the session's last order.
func (t *OrderTracker) Track(sess *SessionState) (*models.OrderStatus, error) {
	if sess.Order == nil {
		return nil, ErrNoRecentOrder
	}

	return &models.OrderStatus{
		OrderID:    sess.Order.ID,
		ETAMinutes: ETAMinutes(sess.Order.PlacedAt, t.clock(), t.eta.BaseMinutes, t.eta.FloorMinutes),
	}, nil
}

// ETAMinutes is base minus whole minutes elapsed since placedAt, never below floor.
// A placedAt in the future counts as no time elapsed.
func ETAMinutes(placedAt, now time.Time, base, floor int) int {
	elapsed := now.Sub(placedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	remaining := base - int(math.Floor(elapsed.Minutes()))
	if remaining < floor {
		return floor
	}
	return remaining
}

// GenerateOrderID returns "ORD-" and six random uppercase base36 characters.
// Not collision free and not suitable as a secret.
func GenerateOrderID() string {
	b := make([]byte, orderIDLength)
	for i := range b {
		b[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}
	return orderIDPrefix + string(b)
}
