package models

import "time"

// MenuItem is a purchasable catalog entry.
type MenuItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Category string  `json:"category"`
}

// CartLine is one catalog item and its quantity within a session's cart.
type CartLine struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Qty   int     `json:"qty"`
}

// Cart keeps lines in first-insertion order. At most one line per item id.
type Cart []CartLine

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Order is the most recent placed order of a session. Never mutated after checkout.
type Order struct {
	ID       string    `json:"id"`
	Items    Cart      `json:"items"`
	PlacedAt time.Time `json:"placed_at"`
}

// OrderStatus is what tracking reports for a placed order.
type OrderStatus struct {
	OrderID    string `json:"order_id"`
	ETAMinutes int    `json:"eta_minutes"`
}

// PlacedOrderRecord is the archived form of an order, keyed by the session that placed it.
type PlacedOrderRecord struct {
	OrderID   string    `json:"order_id"`
	SessionID string    `json:"session_id"`
	Items     Cart      `json:"items"`
	Totals    Totals    `json:"totals"`
	PlacedAt  time.Time `json:"placed_at"`
}
