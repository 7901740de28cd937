// Package cart implements the line-item operations on a session cart.
package cart

import "github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"

// RemoveAll as the quantity of Remove drops the whole line.
const RemoveAll = -1

// Add puts qty of item into the cart. An existing line grows in place; otherwise a new line
// is appended. qty must be at least 1.
func Add(c models.Cart, item models.MenuItem, qty int) models.Cart {
	if i := indexOf(c, item.ID); i >= 0 {
		c[i].Qty += qty
		return c
	}
	return append(c, models.CartLine{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
		Qty:   qty,
	})
}

// Remove takes qty of item out of the cart and reports how many were removed. A line is
// deleted when qty is RemoveAll or covers the whole line. Removing an absent item is a no-op
// that reports 0.
func Remove(c models.Cart, item models.MenuItem, qty int) (models.Cart, int) {
	i := indexOf(c, item.ID)
	if i < 0 {
		return c, 0
	}

	line := c[i]
	if qty == RemoveAll || line.Qty <= qty {
		return append(c[:i], c[i+1:]...), line.Qty
	}

	c[i].Qty -= qty
	return c, qty
}

// Clone copies a cart so a snapshot cannot be changed through later mutations.
func Clone(c models.Cart) models.Cart {
	if c == nil {
		return models.Cart{}
	}
	return append(models.Cart{}, c...)
}

func indexOf(c models.Cart, id string) int {
	for i, line := range c {
		if line.ID == id {
			return i
		}
	}
	return -1
}
