// Package menu holds the static restaurant catalog.
package menu

import "github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"

// Catalog is a read-only set of menu items. Safe for concurrent use.
type Catalog struct {
	items  []models.MenuItem
	byID   map[string]int
	groups []models.CategoryGroup
}

// DefaultItems is the menu the service ships with.
var DefaultItems = []models.MenuItem{
	{ID: "burger-classic", Name: "Classic Burger", Price: 8.99, Category: "Burgers"},
	{ID: "burger-cheese", Name: "Cheeseburger", Price: 9.99, Category: "Burgers"},
	{ID: "burger-veggie", Name: "Veggie Burger", Price: 9.49, Category: "Burgers"},

	{ID: "pizza-margherita", Name: "Margherita Pizza", Price: 12.5, Category: "Pizza"},
	{ID: "pizza-pepperoni", Name: "Pepperoni Pizza", Price: 13.5, Category: "Pizza"},
	{ID: "pizza-bbq", Name: "BBQ Chicken Pizza", Price: 14.0, Category: "Pizza"},

	{ID: "salad-garden", Name: "Garden Salad", Price: 7.5, Category: "Salads"},
	{ID: "salad-caesar", Name: "Caesar Salad", Price: 8.0, Category: "Salads"},

	{ID: "drink-cola", Name: "Cola", Price: 2.5, Category: "Drinks"},
	{ID: "drink-lemonade", Name: "Lemonade", Price: 2.75, Category: "Drinks"},
	{ID: "drink-icedtea", Name: "Iced Tea", Price: 2.75, Category: "Drinks"},
}

// NewCatalog builds a catalog from items. Category order is first-encountered order.
func NewCatalog(items []models.MenuItem) *Catalog {
	c := &Catalog{
		items: append([]models.MenuItem(nil), items...),
		byID:  make(map[string]int, len(items)),
	}

	groupIdx := make(map[string]int)
	for i, item := range c.items {
		c.byID[item.ID] = i
		gi, ok := groupIdx[item.Category]
		if !ok {
			gi = len(c.groups)
			groupIdx[item.Category] = gi
			c.groups = append(c.groups, models.CategoryGroup{Name: item.Category})
		}
		c.groups[gi].Items = append(c.groups[gi].Items, item)
	}

	return c
}

// Default returns the catalog of DefaultItems.
func Default() *Catalog {
	return NewCatalog(DefaultItems)
}

// Items returns a copy of all items in declaration order.
func (c *Catalog) Items() []models.MenuItem {
	return append([]models.MenuItem(nil), c.items...)
}

// Lookup finds an item by id.
func (c *Catalog) Lookup(id string) (models.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i], true
}

// Categories returns the category grouping.
func (c *Catalog) Categories() []models.CategoryGroup {
	out := make([]models.CategoryGroup, len(c.groups))
	for i, g := range c.groups {
		out[i] = models.CategoryGroup{Name: g.Name, Items: append([]models.MenuItem(nil), g.Items...)}
	}
	return out
}

// Category returns the items of one category, or nil if it does not exist.
func (c *Catalog) Category(name string) []models.MenuItem {
	for _, g := range c.groups {
		if g.Name == name {
			return append([]models.MenuItem(nil), g.Items...)
		}
	}
	return nil
}

// View returns the catalog in its client-facing shape.
func (c *Catalog) View() models.MenuView {
	return models.MenuView{Menu: c.Items(), Categories: c.Categories()}
}
