package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Categories(t *testing.T) {
	c := Default()

	groups := c.Categories()
	require.Len(t, groups, 4)

	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"Burgers", "Pizza", "Salads", "Drinks"}, names)

	assert.Equal(t, "Classic Burger", groups[0].Items[0].Name)
	assert.Len(t, groups[1].Items, 3)
	assert.Len(t, groups[2].Items, 2)
}

func TestCatalog_Lookup(t *testing.T) {
	c := Default()

	item, ok := c.Lookup("burger-cheese")
	require.True(t, ok)
	assert.Equal(t, "Cheeseburger", item.Name)
	assert.Equal(t, 9.99, item.Price)

	_, ok = c.Lookup("sushi")
	assert.False(t, ok)
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := Default()

	items := c.Items()
	items[0].Name = "Mutated"

	again := c.Items()
	assert.Equal(t, "Classic Burger", again[0].Name)
	assert.Equal(t, len(DefaultItems), len(again))
}

func TestCatalog_Category(t *testing.T) {
	c := Default()

	drinks := c.Category("Drinks")
	require.Len(t, drinks, 3)
	assert.Equal(t, "Cola", drinks[0].Name)

	assert.Nil(t, c.Category("Desserts"))
}
