package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

var (
	cheeseburger = models.MenuItem{ID: "burger-cheese", Name: "Cheeseburger", Price: 9.99, Category: "Burgers"}
	cola         = models.MenuItem{ID: "drink-cola", Name: "Cola", Price: 2.5, Category: "Drinks"}
	margherita   = models.MenuItem{ID: "pizza-margherita", Name: "Margherita Pizza", Price: 12.5, Category: "Pizza"}
)

func TestAdd_AppendsAndMerges(t *testing.T) {
	var c models.Cart

	c = Add(c, cheeseburger, 2)
	c = Add(c, cola, 1)
	c = Add(c, cheeseburger, 3)

	require.Len(t, c, 2)
	assert.Equal(t, "burger-cheese", c[0].ID)
	assert.Equal(t, 5, c[0].Qty)
	assert.Equal(t, "drink-cola", c[1].ID)
	assert.Equal(t, 1, c[1].Qty)
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name            string
		qty             int
		expectedRemoved int
		expectedLines   int
		expectedQty     int
	}{
		{"partial", 1, 1, 2, 2},
		{"exact quantity deletes line", 3, 3, 1, 0},
		{"more than present deletes line", 10, 3, 1, 0},
		{"remove all", RemoveAll, 3, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := models.Cart{}
			c = Add(c, cola, 3)
			c = Add(c, margherita, 1)

			c, removed := Remove(c, cola, tt.qty)

			assert.Equal(t, tt.expectedRemoved, removed)
			require.Len(t, c, tt.expectedLines)
			if tt.expectedQty > 0 {
				assert.Equal(t, tt.expectedQty, c[0].Qty)
			} else {
				assert.Equal(t, "pizza-margherita", c[0].ID)
			}
		})
	}
}

func TestRemove_AbsentItem(t *testing.T) {
	c := Add(models.Cart{}, cola, 1)

	after, removed := Remove(c, cheeseburger, 1)

	assert.Equal(t, 0, removed)
	assert.Equal(t, c, after)
}

func TestAddRemove_RoundTrip(t *testing.T) {
	for _, qty := range []int{1, 2, 7} {
		before := Add(Add(models.Cart{}, margherita, 2), cola, 1)
		snapshot := Clone(before)

		c := Add(before, cola, qty)
		c, removed := Remove(c, cola, qty)

		assert.Equal(t, qty, removed)
		assert.Equal(t, snapshot, c)

		c = Add(c, cheeseburger, qty)
		c, _ = Remove(c, cheeseburger, qty)
		assert.Equal(t, snapshot, c)
	}
}

func TestClone_IsIndependent(t *testing.T) {
	c := Add(models.Cart{}, cola, 1)
	snap := Clone(c)

	c[0].Qty = 9

	assert.Equal(t, 1, snap[0].Qty)
	assert.NotNil(t, Clone(nil))
}

func TestCalculateTotals(t *testing.T) {
	tests := []struct {
		name     string
		cart     models.Cart
		expected models.Totals
	}{
		{"empty", models.Cart{}, models.Totals{}},
		{"two cheeseburgers", Add(models.Cart{}, cheeseburger, 2), models.Totals{Subtotal: 19.98, Tax: 1.77, Total: 21.75}},
		{"mixed", Add(Add(models.Cart{}, margherita, 1), cola, 2), models.Totals{Subtotal: 17.5, Tax: 1.55, Total: 19.05}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTotals(tt.cart, DefaultTaxRate)
			assert.InDelta(t, tt.expected.Subtotal, got.Subtotal, 1e-9)
			assert.InDelta(t, tt.expected.Tax, got.Tax, 1e-9)
			assert.InDelta(t, tt.expected.Total, got.Total, 1e-9)
		})
	}
}

func TestCalculateTotals_NeverStale(t *testing.T) {
	c := Add(models.Cart{}, cola, 1)
	first := CalculateTotals(c, DefaultTaxRate)

	c = Add(c, cola, 1)
	second := CalculateTotals(c, DefaultTaxRate)

	assert.Greater(t, second.Total, first.Total)
	assert.InDelta(t, 5.0, second.Subtotal, 1e-9)
}
