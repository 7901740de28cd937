package nlu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/menu"
	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

func TestItemMatcher_Match(t *testing.T) {
	m := NewItemMatcher(menu.DefaultItems)

	tests := []struct {
		name       string
		text       string
		expectedID string
	}{
		{"full name", "margherita pizza", "pizza-margherita"},
		{"plural compound", "order 2 cheeseburgers", "burger-cheese"},
		{"distinct word wins", "order 1 pepperoni pizza", "pizza-pepperoni"},
		{"drink", "remove 1 cola", "drink-cola"},
		{"article does not outscore item", "give me a cola", "drink-cola"},
		{"two word drink", "i want an iced tea", "drink-icedtea"},
		{"category only ties go to first item", "order pizzas", "pizza-margherita"},
		{"bbq", "get the bbq chicken one", "pizza-bbq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := m.Match(tt.text)
			require.True(t, ok, "expected a match for %q", tt.text)
			assert.Equal(t, tt.expectedID, item.ID)
		})
	}
}

func TestItemMatcher_NoMatch(t *testing.T) {
	m := NewItemMatcher(menu.DefaultItems)

	for _, text := range []string{"asdf", "", "order something nice", "xyz 42"} {
		_, ok := m.Match(text)
		assert.False(t, ok, "expected no match for %q", text)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		tokens   []string
		expected int
	}{
		{"exact token", []string{"cola"}, 2},
		{"trimmed suffix", []string{"colas"}, 1},
		{"short token not trimmed", []string{"col"}, 2},
		{"category substring", []string{"drink"}, 1},
		{"category contained in token", []string{"softdrinks"}, 1},
		{"additive across tokens", []string{"cola", "drink"}, 3},
		{"no match", []string{"pizza"}, 0},
		{"empty token ignored", []string{""}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Score("cola", "drinks", tt.tokens))
		})
	}
}

func TestScore_PluralCompoundReachesThreshold(t *testing.T) {
	score := Score(Normalize("Cheeseburger"), Normalize("Burgers"), []string{"cheeseburgers"})
	assert.Equal(t, MinMatchScore, score)
}

func TestItemMatcher_TieKeepsFirstDeclared(t *testing.T) {
	items := []models.MenuItem{
		{ID: "a", Name: "House Soup", Category: "Soups"},
		{ID: "b", Name: "House Soup", Category: "Soups"},
	}
	m := NewItemMatcher(items)

	item, ok := m.Match("house soup")
	require.True(t, ok)
	assert.Equal(t, "a", item.ID)
}
