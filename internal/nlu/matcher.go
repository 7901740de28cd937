package nlu

import (
	"strings"

	"github.com/tm-acme-shop/acme-shop-orderbot-service/internal/models"
)

// MinMatchScore is the lowest score accepted as a match.
const MinMatchScore = 2

type indexedItem struct {
	item     models.MenuItem
	name     string
	category string
}

// ItemMatcher scores catalog items against message tokens.
type ItemMatcher struct {
	items []indexedItem
}

// NewItemMatcher indexes items in the given order. Earlier items win ties.
func NewItemMatcher(items []models.MenuItem) *ItemMatcher {
	m := &ItemMatcher{items: make([]indexedItem, len(items))}
	for i, item := range items {
		m.items[i] = indexedItem{
			item:     item,
			name:     Normalize(item.Name),
			category: Normalize(item.Category),
		}
	}
	return m
}

// Score computes an item's score for the given tokens:
// +2 per token found in the name, otherwise +1 if the token is at least four characters
// and its last character dropped is found in the name; then +1 per token that is found in
// the category or that contains the category ("cheeseburgers" contains "burgers").
// The contains-category rule is a deliberate extension of plain category substring
// matching; without it plural compounds like "cheeseburgers" fall below MinMatchScore.
func Score(name, category string, tokens []string) int {
	score := 0
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(name, t) {
			score += 2
		} else if len(t) >= 4 && strings.Contains(name, t[:len(t)-1]) {
			score++
		}
	}
	for _, t := range tokens {
		if t == "" {
			continue
		}
		if strings.Contains(category, t) || (category != "" && strings.Contains(t, category)) {
			score++
		}
	}
	return score
}

// Match returns the best scoring item for normalized text, or false when nothing scores
// at least MinMatchScore.
func (m *ItemMatcher) Match(normalized string) (models.MenuItem, bool) {
	item, score := m.best(Tokens(normalized))
	if score < MinMatchScore {
		return models.MenuItem{}, false
	}
	return item, true
}

func (m *ItemMatcher) best(tokens []string) (models.MenuItem, int) {
	var best models.MenuItem
	bestScore := 0
	for _, it := range m.items {
		if s := Score(it.name, it.category, tokens); s > bestScore {
			bestScore = s
			best = it.item
		}
	}
	return best, bestScore
}
