package nlu

import (
	"math"
	"testing"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected int
	}{
		{"number word", "order two pizzas", 2},
		{"digits", "order 5 burgers", 5},
		{"article", "give me a cola", 1},
		{"an", "i want an iced tea", 1},
		{"ten", "add ten colas", 10},
		{"zero floors to one", "order 0 burgers", 1},
		{"first digit run wins", "order 3 burgers and 4 colas", 3},
		{"digits beat words", "order two 7 pizzas", 7},
		{"digits inside words ignored", "order 2nd pizza", 1},
		{"table order beats text order", "a pizza and three colas", 3},
		{"two before a", "get a two pack", 2},
		{"word boundaries respected", "someone wants tone", 1},
		{"default", "order pizza", 1},
		{"empty", "", 1},
		{"huge literal clamps", "order 99999999999999999999 colas", math.MaxInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseQuantity(tt.text); got != tt.expected {
				t.Errorf("ParseQuantity(%q) = %d, want %d", tt.text, got, tt.expected)
			}
		})
	}
}
