package nlu

import (
	"math"
	"regexp"
	"strconv"
)

var digitsPattern = regexp.MustCompile(`\b(\d+)\b`)

type numberWord struct {
	word    string
	pattern *regexp.Regexp
	value   int
}

// numberWords is checked in declaration order, not by position in the text:
// "a two piece" resolves to 2 because "two" precedes "a" here.
var numberWords = buildNumberWords([]struct {
	word  string
	value int
}{
	{"one", 1}, {"two", 2}, {"three", 3}, {"four", 4}, {"five", 5},
	{"six", 6}, {"seven", 7}, {"eight", 8}, {"nine", 9}, {"ten", 10},
	{"a", 1}, {"an", 1},
})

func buildNumberWords(entries []struct {
	word  string
	value int
}) []numberWord {
	out := make([]numberWord, len(entries))
	for i, e := range entries {
		out[i] = numberWord{
			word:    e.word,
			pattern: regexp.MustCompile(`\b` + e.word + `\b`),
			value:   e.value,
		}
	}
	return out
}

// ParseQuantity extracts a positive quantity from normalized text. The first digit run wins
// (floored to 1), then the number-word table, then 1.
func ParseQuantity(normalized string) int {
	if m := digitsPattern.FindStringSubmatch(normalized); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			// only overflow can fail here
			return math.MaxInt32
		}
		if n > math.MaxInt32 {
			return math.MaxInt32
		}
		if n < 1 {
			return 1
		}
		return n
	}

	for _, nw := range numberWords {
		if nw.pattern.MatchString(normalized) {
			return nw.value
		}
	}

	return 1
}
