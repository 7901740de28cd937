// Package nlu turns free-form chat text into the pieces the intent router works with:
// canonical text, tokens, quantities and catalog matches.
package nlu

import "strings"

// Normalize lowercases s, replaces everything except ASCII letters, digits and whitespace
// with a space, collapses whitespace runs and trims. The result holds only [a-z0-9 ].
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		// punctuation and whitespace both end a word
		pendingSpace = true
	}

	return b.String()
}

// Tokens splits normalized text into words. Empty input yields no tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}

// Words normalizes s and splits it.
func Words(s string) []string {
	return Tokens(Normalize(s))
}
