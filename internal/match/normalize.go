package match

import (
	"strings"
	"unicode"
)

// Fold normalizes an identifier so that "createdAt", "CreatedAt" and
// "created_at" produce the same key.
func Fold(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}
