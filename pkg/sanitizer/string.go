package sanitizer

import (
	"strings"
	"unicode"
)

// CollapseWhitespace trims s and folds every whitespace run into one space.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// StripInvisible drops control and format characters (zero-width spaces,
// BOMs, direction marks) that come along when names are pasted into forms.
// Whitespace is kept for CollapseWhitespace.
func StripInvisible(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return r
		}
		if unicode.IsControl(r) || unicode.Is(unicode.Cf, r) {
			return -1
		}
		return r
	}, s)
}
