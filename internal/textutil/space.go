package textutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// IsHTMLSpace reports whether r is collapsible white space in rendered HTML.
func IsHTMLSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// TrimmedLen returns the rune count of s without leading and trailing white space.
func TrimmedLen(s string) int {
	return utf8.RuneCountInString(strings.TrimFunc(s, unicode.IsSpace))
}
