package textutil

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const DefaultTabWidth = 4

// ClusterWidth reports the number of terminal cells a single grapheme cluster
// occupies. Zero-width clusters still take one cell so they stay selectable.
func ClusterWidth(cluster string) int {
	if cluster == "" {
		return 0
	}
	var w int
	if r, size := utf8.DecodeRuneInString(cluster); size == len(cluster) {
		w = runewidth.RuneWidth(r)
	} else {
		w = uniseg.StringWidth(cluster)
	}
	if w <= 0 {
		w = 1
	}
	return w
}

// DisplayWidth reports the printable width of text, measured per grapheme cluster.
func DisplayWidth(text string) int {
	width := 0
	state := -1
	rest := text
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		width += ClusterWidth(cluster)
	}
	return width
}

// NextTabStop returns the column reached by a tab typed at column.
func NextTabStop(column, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = DefaultTabWidth
	}
	return column + tabWidth - column%tabWidth
}
