package highlight

import (
	"fmt"
	"slices"
)

// MatchRange is a half-open range [Start, End) of logical offsets.
type MatchRange struct {
	Start int
	End   int
}

func (m MatchRange) String() string {
	return fmt.Sprintf("[%d,%d)", m.Start, m.End)
}

// Len returns the number of runes covered.
func (m MatchRange) Len() int {
	return m.End - m.Start
}

// Overlaps reports whether m and o share at least one rune. Ranges that only
// touch at a boundary do not overlap.
func (m MatchRange) Overlaps(o MatchRange) bool {
	return m.Start < o.End && m.End > o.Start
}

// FindMatches returns every case-insensitive occurrence of query in logical,
// scanning left to right and resuming after each hit, so the result is sorted
// and no two ranges share a rune. An empty query matches nothing.
func FindMatches(logical LogicalString, query string) []MatchRange {
	needle := Fold(query)
	n, m := len(logical), len(needle)
	if m == 0 || m > n {
		return nil
	}

	var matches []MatchRange
	for i := 0; i+m <= n; {
		if logical[i] == needle[0] && slices.Equal(logical[i:i+m], needle) {
			matches = append(matches, MatchRange{Start: i, End: i + m})
			i += m
			continue
		}
		i++
	}
	return matches
}

// ExcludeOverlapping drops the matches that intersect sel. An empty selection
// excludes nothing.
func ExcludeOverlapping(matches []MatchRange, sel MatchRange) []MatchRange {
	if sel.Start >= sel.End {
		return matches
	}
	kept := make([]MatchRange, 0, len(matches))
	for _, m := range matches {
		if m.Overlaps(sel) {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}
