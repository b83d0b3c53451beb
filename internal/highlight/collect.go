package highlight

import (
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// Segment is the text of one leaf and its range in the logical string.
// Offsets count runes.
type Segment struct {
	Content string
	Start   int
	End     int
	// Node is the leaf the text belongs to. The tree owns it.
	Node *html.Node
}

// Len returns the rune length of the segment's range.
func (s Segment) Len() int {
	return s.End - s.Start
}

// LogicalString is the case-folded concatenation of all segment contents.
// Folding maps each rune to exactly one rune, so offsets line up with the
// original leaf text.
type LogicalString []rune

func (l LogicalString) String() string {
	return string(l)
}

// Collection is the result of one collection pass.
type Collection struct {
	Segments []Segment
	Logical  LogicalString
	index    map[*html.Node]int
}

// Empty reports whether the pass found no searchable text.
func (c *Collection) Empty() bool {
	return c == nil || len(c.Segments) == 0
}

// Collect walks the tree under root in document order and gathers the text
// leaves accepted by policy. A nil policy accepts everything.
func Collect(root *html.Node, policy FilterPolicy) *Collection {
	c := &Collection{index: map[*html.Node]int{}}
	if root == nil {
		return c
	}
	if policy == nil {
		policy = AcceptAll
	}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if n.Data == "" || policy.Filter(n) != Accept {
				return
			}
			c.add(n)
			return
		case html.ElementNode:
			if policy.Filter(n) == Reject {
				return
			}
		case html.DocumentNode:
		default:
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(root)
	return c
}

func (c *Collection) add(n *html.Node) {
	start := len(c.Logical)
	for _, r := range n.Data {
		c.Logical = append(c.Logical, foldRune(r))
	}
	c.index[n] = len(c.Segments)
	c.Segments = append(c.Segments, Segment{
		Content: n.Data,
		Start:   start,
		End:     len(c.Logical),
		Node:    n,
	})
}

// Locate maps a rune offset inside a collected leaf to a logical offset.
// Offsets beyond the leaf are clamped to its bounds.
func (c *Collection) Locate(n *html.Node, offset int) (int, bool) {
	if c == nil || n == nil {
		return 0, false
	}
	idx, ok := c.index[n]
	if !ok {
		return 0, false
	}
	seg := c.Segments[idx]
	offset = max(0, min(offset, seg.Len()))
	return seg.Start + offset, true
}

// SelectionRange converts a selection into logical coordinates. It fails when
// either endpoint is not a collected leaf.
func (c *Collection) SelectionRange(sel Selection) (MatchRange, bool) {
	a, ok := c.Locate(sel.AnchorNode, sel.AnchorOffset)
	if !ok {
		return MatchRange{}, false
	}
	f, ok := c.Locate(sel.FocusNode, sel.FocusOffset)
	if !ok {
		return MatchRange{}, false
	}
	if a > f {
		a, f = f, a
	}
	return MatchRange{Start: a, End: f}, true
}

// Fold case-folds s rune by rune.
func Fold(s string) LogicalString {
	out := make(LogicalString, 0, utf8.RuneCountInString(s))
	for _, r := range s {
		out = append(out, foldRune(r))
	}
	return out
}

// foldRune maps r to the smallest rune of its simple case-folding orbit, so
// that e.g. 'k', 'K' and the Kelvin sign compare equal.
func foldRune(r rune) rune {
	least := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < least {
			least = f
		}
	}
	return least
}
