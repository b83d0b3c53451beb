package highlight

import "golang.org/x/net/html"

// Selection is the user's live selection. Offsets count runes inside the
// anchor and focus text leaves; the anchor may come after the focus.
type Selection struct {
	AnchorNode   *html.Node
	AnchorOffset int
	FocusNode    *html.Node
	FocusOffset  int
	// Text is the plain-text rendering of the selected content.
	Text string
}

// Relocated returns the selection with both endpoints moved through r.
func (s Selection) Relocated(r *Remap) Selection {
	s.AnchorNode, s.AnchorOffset = r.Locate(s.AnchorNode, s.AnchorOffset)
	s.FocusNode, s.FocusOffset = r.Locate(s.FocusNode, s.FocusOffset)
	return s
}

// SelectionProvider exposes the host's current selection. It is only read.
type SelectionProvider interface {
	Selection() Selection
}

// SelectionFunc adapts a function to SelectionProvider.
type SelectionFunc func() Selection

func (f SelectionFunc) Selection() Selection {
	return f()
}

// Remap records where text moved when markers were removed: a leaf created by
// a split was folded back into the leaf it came from, at some rune offset.
type Remap struct {
	moves map[*html.Node]move
}

type move struct {
	to   *html.Node
	base int
}

func (r *Remap) record(from, to *html.Node, base int) {
	if r.moves == nil {
		r.moves = map[*html.Node]move{}
	}
	r.moves[from] = move{to: to, base: base}
}

// Locate follows n through every recorded move and returns the surviving leaf
// with the offset shifted accordingly. Unknown nodes are returned unchanged.
func (r *Remap) Locate(n *html.Node, offset int) (*html.Node, int) {
	if r == nil || n == nil {
		return n, offset
	}
	for range len(r.moves) {
		mv, ok := r.moves[n]
		if !ok {
			break
		}
		n, offset = mv.to, offset+mv.base
	}
	return n, offset
}

// Len returns the number of recorded moves.
func (r *Remap) Len() int {
	if r == nil {
		return 0
	}
	return len(r.moves)
}
