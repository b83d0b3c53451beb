package highlight

import (
	"cmp"
	"slices"
	"sync/atomic"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// spliceSeq orders splits globally so undo can replay them backwards even
// when a marker collects splits from several leaves.
var spliceSeq atomic.Uint64

// split is one three-way cut of a leaf into (pre, match, post).
type split struct {
	seq uint64
	// holder keeps the pre-match text; nil when the match began the leaf, in
	// which case inner is the original leaf itself.
	holder *html.Node
	// inner is the text node wrapped by the marker.
	inner *html.Node
	// tail holds the post-match text; nil when the match ended the leaf.
	tail *html.Node
	// extends is set when inner joined a marker created for the previous leaf.
	extends bool
}

type portion struct {
	lo, hi int
	match  MatchRange
}

// ApplyMatches wraps every match in marker elements, editing the leaves of
// segments in place. Matches must be sorted and non-overlapping, as produced
// by FindMatches. Within a leaf, matches are cut right to left so the local
// offsets of earlier matches stay valid. A match running across adjacent
// sibling leaves ends up in a single marker; across different parents it gets
// one marker per parent. Leaves that changed since collection are skipped.
// Markers are returned in creation order.
func ApplyMatches(segments []Segment, matches []MatchRange, newMarker MarkerFactory) []*Marker {
	if len(segments) == 0 || len(matches) == 0 {
		return nil
	}
	if newMarker == nil {
		newMarker = NewMarkerFactory(DefaultMarkerStyle())
	}

	var markers []*Marker
	var open *Marker
	mi := 0
	for _, seg := range segments {
		for mi < len(matches) && matches[mi].End <= seg.Start {
			mi++
		}
		var portions []portion
		for j := mi; j < len(matches) && matches[j].Start < seg.End; j++ {
			m := matches[j]
			lo := max(m.Start, seg.Start) - seg.Start
			hi := min(m.End, seg.End) - seg.Start
			if lo >= hi {
				continue
			}
			portions = append(portions, portion{lo: lo, hi: hi, match: m})
		}
		if len(portions) == 0 || !leafIntact(seg) {
			open = nil
			continue
		}

		var next *Marker
		for k := len(portions) - 1; k >= 0; k-- {
			p := portions[k]
			var carry *Marker
			if p.lo == 0 && open != nil && open.Match == p.match {
				carry = open
			}
			mk := cut(seg.Node, p, carry, newMarker)
			if mk == nil {
				continue
			}
			if mk != carry {
				markers = append(markers, mk)
			}
			if k == len(portions)-1 && p.match.End > seg.End {
				next = mk
			}
		}
		open = next
	}
	return markers
}

// leafIntact reports whether the segment's leaf still holds the text it was
// collected with.
func leafIntact(seg Segment) bool {
	n := seg.Node
	return n != nil && n.Type == html.TextNode && n.Parent != nil && n.Data == seg.Content
}

// cut splits leaf around p and wraps the matched slice. When carry is set and
// still directly precedes the leaf, the slice joins carry instead of getting a
// marker of its own.
func cut(leaf *html.Node, p portion, carry *Marker, newMarker MarkerFactory) *Marker {
	runes := []rune(leaf.Data)
	if p.lo < 0 || p.hi > len(runes) || p.lo >= p.hi {
		return nil
	}
	parent := leaf.Parent
	pre, mid, post := runes[:p.lo], runes[p.lo:p.hi], runes[p.hi:]

	s := split{seq: spliceSeq.Add(1)}
	if len(post) > 0 {
		s.tail = &html.Node{Type: html.TextNode, Data: string(post)}
		parent.InsertBefore(s.tail, leaf.NextSibling)
	}
	if len(pre) > 0 {
		leaf.Data = string(pre)
		s.holder = leaf
		s.inner = &html.Node{Type: html.TextNode, Data: string(mid)}
	} else {
		leaf.Data = string(mid)
		s.inner = leaf
	}

	if carry != nil && s.holder == nil && leaf.PrevSibling == carry.Element {
		parent.RemoveChild(leaf)
		carry.Element.AppendChild(leaf)
		s.extends = true
		carry.splits = append(carry.splits, s)
		return carry
	}

	el := newMarker()
	if s.holder != nil {
		parent.InsertBefore(el, leaf.NextSibling)
		el.AppendChild(s.inner)
	} else {
		parent.InsertBefore(el, leaf)
		parent.RemoveChild(leaf)
		el.AppendChild(leaf)
	}
	return &Marker{Element: el, Match: p.match, splits: []split{s}}
}

// RemoveMarkers reverses every split recorded by markers, newest first, so
// each original leaf gets back its node identity and text. Markers whose
// structure was changed by someone else are unwrapped and their text merged
// with neighbouring leaves instead. The returned Remap relocates positions
// that pointed into leaves created by splitting.
func RemoveMarkers(markers []*Marker) *Remap {
	remap := &Remap{}

	type pending struct {
		el *html.Node
		s  split
	}
	var all []pending
	for _, mk := range markers {
		if mk == nil {
			continue
		}
		for _, s := range mk.splits {
			all = append(all, pending{el: mk.Element, s: s})
		}
	}
	slices.SortFunc(all, func(a, b pending) int {
		return cmp.Compare(b.s.seq, a.s.seq)
	})
	for _, p := range all {
		p.s.undo(p.el, remap)
	}

	for _, mk := range markers {
		if mk == nil {
			continue
		}
		mk.splits = nil
		unwrap(mk.Element, remap)
	}
	return remap
}

func (s split) undo(el *html.Node, remap *Remap) {
	if el == nil || s.inner == nil || s.inner.Parent != el || el.Parent == nil {
		return
	}
	if s.tail != nil && s.tail.Parent == nil {
		return
	}

	var survivor *html.Node
	switch {
	case s.holder != nil:
		if s.holder.Parent == nil {
			return
		}
		remap.record(s.inner, s.holder, utf8.RuneCountInString(s.holder.Data))
		s.holder.Data += s.inner.Data
		el.RemoveChild(s.inner)
		survivor = s.holder
	case s.extends:
		el.RemoveChild(s.inner)
		el.Parent.InsertBefore(s.inner, el.NextSibling)
		survivor = s.inner
	default:
		el.RemoveChild(s.inner)
		el.Parent.InsertBefore(s.inner, el)
		survivor = s.inner
	}

	if s.tail != nil {
		remap.record(s.tail, survivor, utf8.RuneCountInString(survivor.Data))
		survivor.Data += s.tail.Data
		s.tail.Parent.RemoveChild(s.tail)
	}
}

// unwrap detaches a marker element. Anything still inside it is moved out in
// place and merged with adjacent text leaves.
func unwrap(el *html.Node, remap *Remap) {
	if el == nil || el.Parent == nil {
		return
	}
	parent := el.Parent
	if el.FirstChild == nil {
		parent.RemoveChild(el)
		return
	}
	for c := el.FirstChild; c != nil; {
		next := c.NextSibling
		el.RemoveChild(c)
		parent.InsertBefore(c, el)
		c = next
	}
	parent.RemoveChild(el)
	mergeTextRuns(parent, remap)
}

func mergeTextRuns(parent *html.Node, remap *Remap) {
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.TextNode {
			continue
		}
		for next := c.NextSibling; next != nil && next.Type == html.TextNode; next = c.NextSibling {
			remap.record(next, c, utf8.RuneCountInString(c.Data))
			c.Data += next.Data
			parent.RemoveChild(next)
		}
	}
}
