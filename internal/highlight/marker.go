package highlight

import (
	"strings"

	"github.com/kk-code-lab/selmark/internal/dom"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// MarkerAttr identifies marker elements in the tree.
const MarkerAttr = "data-selmark"

// MarkerStyle is the presentation applied to marker elements.
type MarkerStyle struct {
	Tag   string
	Class string
	Style string
}

// DefaultMarkerStyle returns a translucent inline highlight.
func DefaultMarkerStyle() MarkerStyle {
	return MarkerStyle{
		Tag:   "mark",
		Class: "selmark-highlight",
		Style: "background-color: rgba(255, 213, 0, 0.4); display: inline; vertical-align: baseline; line-height: inherit",
	}
}

// MarkerFactory returns a new, detached, childless marker element.
type MarkerFactory func() *html.Node

// NewMarkerFactory builds markers with the given style.
func NewMarkerFactory(style MarkerStyle) MarkerFactory {
	tag := strings.ToLower(strings.TrimSpace(style.Tag))
	if tag == "" {
		tag = "mark"
	}
	a := atom.Lookup([]byte(tag))
	return func() *html.Node {
		n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: a}
		n.Attr = append(n.Attr, html.Attribute{Key: MarkerAttr})
		if style.Class != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: style.Class})
		}
		if style.Style != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "style", Val: style.Style})
		}
		return n
	}
}

// IsMarker reports whether n is a marker element.
func IsMarker(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	_, ok := dom.Attr(n, MarkerAttr)
	return ok
}

// InsideMarker reports whether n is a marker or has a marker ancestor.
func InsideMarker(n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if IsMarker(n) {
			return true
		}
	}
	return false
}

// Marker is one applied match, or the part of it that lives under one parent.
// It remembers every split that built it so RemoveMarkers can undo them.
type Marker struct {
	Element *html.Node
	// Match is the whole logical range the marker belongs to. Markers of a
	// match that spans several parents share it.
	Match  MatchRange
	splits []split
}

// Text returns the text currently wrapped by the marker.
func (m *Marker) Text() string {
	if m == nil {
		return ""
	}
	return dom.TextContent(m.Element)
}

// Attached reports whether the marker element is still in a tree.
func (m *Marker) Attached() bool {
	return m != nil && m.Element != nil && m.Element.Parent != nil
}
