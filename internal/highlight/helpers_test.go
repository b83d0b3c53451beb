package highlight

import (
	"strings"
	"testing"

	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// plainMarkers renders markers as bare <mark data-selmark=""> elements so
// expected HTML stays readable.
var plainMarkers = NewMarkerFactory(MarkerStyle{Tag: "mark"})

func parseBody(t *testing.T, src string) *html.Node {
	t.Helper()
	root, err := dom.ParseString(src)
	require.NoError(t, err)
	return dom.Body(root)
}

// leafParagraph builds <p> holding one text leaf per part, the way scripted
// DOM edits leave adjacent text nodes behind.
func leafParagraph(parts ...string) (*html.Node, []*html.Node) {
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	leaves := make([]*html.Node, 0, len(parts))
	for _, s := range parts {
		leaf := &html.Node{Type: html.TextNode, Data: s}
		p.AppendChild(leaf)
		leaves = append(leaves, leaf)
	}
	return p, leaves
}

func innerHTML(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(dom.RenderString(c))
	}
	return b.String()
}

func markerTexts(markers []*Marker) []string {
	out := make([]string, 0, len(markers))
	for _, m := range markers {
		out = append(out, m.Text())
	}
	return out
}

func childLeaves(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			out = append(out, c)
		}
	}
	return out
}

// pipeline runs one full pass without a controller.
func pipeline(root *html.Node, query string) (*Collection, []*Marker) {
	coll := Collect(root, NewDefaultFilter(root, DefaultFilterOptions(), nil))
	matches := FindMatches(coll.Logical, query)
	return coll, ApplyMatches(coll.Segments, matches, plainMarkers)
}
