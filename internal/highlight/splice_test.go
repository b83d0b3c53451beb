package highlight

import (
	"testing"

	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func TestApplyMatchesWrapsEveryOccurrence(t *testing.T) {
	body := parseBody(t, `<p>the quick fox the quick fox</p>`)
	p := body.FirstChild
	leaf := p.FirstChild

	_, markers := pipeline(body, "quick")

	require.Len(t, markers, 2)
	assert.Equal(t, []string{"quick", "quick"}, markerTexts(markers))
	assert.Equal(t, `the <mark data-selmark="">quick</mark> fox the <mark data-selmark="">quick</mark> fox`, innerHTML(p))

	RemoveMarkers(markers)
	assert.Equal(t, "the quick fox the quick fox", innerHTML(p))
	assert.Same(t, leaf, p.FirstChild, "the original leaf survives the round trip")
	assert.Nil(t, leaf.NextSibling)
}

func TestApplyMatchesJoinsAdjacentLeaves(t *testing.T) {
	p, leaves := leafParagraph("ab", "cd", "ef")

	coll := Collect(p, AcceptAll)
	require.Equal(t, "abcdef", coll.Logical.String())
	matches := FindMatches(coll.Logical, "bcde")
	require.Equal(t, []MatchRange{{1, 5}}, matches)

	markers := ApplyMatches(coll.Segments, matches, plainMarkers)
	require.Len(t, markers, 1)
	assert.Equal(t, "bcde", markers[0].Text())
	assert.Equal(t, MatchRange{1, 5}, markers[0].Match)
	assert.Equal(t, `a<mark data-selmark="">bcde</mark>f`, innerHTML(p))

	RemoveMarkers(markers)
	assertSameLeaves(t, leaves, childLeaves(p))
	assert.Equal(t, []string{"ab", "cd", "ef"}, []string{leaves[0].Data, leaves[1].Data, leaves[2].Data})
}

func TestApplyMatchesAcrossParentsMakesOneMarkerPerParent(t *testing.T) {
	body := parseBody(t, `<p>x<b>ab</b>cd</p>`)
	p := body.FirstChild

	_, markers := pipeline(body, "bc")

	require.Len(t, markers, 2)
	assert.Equal(t, markers[0].Match, markers[1].Match, "both parts belong to the same match")
	assert.Equal(t, []string{"b", "c"}, markerTexts(markers))
	assert.Equal(t, `x<b>a<mark data-selmark="">b</mark></b><mark data-selmark="">c</mark>d`, innerHTML(p))

	RemoveMarkers(markers)
	assert.Equal(t, `x<b>ab</b>cd`, innerHTML(p))
}

func TestRemoveMarkersUndoesSplitsInGlobalOrder(t *testing.T) {
	// The first marker extends into the second leaf, which is split again
	// afterwards for the next match.
	p, leaves := leafParagraph("ab", "cxbc")

	coll := Collect(p, AcceptAll)
	matches := FindMatches(coll.Logical, "bc")
	require.Equal(t, []MatchRange{{1, 3}, {4, 6}}, matches)

	markers := ApplyMatches(coll.Segments, matches, plainMarkers)
	require.Len(t, markers, 2)
	assert.Equal(t, `a<mark data-selmark="">bc</mark>x<mark data-selmark="">bc</mark>`, innerHTML(p))

	RemoveMarkers(markers)
	assert.Equal(t, "abcxbc", innerHTML(p))
	assertSameLeaves(t, leaves, childLeaves(p))
	assert.Equal(t, "ab", leaves[0].Data)
	assert.Equal(t, "cxbc", leaves[1].Data)
}

func TestApplyMatchesLeavesNoEmptyText(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		query string
		want  string
	}{
		{"match at start", `<p>fox trot</p>`, "fox", `<mark data-selmark="">fox</mark> trot`},
		{"match at end", `<p>the fox</p>`, "fox", `the <mark data-selmark="">fox</mark>`},
		{"whole leaf", `<p>fox</p>`, "fox", `<mark data-selmark="">fox</mark>`},
		{"back to back", `<p>foxfox</p>`, "fox", `<mark data-selmark="">fox</mark><mark data-selmark="">fox</mark>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := parseBody(t, tt.src)
			p := body.FirstChild
			_, markers := pipeline(body, tt.query)
			require.NotEmpty(t, markers)
			assert.Equal(t, tt.want, innerHTML(p))

			dom.Walk(p, func(n *html.Node) bool {
				if n.Type == html.TextNode {
					assert.NotEmpty(t, n.Data, "empty text leaf under %s", n.Parent.Data)
				}
				return true
			})

			RemoveMarkers(markers)
			assert.Len(t, childLeaves(p), 1)
		})
	}
}

func TestApplyMatchesSkipsChangedLeaves(t *testing.T) {
	body := parseBody(t, `<p>fox</p><p>fox</p>`)
	coll := Collect(body, AcceptAll)
	matches := FindMatches(coll.Logical, "fox")
	require.Len(t, matches, 2)

	coll.Segments[0].Node.Data = "dog"
	markers := ApplyMatches(coll.Segments, matches, plainMarkers)

	require.Len(t, markers, 1)
	assert.Equal(t, MatchRange{3, 6}, markers[0].Match)
	assert.Equal(t, "dog", innerHTML(body.FirstChild))
}

func TestApplyMatchesWithoutInput(t *testing.T) {
	p, _ := leafParagraph("fox")
	coll := Collect(p, AcceptAll)

	assert.Nil(t, ApplyMatches(nil, []MatchRange{{0, 3}}, plainMarkers))
	assert.Nil(t, ApplyMatches(coll.Segments, nil, plainMarkers))
	assert.Equal(t, "fox", innerHTML(p))
}

func TestApplyMatchesDefaultMarkerStyle(t *testing.T) {
	p, _ := leafParagraph("a fox")
	coll := Collect(p, AcceptAll)

	markers := ApplyMatches(coll.Segments, FindMatches(coll.Logical, "fox"), nil)
	require.Len(t, markers, 1)
	el := markers[0].Element
	assert.True(t, IsMarker(el))
	assert.Equal(t, "mark", el.Data)
	class, _ := dom.Attr(el, "class")
	assert.Equal(t, DefaultMarkerStyle().Class, class)
	assert.True(t, InsideMarker(el.FirstChild))
	assert.False(t, InsideMarker(p.FirstChild))
}

func TestRemoveMarkersAfterExternalEdit(t *testing.T) {
	body := parseBody(t, `<p>a quick fox</p>`)
	p := body.FirstChild
	_, markers := pipeline(body, "quick")
	require.Len(t, markers, 1)

	// Someone replaced the marker's text behind our back.
	el := markers[0].Element
	el.RemoveChild(el.FirstChild)
	el.AppendChild(&html.Node{Type: html.TextNode, Data: "QUICK"})

	RemoveMarkers(markers)
	assert.Equal(t, "a QUICK fox", innerHTML(p))
	assert.Len(t, childLeaves(p), 1, "text runs are merged")
	assert.False(t, markers[0].Attached())
}

func TestRemoveMarkersDetachedMarker(t *testing.T) {
	body := parseBody(t, `<p>a quick fox</p>`)
	p := body.FirstChild
	_, markers := pipeline(body, "quick")
	require.Len(t, markers, 1)

	p.RemoveChild(markers[0].Element)

	assert.NotPanics(t, func() { RemoveMarkers(markers) })
	assert.Equal(t, "a  fox", dom.TextContent(p))
}

func TestRemoveMarkersRemapsSelection(t *testing.T) {
	body := parseBody(t, `<p>one fox two</p>`)
	p := body.FirstChild
	leaf := p.FirstChild
	_, markers := pipeline(body, "fox")
	require.Len(t, markers, 1)

	inner := markers[0].Element.FirstChild
	tail := markers[0].Element.NextSibling
	require.Equal(t, " two", tail.Data)

	sel := Selection{AnchorNode: tail, AnchorOffset: 2, FocusNode: inner, FocusOffset: 1}
	remap := RemoveMarkers(markers)

	assert.Equal(t, 2, remap.Len())
	moved := sel.Relocated(remap)
	assert.Same(t, leaf, moved.AnchorNode)
	assert.Equal(t, 9, moved.AnchorOffset)
	assert.Same(t, leaf, moved.FocusNode)
	assert.Equal(t, 5, moved.FocusOffset)

	other := &html.Node{Type: html.TextNode, Data: "x"}
	n, off := remap.Locate(other, 1)
	assert.Same(t, other, n)
	assert.Equal(t, 1, off)
}

func assertSameLeaves(t *testing.T, want, got []*html.Node) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Same(t, want[i], got[i], "leaf %d", i)
	}
}
