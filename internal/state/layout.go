package state

import (
	"strings"
	"unicode/utf8"

	"github.com/kk-code-lab/selmark/internal/highlight"
	"github.com/kk-code-lab/selmark/internal/textutil"
	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// SourceRun is the stretch of a text leaf that a cell stands for.
type SourceRun struct {
	Node *html.Node
	// Offset is the rune offset of Text in Node.Data.
	Offset int
	Text   string
	// Searchable is set when the filter policy collects the leaf.
	Searchable bool
}

// End returns the rune offset just past the run.
func (r SourceRun) End() int {
	return r.Offset + utf8.RuneCountInString(r.Text)
}

// Cell is one drawn grapheme cluster. Collapsed white space that was not drawn
// is carried in the runs of the next drawn cell, so the runs of all cells
// cover the rendered leaves in document order.
type Cell struct {
	Text   string
	Width  int
	Marked bool
	Runs   []SourceRun
}

// Line is one row of laid out text.
type Line struct {
	Cells []Cell
	Width int
}

// ColumnAt maps a screen column to a cell index. Columns past the end map to
// the last cell.
func (l Line) ColumnAt(x int) int {
	col := 0
	for i, c := range l.Cells {
		if x < col+c.Width {
			return i
		}
		col += c.Width
	}
	return max(0, len(l.Cells)-1)
}

// Text returns the drawn text of the line.
func (l Line) Text() string {
	var b strings.Builder
	for _, c := range l.Cells {
		b.WriteString(c.Text)
	}
	return b.String()
}

// Point addresses a cell by line and cell index.
type Point struct {
	Line int
	Col  int
}

// Before reports whether p comes before o in reading order.
func (p Point) Before(o Point) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Col < o.Col
}

// LayoutOptions controls BuildLayout.
type LayoutOptions struct {
	Width    int
	Wrap     bool
	TabWidth int
	// Policy decides which elements render and which leaves are searchable.
	Policy highlight.FilterPolicy
}

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Body: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Fieldset: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.Form: true, atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true,
	atom.H5: true, atom.H6: true, atom.Header: true, atom.Hr: true, atom.Li: true,
	atom.Main: true, atom.Nav: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Section: true, atom.Table: true, atom.Tr: true, atom.Ul: true,
}

// spacedBlocks are followed by an empty line.
var spacedBlocks = map[atom.Atom]bool{
	atom.Blockquote: true, atom.Dl: true, atom.Figure: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Hr: true, atom.Ol: true, atom.P: true, atom.Pre: true, atom.Table: true,
	atom.Ul: true,
}

// BuildLayout lays out the rendered text under root as terminal lines. White
// space collapses as in HTML outside <pre>; block elements start new lines.
func BuildLayout(root *html.Node, opts LayoutOptions) []Line {
	if opts.Policy == nil {
		opts.Policy = highlight.AcceptAll
	}
	if opts.TabWidth <= 0 {
		opts.TabWidth = textutil.DefaultTabWidth
	}
	b := &layoutBuilder{opts: opts}
	if root != nil {
		b.walk(root)
	}
	b.flushLine()
	lines := b.lines
	for len(lines) > 0 && len(lines[len(lines)-1].Cells) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

type layoutBuilder struct {
	opts    LayoutOptions
	lines   []Line
	cur     Line
	pending []SourceRun
	// space is set when the pending runs should be drawn as one space.
	space  bool
	pre    int
	marked int
}

func (b *layoutBuilder) walk(n *html.Node) {
	switch n.Type {
	case html.DocumentNode:
		b.children(n)
	case html.TextNode:
		b.text(n)
	case html.ElementNode:
		if b.opts.Policy.Filter(n) == highlight.Reject {
			return
		}
		if highlight.IsMarker(n) {
			b.marked++
			b.children(n)
			b.marked--
			return
		}
		switch n.DataAtom {
		case atom.Br:
			b.breakLine()
			return
		case atom.Td, atom.Th:
			b.softSpace()
		case atom.Pre:
			b.pre++
			defer func() { b.pre-- }()
		}
		if blockElements[n.DataAtom] {
			gap := spacedBlocks[n.DataAtom]
			b.endBlock(gap)
			b.children(n)
			b.endBlock(gap)
			return
		}
		b.children(n)
	}
}

func (b *layoutBuilder) children(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

func (b *layoutBuilder) text(n *html.Node) {
	searchable := b.opts.Policy.Filter(n) == highlight.Accept
	rest := n.Data
	state := -1
	offset := 0
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.FirstGraphemeClusterInString(rest, state)
		run := SourceRun{Node: n, Offset: offset, Text: cluster, Searchable: searchable}
		offset += utf8.RuneCountInString(cluster)

		switch {
		case b.pre > 0 && isSpaceCluster(cluster) && strings.ContainsAny(cluster, "\n\r"):
			b.addPending(run)
			b.breakLine()
		case b.pre > 0 && cluster == "\t":
			width := textutil.NextTabStop(b.cur.Width, b.opts.TabWidth) - b.cur.Width
			b.place(Cell{Text: strings.Repeat(" ", width), Width: width, Marked: b.marked > 0, Runs: append(b.takePending(), run)})
		case b.pre == 0 && isSpaceCluster(cluster):
			b.addPending(run)
			b.softSpace()
		default:
			b.emit(cluster, run)
		}
	}
}

func (b *layoutBuilder) emit(cluster string, run SourceRun) {
	display, _ := textutil.SanitizeCluster(cluster)
	width := textutil.ClusterWidth(display)
	if b.space {
		b.space = false
		if b.fits(1 + width) {
			runs := b.takePending()
			marked := len(runs) > 0 && highlight.InsideMarker(runs[0].Node)
			b.place(Cell{Text: " ", Width: 1, Marked: marked, Runs: runs})
		} else {
			b.flushLine()
		}
	}
	b.place(Cell{Text: display, Width: width, Marked: b.marked > 0, Runs: append(b.takePending(), run)})
}

func (b *layoutBuilder) fits(width int) bool {
	return !b.opts.Wrap || b.opts.Width <= 0 || b.cur.Width+width <= b.opts.Width
}

func (b *layoutBuilder) place(c Cell) {
	if len(b.cur.Cells) > 0 && !b.fits(c.Width) {
		b.flushLine()
	}
	b.cur.Cells = append(b.cur.Cells, c)
	b.cur.Width += c.Width
}

func (b *layoutBuilder) addPending(run SourceRun) {
	if n := len(b.pending); n > 0 {
		last := &b.pending[n-1]
		if last.Node == run.Node && last.End() == run.Offset && last.Searchable == run.Searchable {
			last.Text += run.Text
			return
		}
	}
	b.pending = append(b.pending, run)
}

func (b *layoutBuilder) takePending() []SourceRun {
	runs := b.pending
	b.pending = nil
	return runs
}

func (b *layoutBuilder) softSpace() {
	if len(b.cur.Cells) > 0 {
		b.space = true
	}
}

func (b *layoutBuilder) flushLine() {
	b.lines = append(b.lines, b.cur)
	b.cur = Line{}
}

func (b *layoutBuilder) breakLine() {
	b.flushLine()
	b.space = false
}

func (b *layoutBuilder) endBlock(gap bool) {
	b.space = false
	if len(b.cur.Cells) > 0 {
		b.flushLine()
	}
	if gap && len(b.lines) > 0 && len(b.lines[len(b.lines)-1].Cells) > 0 {
		b.lines = append(b.lines, Line{})
	}
}

func isSpaceCluster(cluster string) bool {
	for _, r := range cluster {
		if !textutil.IsHTMLSpace(r) {
			return false
		}
	}
	return cluster != ""
}
