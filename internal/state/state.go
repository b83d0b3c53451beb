package state

import (
	"strings"
	"time"

	"github.com/kk-code-lab/selmark/internal/highlight"
)

// Selection is the viewer's pointer selection in layout coordinates.
type Selection struct {
	Anchor   Point
	Focus    Point
	Active   bool
	Dragging bool
}

// Ordered returns the selection endpoints in reading order.
func (s Selection) Ordered() (Point, Point) {
	if s.Focus.Before(s.Anchor) {
		return s.Focus, s.Anchor
	}
	return s.Anchor, s.Focus
}

// ViewState is the single source of truth for the viewer
type ViewState struct {
	Path  string
	Lines []Line

	// Viewport
	ScrollOffset int
	ScreenWidth  int
	ScreenHeight int
	Wrap         bool
	TabWidth     int
	HelpVisible  bool

	Selection Selection

	// Highlight status mirrored from the controller after every pass
	Highlighted bool
	Query       string
	MarkerCount int

	// Status line
	ClipboardAvailable bool
	EditorAvailable    bool
	LastYankTime       time.Time
	LastError          error

	layoutDirty bool
}

// ContentHeight is the number of rows between the header and the status line.
func (s *ViewState) ContentHeight() int {
	return max(1, s.ScreenHeight-2)
}

// MaxScroll returns the largest useful scroll offset.
func (s *ViewState) MaxScroll() int {
	return max(0, len(s.Lines)-s.ContentHeight())
}

// MarkLayoutDirty asks the application to lay the document out again.
func (s *ViewState) MarkLayoutDirty() {
	s.layoutDirty = true
}

// LayoutDirty reports whether the lines are stale.
func (s *ViewState) LayoutDirty() bool {
	return s.layoutDirty
}

// SetLines installs a fresh layout and keeps the viewport and selection inside
// it.
func (s *ViewState) SetLines(lines []Line) {
	s.Lines = lines
	s.layoutDirty = false
	s.clampScroll()
	if s.Selection.Active {
		s.Selection.Anchor = s.clampPoint(s.Selection.Anchor)
		s.Selection.Focus = s.clampPoint(s.Selection.Focus)
	}
}

// PointAt maps screen coordinates to a layout point. Rows outside the content
// area clamp to its first or last visible line.
func (s *ViewState) PointAt(x, y int) (Point, bool) {
	if len(s.Lines) == 0 {
		return Point{}, false
	}
	row := min(max(y-1, 0), s.ContentHeight()-1)
	line := min(s.ScrollOffset+row, len(s.Lines)-1)
	return Point{Line: line, Col: s.Lines[line].ColumnAt(x)}, true
}

// IsSelected reports whether the cell at p lies inside the selection.
func (s *ViewState) IsSelected(p Point) bool {
	if !s.Selection.Active {
		return false
	}
	start, end := s.Selection.Ordered()
	return !p.Before(start) && !end.Before(p)
}

// HighlightSelection converts the selection into tree coordinates. Only runs
// of searchable leaves count, and of the first selected cell only its own
// cluster, not the white space folded into it.
func (s *ViewState) HighlightSelection() highlight.Selection {
	var sel highlight.Selection
	if !s.Selection.Active || len(s.Lines) == 0 {
		return sel
	}
	start, end := s.Selection.Ordered()
	var text strings.Builder
	first := true
	found := false
	for li := start.Line; li <= end.Line && li < len(s.Lines); li++ {
		cells := s.Lines[li].Cells
		for ci, cell := range cells {
			p := Point{Line: li, Col: ci}
			if p.Before(start) || end.Before(p) {
				continue
			}
			runs := cell.Runs
			if first && len(runs) > 1 {
				runs = runs[len(runs)-1:]
			}
			first = false
			for _, run := range runs {
				if !run.Searchable {
					continue
				}
				if !found {
					sel.AnchorNode, sel.AnchorOffset = run.Node, run.Offset
					found = true
				}
				sel.FocusNode, sel.FocusOffset = run.Node, run.End()
				text.WriteString(run.Text)
			}
		}
	}
	sel.Text = text.String()
	return sel
}

// SelectedText returns the drawn text of the selection, lines joined by
// newlines.
func (s *ViewState) SelectedText() string {
	if !s.Selection.Active {
		return ""
	}
	start, end := s.Selection.Ordered()
	var parts []string
	for li := start.Line; li <= end.Line && li < len(s.Lines); li++ {
		var b strings.Builder
		for ci, cell := range s.Lines[li].Cells {
			p := Point{Line: li, Col: ci}
			if p.Before(start) || end.Before(p) {
				continue
			}
			b.WriteString(cell.Text)
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, "\n")
}

func (s *ViewState) clampScroll() {
	s.ScrollOffset = min(max(s.ScrollOffset, 0), s.MaxScroll())
}

func (s *ViewState) clampPoint(p Point) Point {
	if len(s.Lines) == 0 {
		return Point{}
	}
	p.Line = min(max(p.Line, 0), len(s.Lines)-1)
	p.Col = min(max(p.Col, 0), max(0, len(s.Lines[p.Line].Cells)-1))
	return p
}
