package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
	"github.com/kk-code-lab/selmark/internal/textutil"
)

const helpKeyColumnWidth = 15

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(state *statepkg.ViewState) []string {
	wrapDesc := "Wrap long lines"
	if state != nil && state.Wrap {
		wrapDesc = "Stop wrapping long lines"
	}

	sections := []helpOverlaySection{
		{
			title: "Selection",
			entries: []helpOverlayEntry{
				{keys: "drag", desc: "Select text and highlight its other occurrences"},
				{keys: "Esc", desc: "Clear selection and highlights"},
				{keys: "y", desc: "Yank selection to clipboard"},
			},
		},
		{
			title: "Viewing",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Scroll"},
				{keys: "PgUp/PgDn", desc: "Scroll a page"},
				{keys: "g / G", desc: "Jump to start / end"},
				{keys: "w", desc: wrapDesc},
			},
		},
		{
			title: "Document",
			entries: []helpOverlayEntry{
				{keys: "r", desc: "Reload from disk"},
				{keys: "e", desc: "Open in external editor ($EDITOR)"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "Ctrl+Z", desc: "Suspend"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 24)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}

	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeText(entry.keys)
	desc := textutil.SanitizeText(entry.desc)
	pad := max(1, helpKeyColumnWidth-textutil.DisplayWidth(key))
	return "  " + key + strings.Repeat(" ", pad) + desc
}

func (r *Renderer) drawHelpOverlay(state *statepkg.ViewState, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	titleWidth := r.measureTextWidth(title)
	if w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawTextLine(titleStart, 0, w-titleStart, title, headerStyle)

	row := 2
	maxRow := h - 1
	for _, line := range buildHelpOverlayLines(state) {
		if row >= maxRow {
			break
		}
		text := r.truncateTextToWidth(strings.TrimRight(line, " "), w-4)
		r.drawTextLine(2, row, w-4, text, baseStyle)
		row++
	}

	if h > 0 {
		footer := r.truncateTextToWidth("? toggle · Esc/q close", w)
		r.drawTextLine(0, h-1, w, footer, headerStyle)
	}
}
