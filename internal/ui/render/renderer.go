package render

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
	"github.com/kk-code-lab/selmark/internal/textutil"
)

// Renderer handles all UI rendering
type Renderer struct {
	screen           tcell.Screen
	theme            ColorTheme
	runeWidthCache   [128]int // ASCII cache (0-127)
	runeWidthCacheMu sync.RWMutex
	runeWidthWide    sync.Map // For non-ASCII runes
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// SetTheme replaces the color theme.
func (r *Renderer) SetTheme(theme ColorTheme) {
	r.theme = theme
}

// Theme returns the active color theme.
func (r *Renderer) Theme() ColorTheme {
	return r.theme
}

// Render draws the entire UI based on state
func (r *Renderer) Render(state *statepkg.ViewState) {
	r.screen.Clear()
	w, h := r.screen.Size()

	if state.HelpVisible {
		r.drawHelpOverlay(state, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(state, w)
	r.drawContent(state, w)
	r.drawStatusLine(state, w, h)
	r.screen.Show()
}

func (r *Renderer) drawHeader(state *statepkg.ViewState, w int) {
	headerStyle := tcell.StyleDefault.Background(r.theme.HeaderBg).Foreground(r.theme.HeaderFg)

	endX := r.drawTextLine(0, 0, w, "selmark", headerStyle)
	if endX < w {
		r.screen.SetContent(endX, 0, ' ', nil, headerStyle)
		endX++
	}
	if endX < w && state.Path != "" {
		dir, name := filepath.Split(state.Path)
		available := w - endX
		nameText := textutil.SanitizeText(name)
		dirText := r.truncateTextToWidth(textutil.SanitizeText(dir), available-r.measureTextWidth(nameText))
		endX = r.drawTextLine(endX, 0, available, dirText, headerStyle)
		endX = r.drawTextLine(endX, 0, w-endX, r.truncateTextToWidth(nameText, w-endX), headerStyle.Bold(true))
	}
	r.fillRow(endX, 0, w, headerStyle)
}

func (r *Renderer) drawContent(state *statepkg.ViewState, w int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	markerStyle := baseStyle.Background(r.theme.MarkerBg).Foreground(r.theme.MarkerFg)
	selectionStyle := baseStyle.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)

	for row := 0; row < state.ContentHeight(); row++ {
		y := row + 1
		idx := state.ScrollOffset + row
		x := 0
		if idx >= 0 && idx < len(state.Lines) {
			for ci, cell := range state.Lines[idx].Cells {
				if x >= w {
					break
				}
				style := baseStyle
				if cell.Marked {
					style = markerStyle
				}
				if state.IsSelected(statepkg.Point{Line: idx, Col: ci}) {
					style = selectionStyle
				}
				x = r.drawCell(x, y, w, cell, style)
			}
		}
		r.fillRow(x, y, w, baseStyle)
	}
}

func (r *Renderer) drawStatusLine(state *statepkg.ViewState, w, h int) {
	if h < 2 {
		return
	}
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)
	flashStyle := tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)

	// Flash within 0.1 seconds of the last yank
	style := normalStyle
	if !state.LastYankTime.IsZero() && time.Since(state.LastYankTime) < 100*time.Millisecond {
		style = flashStyle
	}

	y := h - 1
	x := 0
	if state.LastError != nil {
		errText := r.truncateTextToWidth(textutil.SanitizeText("error: "+state.LastError.Error()), w)
		x = r.drawTextLine(0, y, w, errText, style.Foreground(r.theme.ErrorFg))
	} else {
		status := formatHighlightStatus(state)
		if status == "" {
			status = buildFooterHelpText(state)
		}
		x = r.drawTextLine(0, y, w, r.truncateTextToWidth(textutil.SanitizeText(status), w), style)
	}
	r.fillRow(x, y, w, style)
}
