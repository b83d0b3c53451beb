package render

import (
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "…"

func (r *Renderer) cachedRuneWidth(ru rune) int {
	if ru < 128 {
		r.runeWidthCacheMu.RLock()
		width := r.runeWidthCache[ru]
		r.runeWidthCacheMu.RUnlock()

		if width == 0 && ru != 0 {
			actualWidth := max(runewidth.RuneWidth(ru), 0)
			r.runeWidthCacheMu.Lock()
			r.runeWidthCache[ru] = actualWidth + 1
			r.runeWidthCacheMu.Unlock()
			return actualWidth
		}
		return width - 1
	}

	if cached, ok := r.runeWidthWide.Load(ru); ok {
		return cached.(int)
	}

	width := max(runewidth.RuneWidth(ru), 0)
	r.runeWidthWide.Store(ru, width)
	return width
}

func (r *Renderer) measureTextWidth(text string) int {
	width := 0
	for _, ru := range text {
		width += r.cachedRuneWidth(ru)
	}
	return width
}

func (r *Renderer) truncateTextToWidth(text string, maxWidth int) string {
	if maxWidth <= 0 || text == "" {
		return ""
	}

	if r.measureTextWidth(text) <= maxWidth {
		return text
	}

	ellipsisWidth := max(r.cachedRuneWidth([]rune(ellipsis)[0]), 1)
	if maxWidth <= ellipsisWidth {
		return ellipsis
	}

	available := maxWidth - ellipsisWidth
	var builder strings.Builder
	currentWidth := 0

	for _, ru := range text {
		runeWidth := r.cachedRuneWidth(ru)
		if currentWidth+runeWidth > available {
			break
		}
		builder.WriteRune(ru)
		currentWidth += runeWidth
	}

	builder.WriteString(ellipsis)
	return builder.String()
}

func (r *Renderer) drawTextLine(startX, y, maxWidth int, text string, style tcell.Style) int {
	x := startX
	runes := []rune(text)
	i := 0

	for i < len(runes) {
		if x-startX >= maxWidth {
			break
		}

		mainc := runes[i]
		i++

		var combc []rune
		for i < len(runes) && r.cachedRuneWidth(runes[i]) == 0 {
			combc = append(combc, runes[i])
			i++
		}

		r.screen.SetContent(x, y, mainc, combc, style)
		x += max(r.cachedRuneWidth(mainc), 1)
	}

	return x
}

// drawCell draws one laid out cluster and returns the next column. Expanded
// tabs are runs of spaces and get one screen cell each.
func (r *Renderer) drawCell(x, y, maxX int, cell statepkg.Cell, style tcell.Style) int {
	if x+cell.Width > maxX {
		return maxX
	}
	if utf8.RuneCountInString(cell.Text) == cell.Width && strings.Trim(cell.Text, " ") == "" {
		for i := 0; i < cell.Width; i++ {
			r.screen.SetContent(x+i, y, ' ', nil, style)
		}
		return x + cell.Width
	}
	runes := []rune(cell.Text)
	if len(runes) == 0 {
		return x
	}
	r.screen.SetContent(x, y, runes[0], runes[1:], style)
	return x + cell.Width
}

func (r *Renderer) fillRow(startX, y, w int, style tcell.Style) {
	for x := startX; x < w; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}
