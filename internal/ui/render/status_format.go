package render

import (
	"fmt"
	"strings"

	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

// formatHighlightStatus describes the active highlight, or returns "" when
// there is none.
func formatHighlightStatus(state *statepkg.ViewState) string {
	if state == nil || !state.Highlighted {
		return ""
	}
	parts := []string{fmt.Sprintf(" %q", state.Query)}
	switch state.MarkerCount {
	case 0:
		parts = append(parts, "no other occurrences")
	case 1:
		parts = append(parts, "1 highlight")
	default:
		parts = append(parts, formatCompactNumber(state.MarkerCount)+" highlights")
	}
	parts = append(parts, "Esc: clear")
	return strings.Join(parts, " · ")
}

func formatCompactNumber(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000.0)
	case n >= 10_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000.0)
	default:
		return fmt.Sprintf("%d", n)
	}
}
