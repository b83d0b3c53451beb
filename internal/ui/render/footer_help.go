package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

// buildFooterHelpText returns the contextual footer hint string with leading/trailing padding.
func buildFooterHelpText(state *statepkg.ViewState) string {
	parts := buildFooterHelpSegments(state)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles context-aware help hints for the footer.
func buildFooterHelpSegments(state *statepkg.ViewState) []string {
	if state == nil {
		return nil
	}

	var segments []string
	if state.Selection.Active {
		segments = append(segments, "Esc: clear selection")
		if state.ClipboardAvailable {
			segments = append(segments, "y: yank")
		}
	} else {
		segments = append(segments, "drag: select text")
	}
	segments = append(segments, "↑↓/Pg: scroll", "r: reload")
	if state.EditorAvailable {
		segments = append(segments, "e: edit")
	}
	return append(segments, "?: help", "q: quit")
}
