package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	state      *statepkg.ViewState // Reference to current state for mode checking
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the state reference for mode checking
func (ih *InputHandler) SetState(state *statepkg.ViewState) {
	ih.state = state
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	helpVisible := ih.state != nil && ih.state.HelpVisible
	selecting := ih.state != nil && ih.state.Selection.Active

	if helpVisible {
		switch ev.Key() {
		case tcell.KeyCtrlC:
			ih.actionChan <- statepkg.QuitAction{}
			return false
		case tcell.KeyEscape:
			ih.actionChan <- statepkg.HelpHideAction{}
		case tcell.KeyRune:
			switch ev.Rune() {
			case '?', 'q', 'Q':
				ih.actionChan <- statepkg.HelpHideAction{}
			}
		}
		return true
	}

	switch ev.Key() {
	case tcell.KeyCtrlC:
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case tcell.KeyCtrlZ:
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	case tcell.KeyEscape:
		// Esc drops the selection; the application clears the highlights.
		ih.actionChan <- statepkg.SelectClearAction{}
		return true
	case tcell.KeyUp:
		ih.actionChan <- statepkg.ScrollUpAction{}
		return true
	case tcell.KeyDown:
		ih.actionChan <- statepkg.ScrollDownAction{}
		return true
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.ScrollPageUpAction{}
		return true
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.ScrollPageDownAction{}
		return true
	case tcell.KeyHome:
		ih.actionChan <- statepkg.ScrollTopAction{}
		return true
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.ScrollBottomAction{}
		return true
	case tcell.KeyRune:
		return ih.processRune(ev.Rune(), selecting)
	}
	return true
}

func (ih *InputHandler) processRune(r rune, selecting bool) bool {
	switch r {
	case 'q', 'Q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'k':
		ih.actionChan <- statepkg.ScrollUpAction{}
	case 'j':
		ih.actionChan <- statepkg.ScrollDownAction{}
	case ' ', 'f':
		ih.actionChan <- statepkg.ScrollPageDownAction{}
	case 'b':
		ih.actionChan <- statepkg.ScrollPageUpAction{}
	case 'g':
		ih.actionChan <- statepkg.ScrollTopAction{}
	case 'G':
		ih.actionChan <- statepkg.ScrollBottomAction{}
	case 'w':
		ih.actionChan <- statepkg.ToggleWrapAction{}
	case 'r':
		ih.actionChan <- statepkg.ReloadAction{}
	case 'e':
		ih.actionChan <- statepkg.OpenEditorAction{}
	case 'y':
		if selecting {
			ih.actionChan <- statepkg.YankSelectionAction{}
		}
	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	}
	return true
}
