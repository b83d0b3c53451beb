package input

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

func expectAction[T statepkg.Action](t *testing.T, actionChan chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-actionChan:
		if _, ok := action.(T); !ok {
			var want T
			t.Fatalf("Expected %T, got %T", want, action)
		}
	default:
		var want T
		t.Fatalf("Expected %T to be emitted", want)
	}
}

func expectNoAction(t *testing.T, actionChan chan statepkg.Action) {
	t.Helper()
	select {
	case action := <-actionChan:
		t.Fatalf("Expected no action, got %T", action)
	default:
	}
}

func newHandler(state *statepkg.ViewState) (*InputHandler, chan statepkg.Action) {
	actionChan := make(chan statepkg.Action, 1)
	handler := NewInputHandler(actionChan)
	handler.SetState(state)
	return handler, actionChan
}

func TestEscapeClearsSelection(t *testing.T) {
	handler, actionChan := newHandler(&statepkg.ViewState{})

	if !handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, 0)) {
		t.Fatal("Escape must not quit")
	}
	expectAction[statepkg.SelectClearAction](t, actionChan)
}

func TestEscapeHidesHelpFirst(t *testing.T) {
	handler, actionChan := newHandler(&statepkg.ViewState{HelpVisible: true})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyEscape, 0, 0))
	expectAction[statepkg.HelpHideAction](t, actionChan)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'r', 0))
	expectNoAction(t, actionChan)
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		tcell.NewEventKey(tcell.KeyRune, 'q', 0),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, 0),
	} {
		handler, actionChan := newHandler(&statepkg.ViewState{})
		if handler.ProcessEvent(ev) {
			t.Fatalf("Expected %v to quit", ev.Name())
		}
		expectAction[statepkg.QuitAction](t, actionChan)
	}
}

func TestScrollKeys(t *testing.T) {
	handler, actionChan := newHandler(&statepkg.ViewState{})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'j', 0))
	expectAction[statepkg.ScrollDownAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyUp, 0, 0))
	expectAction[statepkg.ScrollUpAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, 0))
	expectAction[statepkg.ScrollPageDownAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'G', 0))
	expectAction[statepkg.ScrollBottomAction](t, actionChan)
}

func TestCommandKeys(t *testing.T) {
	handler, actionChan := newHandler(&statepkg.ViewState{})

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'r', 0))
	expectAction[statepkg.ReloadAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'w', 0))
	expectAction[statepkg.ToggleWrapAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, '?', 0))
	expectAction[statepkg.HelpToggleAction](t, actionChan)
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'e', 0))
	expectAction[statepkg.OpenEditorAction](t, actionChan)
}

func TestYankNeedsSelection(t *testing.T) {
	state := &statepkg.ViewState{}
	handler, actionChan := newHandler(state)

	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'y', 0))
	expectNoAction(t, actionChan)

	state.Selection.Active = true
	handler.ProcessEvent(tcell.NewEventKey(tcell.KeyRune, 'y', 0))
	expectAction[statepkg.YankSelectionAction](t, actionChan)
}

func TestResizeEmitsAction(t *testing.T) {
	handler, actionChan := newHandler(nil)

	handler.ProcessEvent(tcell.NewEventResize(100, 30))
	select {
	case action := <-actionChan:
		resize, ok := action.(statepkg.ResizeAction)
		if !ok || resize.Width != 100 || resize.Height != 30 {
			t.Fatalf("Expected ResizeAction{100 30}, got %#v", action)
		}
	default:
		t.Fatal("Expected ResizeAction")
	}
}
