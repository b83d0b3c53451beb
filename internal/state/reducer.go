package state

import "fmt"

// StateReducer applies viewport and selection actions to a ViewState.
// Actions with side effects (reload, yank, editor, quit) belong to the
// application.
type StateReducer struct{}

// NewStateReducer creates a new reducer
func NewStateReducer() *StateReducer {
	return &StateReducer{}
}

// Reduce applies action to state.
func (r *StateReducer) Reduce(state *ViewState, action Action) (*ViewState, error) {
	if state == nil {
		return nil, fmt.Errorf("reduce %T: nil state", action)
	}

	switch a := action.(type) {
	case ScrollUpAction:
		r.scrollBy(state, -1)
	case ScrollDownAction:
		r.scrollBy(state, 1)
	case ScrollPageUpAction:
		r.scrollBy(state, -max(1, state.ContentHeight()-1))
	case ScrollPageDownAction:
		r.scrollBy(state, max(1, state.ContentHeight()-1))
	case ScrollTopAction:
		state.ScrollOffset = 0
	case ScrollBottomAction:
		state.ScrollOffset = state.MaxScroll()

	case ResizeAction:
		if a.Width != state.ScreenWidth && state.Wrap {
			state.MarkLayoutDirty()
		}
		state.ScreenWidth = a.Width
		state.ScreenHeight = a.Height
		state.clampScroll()

	case ToggleWrapAction:
		state.Wrap = !state.Wrap
		state.MarkLayoutDirty()

	case HelpToggleAction:
		state.HelpVisible = !state.HelpVisible
	case HelpHideAction:
		state.HelpVisible = false

	case SelectStartAction:
		p := state.clampPoint(a.Point)
		state.Selection = Selection{Anchor: p, Focus: p, Active: len(state.Lines) > 0, Dragging: true}
	case SelectExtendAction:
		if state.Selection.Dragging {
			state.Selection.Focus = state.clampPoint(a.Point)
		}
	case SelectFinishAction:
		state.Selection.Dragging = false
	case SelectClearAction:
		state.Selection = Selection{}

	default:
		return state, fmt.Errorf("unhandled action %T", action)
	}
	return state, nil
}

func (r *StateReducer) scrollBy(state *ViewState, delta int) {
	state.ScrollOffset += delta
	state.clampScroll()
}
