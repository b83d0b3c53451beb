package state

// Action represents any state change request
type Action interface{}

// ===== VIEWPORT ACTIONS =====

type ScrollUpAction struct{}
type ScrollDownAction struct{}
type ScrollPageUpAction struct{}
type ScrollPageDownAction struct{}
type ScrollTopAction struct{}
type ScrollBottomAction struct{}

type ResizeAction struct {
	Width  int
	Height int
}

type ToggleWrapAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== SELECTION ACTIONS =====

// SelectStartAction anchors a new selection (pointer down).
type SelectStartAction struct {
	Point Point
}

// SelectExtendAction moves the focus of the selection (pointer drag).
type SelectExtendAction struct {
	Point Point
}

// SelectFinishAction ends a drag (pointer up). The application reacts by
// updating the highlights.
type SelectFinishAction struct{}

type SelectClearAction struct{}

// ===== APPLICATION ACTIONS =====

type ReloadAction struct{}
type YankSelectionAction struct{}
type OpenEditorAction struct{}
type SuspendAction struct{}
type QuitAction struct{}
