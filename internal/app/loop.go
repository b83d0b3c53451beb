package app

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

// Run processes terminal, file and signal events until the user quits.
func (app *Application) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes <-chan struct{}
	var watchErrs <-chan error
	if app.watcher != nil {
		go app.watcher.Run(ctx)
		changes = app.watcher.Changes()
		watchErrs = app.watcher.Errors()
	}

	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventChan <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	const animationInterval = 50 * time.Millisecond
	var animationTimer *time.Timer
	var animationCh <-chan time.Time

	startAnimation := func() {
		if animationTimer == nil {
			animationTimer = time.NewTimer(animationInterval)
		} else {
			if !animationTimer.Stop() {
				select {
				case <-animationTimer.C:
				default:
				}
			}
			animationTimer.Reset(animationInterval)
		}
		animationCh = animationTimer.C
	}

	stopAnimation := func() {
		if animationTimer == nil {
			return
		}
		if !animationTimer.Stop() {
			select {
			case <-animationTimer.C:
			default:
			}
		}
		animationCh = nil
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		if app.shouldAnimate() {
			startAnimation()
		} else {
			stopAnimation()
		}

		select {
		case ev := <-eventChan:
			if app.handleEvent(ev) {
				renderPending = true
			}
		case <-animationCh:
			renderPending = true
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-changes:
			app.logger.Debug("document changed on disk", "path", app.state.Path)
			if app.reloadDocument() {
				renderPending = true
			}
		case err := <-watchErrs:
			app.logger.Warn("watch failed", "path", app.state.Path, "error", err)
			app.state.LastError = err
			renderPending = true
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}

	stopAnimation()
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey, *tcell.EventResize:
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse turns primary-button drags into a selection and the wheel into
// scrolling.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	if app.state == nil || app.state.HelpVisible {
		return false
	}

	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.ScrollUpAction{}
		return true
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.ScrollDownAction{}
		return true
	}

	if buttons&tcell.Button1 == 0 {
		if app.state.Selection.Dragging {
			app.actionCh <- statepkg.SelectFinishAction{}
			return true
		}
		return false
	}

	x, y := ev.Position()
	p, ok := app.state.PointAt(x, y)
	if !ok {
		return false
	}
	if app.state.Selection.Dragging {
		app.actionCh <- statepkg.SelectExtendAction{Point: p}
	} else {
		app.actionCh <- statepkg.SelectStartAction{Point: p}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

func (app *Application) shouldAnimate() bool {
	if app.state == nil || app.state.LastYankTime.IsZero() {
		return false
	}
	return time.Since(app.state.LastYankTime) < 100*time.Millisecond
}

func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	return app.handleAppAction(action)
}

func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch action.(type) {
	case statepkg.ReloadAction:
		return app.reloadDocument()
	case statepkg.YankSelectionAction:
		return app.handleClipboard()
	case statepkg.OpenEditorAction:
		return app.handleEditorOpen()
	}

	if _, err := app.reducer.Reduce(app.state, action); err != nil {
		app.state.LastError = err
		return true
	}

	switch action.(type) {
	case statepkg.SelectFinishAction, statepkg.SelectClearAction:
		// A stale layout would map the selection onto the wrong leaves.
		app.relayout()
		app.ctrl.Update()
		app.syncHighlight()
	}
	return true
}
