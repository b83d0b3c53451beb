package app

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	statepkg "github.com/kk-code-lab/selmark/internal/state"
)

func (app *Application) handleClipboard() bool {
	text := app.state.SelectedText()
	if text == "" || len(app.clipboardCmd) == 0 {
		return false
	}
	cmd := exec.Command(app.clipboardCmd[0], app.clipboardCmd[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		app.logger.Warn("clipboard copy failed", "command", app.clipboardCmd[0], "error", err)
		app.state.LastError = fmt.Errorf("yank: %w", err)
		return true
	}
	app.state.LastYankTime = time.Now()
	return true
}

// reloadDocument re-reads the file. The selection points at the old layout,
// so it is dropped first; the controller re-highlights the current query
// against the new content.
func (app *Application) reloadDocument() bool {
	f, err := os.Open(app.state.Path)
	if err != nil {
		app.state.LastError = fmt.Errorf("reload: %w", err)
		return true
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := app.reducer.Reduce(app.state, statepkg.SelectClearAction{}); err != nil {
		app.state.LastError = err
		return true
	}
	if err := app.doc.Reload(f); err != nil {
		app.logger.Warn("reload failed", "path", app.state.Path, "error", err)
		app.state.LastError = fmt.Errorf("reload: %w", err)
		return true
	}
	app.syncHighlight()
	app.state.LastError = nil
	app.logger.Debug("document reloaded", "path", app.state.Path, "highlights", app.state.MarkerCount)
	return true
}

func (app *Application) handleEditorOpen() bool {
	if !app.state.EditorAvailable || len(app.editorCmd) == 0 {
		return false
	}
	if err := app.openFileInEditor(app.state.Path); err != nil {
		app.state.LastError = err
		return true
	}
	return app.reloadDocument()
}

func (app *Application) openFileInEditor(filePath string) error {
	if len(app.editorCmd) == 0 {
		return fmt.Errorf("no editor configured")
	}

	editorArgs := app.editorArgsWithFile(filePath)
	useTTY := runtime.GOOS != "windows"
	var tty *os.File

	if useTTY {
		var err error
		tty, err = os.OpenFile("/dev/tty", os.O_RDWR, 0)
		if err != nil {
			return app.openFileInEditorFallback(editorArgs)
		}
		defer func() {
			_ = tty.Close()
		}()
	}

	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}

	cmd := exec.Command(editorArgs[0], editorArgs[1:]...)
	if useTTY {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = tty, tty, tty
	} else {
		cmd.Stdin, cmd.Stdout, cmd.Stderr = os.Stdin, os.Stdout, os.Stderr
	}
	runErr := cmd.Run()
	// Keystrokes typed while the editor closed must not reach the viewer.
	if err := flushInput(); err != nil {
		app.logger.Debug("input flush failed", "error", err)
	}

	if err := app.screen.Resume(); err != nil {
		return fmt.Errorf("failed to resume screen: %w", err)
	}
	app.screen.Sync()
	if runErr != nil {
		return fmt.Errorf("editor: %w", runErr)
	}
	return nil
}

func (app *Application) openFileInEditorFallback(args []string) error {
	if err := app.screen.Suspend(); err != nil {
		return fmt.Errorf("failed to suspend screen: %w", err)
	}
	defer func() {
		_ = app.screen.Resume()
		app.screen.Sync()
	}()

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (app *Application) editorArgsWithFile(filePath string) []string {
	args := make([]string, len(app.editorCmd)+1)
	copy(args, app.editorCmd)
	args[len(app.editorCmd)] = filePath
	return args
}
