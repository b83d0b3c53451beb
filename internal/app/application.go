package app

import (
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/selmark/internal/config"
	"github.com/kk-code-lab/selmark/internal/debuglog"
	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/kk-code-lab/selmark/internal/highlight"
	statepkg "github.com/kk-code-lab/selmark/internal/state"
	inputui "github.com/kk-code-lab/selmark/internal/ui/input"
	renderui "github.com/kk-code-lab/selmark/internal/ui/render"
	"golang.org/x/net/html"
)

// Options configures an Application.
type Options struct {
	Path   string
	Config config.File
	Logger *slog.Logger
}

// Application represents the running viewer.
type Application struct {
	screen   tcell.Screen
	state    *statepkg.ViewState
	reducer  *statepkg.StateReducer
	renderer *renderui.Renderer
	input    *inputui.InputHandler
	actionCh chan statepkg.Action

	doc         *dom.Document
	ctrl        *highlight.Controller
	watcher     *dom.Watcher
	unsubscribe func()

	cfg    config.File
	logger *slog.Logger

	clipboardCmd []string
	editorCmd    []string
	shouldQuit   bool
}

// NewApplication opens the terminal and loads the document at opts.Path.
func NewApplication(opts Options) (*Application, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Selection is made with the mouse.
	screen.EnableMouse()

	app, err := newApplication(screen, opts)
	if err != nil {
		screen.Fini()
		return nil, err
	}
	return app, nil
}

// newApplication wires the viewer around an initialized screen.
func newApplication(screen tcell.Screen, opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = debuglog.Discard()
	}
	cfg := opts.Config

	doc, err := dom.Load(opts.Path)
	if err != nil {
		return nil, err
	}

	clipboardCmd, clipboardAvail := detectClipboard()
	editorCmd, editorAvail := detectEditorCommand()

	w, h := screen.Size()
	state := &statepkg.ViewState{
		Path:               opts.Path,
		ScreenWidth:        w,
		ScreenHeight:       h,
		Wrap:               cfg.Viewer.Wrap,
		TabWidth:           cfg.Viewer.TabWidth,
		ClipboardAvailable: clipboardAvail,
		EditorAvailable:    editorAvail,
	}
	state.MarkLayoutDirty()

	filterOpts := cfg.FilterOptions()
	ctrl, err := highlight.NewController(highlight.Options{
		Document:  doc,
		Selection: highlight.SelectionFunc(state.HighlightSelection),
		Filter: func(root *html.Node) highlight.FilterPolicy {
			return highlight.NewDefaultFilter(root, filterOpts, logger)
		},
		Marker: highlight.NewMarkerFactory(cfg.MarkerStyle()),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("start highlighter: %w", err)
	}

	actionCh := make(chan statepkg.Action, 10)
	renderer := renderui.NewRenderer(screen)
	renderer.SetTheme(renderui.GetColorTheme().WithMarkerColor(cfg.Viewer.HighlightColor))
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(state)

	app := &Application{
		screen:       screen,
		state:        state,
		reducer:      statepkg.NewStateReducer(),
		renderer:     renderer,
		input:        inputHandler,
		actionCh:     actionCh,
		doc:          doc,
		ctrl:         ctrl,
		cfg:          cfg,
		logger:       logger,
		clipboardCmd: clipboardCmd,
		editorCmd:    editorCmd,
	}
	// Any edit, including the controller's own, invalidates the layout.
	app.unsubscribe = doc.Subscribe(state.MarkLayoutDirty)

	if cfg.Viewer.Watch {
		watcher, err := dom.WatchFile(opts.Path)
		if err != nil {
			logger.Warn("file watching disabled", "path", opts.Path, "error", err)
		} else {
			app.watcher = watcher
		}
	}

	app.relayout()
	logger.Debug("viewer ready", "path", opts.Path, "lines", len(state.Lines), "clipboard", clipboardAvail, "editor", editorAvail)
	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	app.ctrl.Stop()
	if app.unsubscribe != nil {
		app.unsubscribe()
	}
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	close(app.actionCh)
	app.screen.Fini()
	return err
}

// relayout rebuilds the lines when the document or viewport changed.
func (app *Application) relayout() {
	if !app.state.LayoutDirty() {
		return
	}
	root := app.doc.Root()
	lines := statepkg.BuildLayout(root, statepkg.LayoutOptions{
		Width:    app.state.ScreenWidth,
		Wrap:     app.state.Wrap,
		TabWidth: app.state.TabWidth,
		Policy:   highlight.NewDefaultFilter(root, app.cfg.FilterOptions(), app.logger),
	})
	app.state.SetLines(lines)
}

func (app *Application) render() {
	app.relayout()
	app.renderer.Render(app.state)
}

// syncHighlight mirrors the controller status into the view.
func (app *Application) syncHighlight() {
	app.state.Highlighted = app.ctrl.State() == highlight.Highlighted
	app.state.Query = app.ctrl.Query()
	matches := make(map[highlight.MatchRange]struct{})
	for _, m := range app.ctrl.Markers() {
		matches[m.Match] = struct{}{}
	}
	app.state.MarkerCount = len(matches)
}
