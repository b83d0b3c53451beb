package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"
	apppkg "github.com/kk-code-lab/selmark/internal/app"
	"github.com/kk-code-lab/selmark/internal/config"
	"github.com/kk-code-lab/selmark/internal/debuglog"
	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/kk-code-lab/selmark/internal/highlight"
	"golang.org/x/net/html"
	"golang.org/x/term"
)

func printHelp(w io.Writer) {
	fmt.Fprint(w, `selmark - highlight every occurrence of the selected text in an HTML document

USAGE:
    selmark [OPTIONS] FILE

OPTIONS:
    -h, --help            Show this help message and exit
    -c, --config PATH     Read configuration from PATH (default: $SELMARK_CONFIG)
    -q, --query TEXT      Do not open the viewer; write FILE with every
                          occurrence of TEXT marked to stdout

Drag with the mouse to select text. Press ? in the viewer for key bindings.
`)
}

type cliOptions struct {
	help       bool
	configPath string
	query      string
	hasQuery   bool
	file       string
}

var errUsage = errors.New("usage: selmark [-c CONFIG] [-q QUERY] FILE")

func parseArgs(args []string) (cliOptions, error) {
	var opts cliOptions
	for i := 0; i < len(args); i++ {
		arg := args[i]
		value := func(name string) (string, error) {
			if i+1 >= len(args) {
				return "", fmt.Errorf("%s requires a value", name)
			}
			i++
			return args[i], nil
		}

		var err error
		switch {
		case arg == "-h" || arg == "--help":
			opts.help = true
		case arg == "-c" || arg == "--config":
			opts.configPath, err = value(arg)
		case strings.HasPrefix(arg, "--config="):
			opts.configPath = strings.TrimPrefix(arg, "--config=")
		case arg == "-q" || arg == "--query":
			opts.query, err = value(arg)
			opts.hasQuery = true
		case strings.HasPrefix(arg, "--query="):
			opts.query = strings.TrimPrefix(arg, "--query=")
			opts.hasQuery = true
		case strings.HasPrefix(arg, "-") && arg != "-":
			err = fmt.Errorf("unknown option %q", arg)
		case opts.file == "":
			opts.file = arg
		default:
			err = fmt.Errorf("unexpected argument %q", arg)
		}
		if err != nil {
			return opts, err
		}
	}
	if !opts.help && opts.file == "" {
		return opts, errUsage
	}
	return opts, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	if opts.help {
		printHelp(stdout)
		return 0
	}

	cfg, err := config.LoadOrDefault(config.Path(opts.configPath))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	level, _ := cfg.Log.SlogLevel()

	// The viewer owns the terminal, so its log only goes to a file.
	var fallback io.Writer
	if opts.hasQuery {
		fallback = stderr
	}
	logger, closeLog, err := debuglog.New(debuglog.Options{Level: level, File: cfg.Log.File}, fallback)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer func() {
		_ = closeLog()
	}()

	if opts.hasQuery {
		if err := highlightToWriter(opts.file, opts.query, cfg, logger, stdout); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(stderr, "Error: the viewer needs a terminal; use -q QUERY for non-interactive output")
		return 1
	}

	// Set UTF-8 as fallback encoding for maximum compatibility
	tcell.SetEncodingFallback(tcell.EncodingFallbackUTF8)

	app, err := apppkg.NewApplication(apppkg.Options{Path: opts.file, Config: cfg, Logger: logger})
	if err != nil {
		fmt.Fprintf(stderr, "Error initializing application: %v\n", err)
		return 1
	}
	defer func() {
		_ = app.Close()
	}()

	app.Run()
	return 0
}

// highlightToWriter marks every occurrence of query in the document at path
// and writes the resulting HTML to w. There is no on-screen selection, so
// nothing is excluded.
func highlightToWriter(path, query string, cfg config.File, logger *slog.Logger, w io.Writer) error {
	doc, err := dom.Load(path)
	if err != nil {
		return err
	}

	filterOpts := cfg.FilterOptions()
	ctrl, err := highlight.NewController(highlight.Options{
		Document: doc,
		Selection: highlight.SelectionFunc(func() highlight.Selection {
			return highlight.Selection{Text: query}
		}),
		Filter: func(root *html.Node) highlight.FilterPolicy {
			return highlight.NewDefaultFilter(root, filterOpts, logger)
		},
		Marker: highlight.NewMarkerFactory(cfg.MarkerStyle()),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	ctrl.Update()
	logger.Info("highlighted", "path", path, "query", ctrl.Query(), "markers", len(ctrl.Markers()))

	if err := dom.Render(w, doc.Root()); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}
