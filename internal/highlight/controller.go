package highlight

import (
	"errors"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// State is the controller's highlight state.
type State int

const (
	Idle State = iota
	Highlighted
)

func (s State) String() string {
	if s == Highlighted {
		return "highlighted"
	}
	return "idle"
}

// Document is the content tree as seen by the controller: it can be read,
// edited with change notification, and observed.
type Document interface {
	Root() *html.Node
	Mutate(fn func(root *html.Node))
	Subscribe(fn func()) (cancel func())
}

// Options wires a Controller to its collaborators.
type Options struct {
	Document  Document
	Selection SelectionProvider
	// Filter builds the policy for one pass. Nil uses a DefaultFilter with
	// DefaultFilterOptions.
	Filter func(root *html.Node) FilterPolicy
	// Marker creates marker elements. Nil uses DefaultMarkerStyle.
	Marker MarkerFactory
	Logger *slog.Logger
}

// Controller keeps the highlights in a document in sync with the selection.
// It is driven from a single event loop and is not safe for concurrent use.
type Controller struct {
	doc       Document
	selection SelectionProvider
	filter    func(root *html.Node) FilterPolicy
	newMarker MarkerFactory
	logger    *slog.Logger

	state   State
	query   string
	markers []*Marker

	// applying suppresses the notifications caused by our own edits.
	applying    bool
	unsubscribe func()
}

// NewController creates an idle controller and starts observing the document.
func NewController(opts Options) (*Controller, error) {
	if opts.Document == nil {
		return nil, errors.New("highlight: document is required")
	}
	if opts.Selection == nil {
		return nil, errors.New("highlight: selection provider is required")
	}
	c := &Controller{
		doc:       opts.Document,
		selection: opts.Selection,
		filter:    opts.Filter,
		newMarker: opts.Marker,
		logger:    opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.filter == nil {
		logger := c.logger
		c.filter = func(root *html.Node) FilterPolicy {
			return NewDefaultFilter(root, DefaultFilterOptions(), logger)
		}
	}
	if c.newMarker == nil {
		c.newMarker = NewMarkerFactory(DefaultMarkerStyle())
	}
	c.unsubscribe = c.doc.Subscribe(c.contentChanged)
	return c, nil
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Query returns the text currently highlighted, or "" when idle.
func (c *Controller) Query() string {
	return c.query
}

// Markers returns the markers placed by the last pass.
func (c *Controller) Markers() []*Marker {
	return c.markers
}

// Update reacts to a selection change.
func (c *Controller) Update() {
	sel := c.selection.Selection()
	text := normalizeQuery(sel.Text)
	switch {
	case text == c.query:
		return
	case text == "":
		c.Clear()
		return
	case singleAlphanumeric(text):
		c.logger.Debug("ignoring single character selection", "text", text)
		return
	}
	c.apply(text, sel)
}

// Refresh re-runs the current highlight against the current content.
func (c *Controller) Refresh() {
	if c.state != Highlighted {
		return
	}
	c.apply(c.query, c.selection.Selection())
}

// Clear removes all markers and returns to Idle.
func (c *Controller) Clear() {
	if c.state == Idle && len(c.markers) == 0 {
		return
	}
	c.withoutObserving(func() {
		c.doc.Mutate(func(*html.Node) {
			RemoveMarkers(c.markers)
		})
	})
	c.logger.Debug("highlights cleared", "markers", len(c.markers))
	c.markers = nil
	c.query = ""
	c.state = Idle
}

// Stop clears highlights and stops observing the document.
func (c *Controller) Stop() {
	c.Clear()
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
}

func (c *Controller) contentChanged() {
	if c.applying {
		return
	}
	c.logger.Debug("content changed", "state", c.state.String())
	c.Refresh()
}

func (c *Controller) apply(query string, sel Selection) {
	c.withoutObserving(func() {
		c.doc.Mutate(func(root *html.Node) {
			remap := RemoveMarkers(c.markers)
			c.markers = nil

			coll := Collect(root, c.filter(root))
			if coll.Empty() {
				c.logger.Debug("no searchable text", "query", query)
				return
			}
			matches := FindMatches(coll.Logical, query)
			found := len(matches)
			if r, ok := coll.SelectionRange(sel.Relocated(remap)); ok {
				matches = ExcludeOverlapping(matches, r)
			} else {
				c.logger.Debug("selection not mappable, nothing excluded")
			}
			c.markers = ApplyMatches(coll.Segments, matches, c.newMarker)
			c.logger.Debug("highlight pass",
				"query", query,
				"segments", len(coll.Segments),
				"matches", found,
				"excluded", found-len(matches),
				"markers", len(c.markers))
		})
	})
	c.query = query
	c.state = Highlighted
}

func (c *Controller) withoutObserving(fn func()) {
	c.applying = true
	defer func() {
		c.applying = false
	}()
	fn()
}

func normalizeQuery(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

// singleAlphanumeric reports whether text is one user-perceived character that
// is a letter or digit, which is what a stray click tends to select.
func singleAlphanumeric(text string) bool {
	if uniseg.GraphemeClusterCount(text) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text)
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
