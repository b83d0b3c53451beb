package highlight

import (
	"log/slog"
	"strings"

	"github.com/kk-code-lab/selmark/internal/dom"
	"github.com/kk-code-lab/selmark/internal/textutil"
	"golang.org/x/net/html"
)

// Verdict is a FilterPolicy decision for one node.
type Verdict int

const (
	// Accept keeps a text leaf, or descends into an element.
	Accept Verdict = iota
	// Skip omits a text leaf. On elements it behaves like Accept.
	Skip
	// Reject omits an element together with all of its descendants.
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Skip:
		return "skip"
	case Reject:
		return "reject"
	default:
		return "unknown"
	}
}

// FilterPolicy decides which parts of a content tree carry searchable text.
// Filter is called for element nodes and text nodes.
type FilterPolicy interface {
	Filter(n *html.Node) Verdict
}

// FilterFunc adapts a function to FilterPolicy.
type FilterFunc func(n *html.Node) Verdict

func (f FilterFunc) Filter(n *html.Node) Verdict {
	return f(n)
}

// AcceptAll collects every text leaf.
var AcceptAll FilterPolicy = FilterFunc(func(*html.Node) Verdict { return Accept })

// DefaultExcludedTags are non-content containers whose text is never highlighted.
var DefaultExcludedTags = []string{
	"input", "textarea", "select", "button", "script", "style", "noscript", "template",
}

// userAgentHidden lists elements a browser never renders.
var userAgentHidden = map[string]struct{}{
	"head": {}, "title": {}, "meta": {}, "link": {}, "base": {}, "datalist": {},
}

// FilterOptions configures DefaultFilter.
type FilterOptions struct {
	ExcludedTags []string
	// HideHidden rejects elements whose computed style hides them.
	HideHidden bool
	// MinLength is the minimum rune count of a leaf after trimming white space.
	MinLength int
}

// DefaultFilterOptions mirrors what a reader sees on a rendered page.
func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		ExcludedTags: append([]string(nil), DefaultExcludedTags...),
		HideHidden:   true,
		MinLength:    1,
	}
}

// DefaultFilter rejects excluded tags and hidden elements and skips leaves
// that are too short.
type DefaultFilter struct {
	excluded   map[string]struct{}
	hideHidden bool
	minLength  int
	styles     *dom.StyleIndex
}

// NewDefaultFilter builds a filter for the document rooted at root. Styles are
// indexed once, so a filter should not outlive the tree state it was built for.
func NewDefaultFilter(root *html.Node, opts FilterOptions, logger *slog.Logger) *DefaultFilter {
	f := &DefaultFilter{
		excluded:   make(map[string]struct{}, len(opts.ExcludedTags)),
		hideHidden: opts.HideHidden,
		minLength:  opts.MinLength,
	}
	for _, tag := range opts.ExcludedTags {
		f.excluded[strings.ToLower(strings.TrimSpace(tag))] = struct{}{}
	}
	if opts.HideHidden {
		f.styles = dom.IndexStyles(root, logger)
	}
	return f
}

func (f *DefaultFilter) Filter(n *html.Node) Verdict {
	switch n.Type {
	case html.TextNode:
		if textutil.TrimmedLen(n.Data) < f.minLength {
			return Skip
		}
		return Accept
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if _, ok := f.excluded[tag]; ok {
			return Reject
		}
		if f.hideHidden {
			if _, ok := userAgentHidden[tag]; ok {
				return Reject
			}
			if f.styles.Hidden(n) {
				return Reject
			}
		}
		return Accept
	default:
		return Skip
	}
}
