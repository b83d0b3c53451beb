package dom

import (
	"log/slog"
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	selcss "github.com/ericchiang/css"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// StyleIndex answers whether an element is hidden, combining the document's
// <style> sheets with inline style attributes.
type StyleIndex struct {
	rules  map[*html.Node][]*css.Declaration
	inline map[*html.Node][]*css.Declaration
	logger *slog.Logger
}

// IndexStyles compiles every <style> element under root and records the
// declarations each rule applies to the elements it selects.
func IndexStyles(root *html.Node, logger *slog.Logger) *StyleIndex {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	si := &StyleIndex{
		rules:  map[*html.Node][]*css.Declaration{},
		inline: map[*html.Node][]*css.Declaration{},
		logger: logger,
	}
	if root == nil {
		return si
	}

	var sheets []string
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == atom.Style {
			sheets = append(sheets, TextContent(n))
			return false
		}
		return true
	})
	for _, sheet := range sheets {
		si.addSheet(root, sheet)
	}
	return si
}

func (si *StyleIndex) addSheet(root *html.Node, sheet string) {
	ss, err := parser.Parse(sheet)
	if err != nil {
		si.logger.Debug("skipping unparsable stylesheet", "error", err)
		return
	}
	for _, rule := range ss.Rules {
		if rule.Kind != css.QualifiedRule || len(rule.Selectors) == 0 {
			continue
		}
		sel, err := selcss.Parse(strings.Join(rule.Selectors, ","))
		if err != nil {
			si.logger.Debug("skipping unsupported selector", "selector", rule.Prelude, "error", err)
			continue
		}
		for _, match := range sel.Select(root) {
			si.rules[match] = append(si.rules[match], rule.Declarations...)
		}
	}
}

// Hidden reports whether n is an element that does not render: it carries the
// hidden attribute, or its computed display is none, or its visibility is
// hidden or collapse.
func (si *StyleIndex) Hidden(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if _, ok := Attr(n, "hidden"); ok {
		return true
	}
	display := si.Property(n, "display")
	if display == "none" {
		return true
	}
	switch si.Property(n, "visibility") {
	case "hidden", "collapse":
		return true
	}
	return false
}

// Property returns the cascaded, lower-cased value of a CSS property set
// directly on n. Stylesheet rules apply in source order, inline declarations
// after them, and !important wins over normal declarations.
func (si *StyleIndex) Property(n *html.Node, property string) string {
	value := ""
	important := false
	apply := func(decls []*css.Declaration) {
		for _, decl := range decls {
			if !strings.EqualFold(decl.Property, property) {
				continue
			}
			if important && !decl.Important {
				continue
			}
			value = strings.ToLower(strings.TrimSpace(decl.Value))
			important = decl.Important
		}
	}
	if si != nil {
		apply(si.rules[n])
		apply(si.inlineDeclarations(n))
	}
	return value
}

func (si *StyleIndex) inlineDeclarations(n *html.Node) []*css.Declaration {
	if decls, ok := si.inline[n]; ok {
		return decls
	}
	var decls []*css.Declaration
	if style, ok := Attr(n, "style"); ok && strings.TrimSpace(style) != "" {
		decls = ParseDeclarations(style, si.logger)
	}
	si.inline[n] = decls
	return decls
}

// ParseDeclarations parses an inline style attribute. Malformed input yields
// no declarations.
func ParseDeclarations(style string, logger *slog.Logger) []*css.Declaration {
	// the parser is strict about semicolons, but they aren't needed
	// in normal inline styles in HTML
	if !strings.HasSuffix(strings.TrimSpace(style), ";") {
		style += ";"
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		if logger != nil {
			logger.Debug("skipping unparsable inline style", "style", style, "error", err)
		}
		return nil
	}
	return decls
}
