package dom

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/text/unicode/norm"
)

// Load reads, decodes and parses the HTML document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document %q: %w", path, err)
	}
	if LooksBinary(data) {
		return nil, fmt.Errorf("load %q: %w", path, ErrBinary)
	}
	root, err := ParseString(DecodeContent(data))
	if err != nil {
		return nil, fmt.Errorf("parse document %q: %w", path, err)
	}
	return NewDocument(root), nil
}

// Parse parses an HTML document and NFC-normalizes its text so that text
// typed or selected by the user compares equal to the document's text.
func Parse(r io.Reader) (*html.Node, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	Walk(root, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			n.Data = norm.NFC.String(n.Data)
		}
		return true
	})
	return root, nil
}

// ParseString parses HTML from the given string.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render writes n and its descendants as HTML.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString renders n to a string, returning "" on failure.
func RenderString(n *html.Node) string {
	var b bytes.Buffer
	if err := html.Render(&b, n); err != nil {
		return ""
	}
	return b.String()
}

// Walk visits n and its descendants in document order. Returning false from
// visit skips the children of the visited node.
func Walk(n *html.Node, visit func(n *html.Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		Walk(c, visit)
		c = next
	}
}

// TextContent concatenates the text leaves under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// TextLeaves returns the text leaves under n in document order.
func TextLeaves(n *html.Node) []string {
	var out []string
	Walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			out = append(out, c.Data)
		}
		return true
	})
	return out
}

// NormalizeText merges runs of adjacent text siblings under n into their first
// node and drops empty text leaves.
func NormalizeText(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type != html.TextNode {
			NormalizeText(c)
			c = next
			continue
		}
		for next != nil && next.Type == html.TextNode {
			c.Data += next.Data
			after := next.NextSibling
			n.RemoveChild(next)
			next = after
		}
		if c.Data == "" {
			n.RemoveChild(c)
		}
		c = next
	}
}

// Body returns the <body> element of a parsed document, or root itself when
// there is none.
func Body(root *html.Node) *html.Node {
	var body *html.Node
	Walk(root, func(n *html.Node) bool {
		if body != nil {
			return false
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Body {
			body = n
			return false
		}
		return true
	})
	if body == nil {
		return root
	}
	return body
}

// Attr returns the value of the named attribute and whether it is present.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
