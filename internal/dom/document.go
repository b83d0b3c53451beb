package dom

import (
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// Document owns a content tree and tells subscribers when its structure
// changes. It is not safe for concurrent use; the host serializes access.
type Document struct {
	root      *html.Node
	nextID    int
	listeners []listener
}

type listener struct {
	id int
	fn func()
}

// NewDocument wraps root. A nil root is replaced by an empty document node.
func NewDocument(root *html.Node) *Document {
	if root == nil {
		root = &html.Node{Type: html.DocumentNode}
	}
	return &Document{root: root}
}

// Root returns the document node. Its identity is stable across reloads.
func (d *Document) Root() *html.Node {
	return d.root
}

// Mutate runs fn against the tree and then notifies subscribers.
func (d *Document) Mutate(fn func(root *html.Node)) {
	fn(d.root)
	d.notify()
}

// Subscribe registers fn to run after every mutation. The returned function
// removes the subscription.
func (d *Document) Subscribe(fn func()) (cancel func()) {
	d.nextID++
	id := d.nextID
	d.listeners = append(d.listeners, listener{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Reload replaces the document content with the HTML read from r, keeping the
// root node, and notifies subscribers.
func (d *Document) Reload(r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if LooksBinary(data) {
		return ErrBinary
	}
	fresh, err := ParseString(DecodeContent(data))
	if err != nil {
		return err
	}
	d.Mutate(func(root *html.Node) {
		for c := root.FirstChild; c != nil; {
			next := c.NextSibling
			root.RemoveChild(c)
			c = next
		}
		for c := fresh.FirstChild; c != nil; {
			next := c.NextSibling
			fresh.RemoveChild(c)
			root.AppendChild(c)
			c = next
		}
	})
	return nil
}

func (d *Document) notify() {
	// Listeners may unsubscribe while being notified.
	snapshot := append([]listener(nil), d.listeners...)
	for _, l := range snapshot {
		l.fn()
	}
}
