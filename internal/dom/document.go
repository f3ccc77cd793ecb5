// Package dom keeps an HTML document in memory so pages can be mutated the
// way a browser script would and serialized on every request.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// KeyAttr holds the stable per-document key of an element that can receive
// events from the browser.
const KeyAttr = "data-node"

// Document is a mutable HTML document with an event-listener registry.
// It is not safe for concurrent use; callers serialize access.
type Document struct {
	root      *html.Node
	listeners map[*html.Node]map[string][]Listener
	active    *html.Node
	nextKey   int
}

// Parse reads a full HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:      root,
		listeners: map[*html.Node]map[string][]Listener{},
	}, nil
}

// Root returns the document node.
func (d *Document) Root() *html.Node { return d.root }

// Body returns the <body> element.
func (d *Document) Body() *html.Node { return d.QuerySelector("body") }

// Selection wraps the document for goquery traversal.
func (d *Document) Selection() *goquery.Selection {
	return goquery.NewDocumentFromNode(d.root).Selection
}

// QuerySelector returns the first element matching sel, or nil.
func (d *Document) QuerySelector(sel string) *html.Node {
	found := d.Selection().Find(sel)
	if found.Length() == 0 {
		return nil
	}
	return found.Nodes[0]
}

// QuerySelectorAll returns all elements matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) []*html.Node {
	return d.Selection().Find(sel).Nodes
}

// GetElementByID returns the element with the given id, or nil.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, "id"); ok && v == id {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Title returns the text of <title>.
func (d *Document) Title() string {
	if t := d.QuerySelector("title"); t != nil {
		return TextContent(t)
	}
	return ""
}

// SetTitle sets the text of <title>, creating it under <head> if needed.
func (d *Document) SetTitle(title string) {
	t := d.QuerySelector("title")
	if t == nil {
		head := d.QuerySelector("head")
		if head == nil {
			return
		}
		t = d.CreateElement("title")
		head.AppendChild(t)
	}
	d.SetText(t, title)
}

// CreateElement returns a detached element.
func (d *Document) CreateElement(tag string) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
}

// InsertBefore inserts child into parent before ref; a nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *html.Node) {
	if parent == nil || child == nil {
		return
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.InsertBefore(child, ref)
}

// Remove detaches n and drops listeners registered inside it.
func (d *Document) Remove(n *html.Node) {
	if n == nil {
		return
	}
	d.dropListeners(n)
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// ClearChildren removes every child of n together with their listeners.
func (d *Document) ClearChildren(n *html.Node) {
	if n == nil {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		d.Remove(c)
		c = next
	}
}

// SetText replaces the children of n with a single text node. The text is
// escaped when the document is rendered, never interpreted as markup.
func (d *Document) SetText(n *html.Node, text string) {
	if n == nil {
		return
	}
	d.ClearChildren(n)
	if text == "" {
		return
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// SetInnerHTML replaces the children of n with the parsed markup.
func (d *Document) SetInnerHTML(n *html.Node, markup string) error {
	if n == nil {
		return nil
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), n)
	if err != nil {
		return fmt.Errorf("dom: parse fragment: %w", err)
	}
	d.ClearChildren(n)
	for _, c := range nodes {
		n.AppendChild(c)
	}
	return nil
}

// Contains reports whether n is attached to the document tree.
func (d *Document) Contains(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

// Key returns the element's event key, assigning one on first use.
func (d *Document) Key(n *html.Node) string {
	if v, ok := Attr(n, KeyAttr); ok && v != "" {
		return v
	}
	d.nextKey++
	key := "n" + strconv.Itoa(d.nextKey)
	SetAttr(n, KeyAttr, key)
	return key
}

// NodeByKey resolves a key issued by Key. Detached nodes are not found.
func (d *Document) NodeByKey(key string) *html.Node {
	if key == "" {
		return nil
	}
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			if v, ok := Attr(n, KeyAttr); ok && v == key {
				found = n
				return false
			}
		}
		return true
	})
	return found
}

// Focus records n as the focused element.
func (d *Document) Focus(n *html.Node) { d.active = n }

// ActiveElement returns the focused element if it is still attached.
func (d *Document) ActiveElement() *html.Node {
	if d.active == nil || !d.Contains(d.active) {
		return nil
	}
	return d.active
}

// Render serializes the whole document.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TextContent concatenates the text nodes under n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}

// Attr returns the value of attribute key.
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

// SetAttr sets attribute key, replacing any existing value.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// HasClass reports whether class is in n's class list.
func HasClass(n *html.Node, class string) bool {
	v, _ := Attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass adds class to n's class list.
func AddClass(n *html.Node, class string) {
	if HasClass(n, class) {
		return
	}
	v, _ := Attr(n, "class")
	SetAttr(n, "class", strings.TrimSpace(v+" "+class))
}

// RemoveClass removes class from n's class list.
func RemoveClass(n *html.Node, class string) {
	v, ok := Attr(n, "class")
	if !ok {
		return
	}
	fields := strings.Fields(v)
	kept := fields[:0]
	for _, c := range fields {
		if c != class {
			kept = append(kept, c)
		}
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// walk visits n and its descendants depth first until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}
