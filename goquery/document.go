package goquery

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagesmith"
	"golang.org/x/net/html"
)

// Ensure Document implements pagesmith.Document at compile time.
var _ pagesmith.Document = (*Document)(nil)

// Document is a parsed HTML document with a node table. Rewrite targets
// refer to nodes by their index in the table rather than by pointer.
type Document struct {
	doc   *goquery.Document
	nodes []*html.Node
	index map[*html.Node]int
}

// newDocument wraps a parsed goquery document.
func newDocument(doc *goquery.Document) *Document {
	return &Document{
		doc:   doc,
		index: make(map[*html.Node]int),
	}
}

// handle returns the table index for n, registering it on first use.
func (d *Document) handle(n *html.Node) int {
	if h, ok := d.index[n]; ok {
		return h
	}
	h := len(d.nodes)
	d.nodes = append(d.nodes, n)
	d.index[n] = h
	return h
}

// Apply writes text to the node identified by target. Text node targets keep
// the original node's leading and trailing whitespace.
func (d *Document) Apply(target pagesmith.Target, text string) error {
	if target.Node < 0 || target.Node >= len(d.nodes) {
		return pagesmith.Errorf(pagesmith.ENOTFOUND, "unknown node handle %d", target.Node)
	}
	n := d.nodes[target.Node]

	switch target.Kind {
	case pagesmith.TargetText:
		if n.Type != html.TextNode {
			return pagesmith.Errorf(pagesmith.EINVALID, "node %d is not a text node", target.Node)
		}
		n.Data = keepPadding(n.Data, text)
	case pagesmith.TargetAttr:
		if n.Type != html.ElementNode {
			return pagesmith.Errorf(pagesmith.EINVALID, "node %d is not an element", target.Node)
		}
		setAttr(n, target.Attr, text)
	default:
		return pagesmith.Errorf(pagesmith.EINVALID, "unknown target kind %d", target.Kind)
	}
	return nil
}

// Render serializes the whole document.
func (d *Document) Render() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// keepPadding returns text wrapped in the whitespace that surrounds the
// content of original.
func keepPadding(original, text string) string {
	trimmedLeft := strings.TrimLeft(original, " \t\r\n\f")
	lead := original[:len(original)-len(trimmedLeft)]
	content := strings.TrimRight(trimmedLeft, " \t\r\n\f")
	trail := trimmedLeft[len(content):]
	return lead + text + trail
}

// attr returns the value of the named attribute on n.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// setAttr sets the named attribute on n, adding it if absent.
func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
