package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/pagesmith"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Ensure Extractor implements pagesmith.Extractor at compile time.
var _ pagesmith.Extractor = (*Extractor)(nil)

// excludedTags are skipped together with their whole subtree.
var excludedTags = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Header:   true,
	atom.Footer:   true,
}

// excludedRoles are ARIA landmark roles skipped like header and footer.
var excludedRoles = map[string]bool{
	"banner":      true,
	"contentinfo": true,
}

// rewritableAttrs are element attributes extracted as rewrite candidates.
var rewritableAttrs = []string{"alt", "aria-label", "placeholder", "title"}

var doctypePattern = regexp.MustCompile(`(?i)^[\s\x{feff}]*(<!doctype[^>]*>)`)

// Extractor collects rewrite groups from HTML documents using goquery.
type Extractor struct {
	// MaxGroups overrides pagesmith.MaxGroups when positive.
	MaxGroups int
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses src and returns its rewrite groups in first-seen order:
// title, meta description, meta keywords, then a depth-first walk of body.
func (e *Extractor) Extract(src string, opts pagesmith.ExtractOptions) (*pagesmith.Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "failed to parse HTML: %v", err)
	}

	limit := e.MaxGroups
	if limit <= 0 {
		limit = pagesmith.MaxGroups
	}

	c := &collector{
		doc:       newDocument(doc),
		byKey:     make(map[pagesmith.GroupKey]*pagesmith.RewriteGroup),
		described: make(map[*html.Node]description),
		ctaLink:   strings.TrimSpace(opts.CTALink),
		limit:     limit,
	}

	c.collectTitle(doc)
	metaPos := len(c.groups)
	hasMetaDescription := c.collectMeta(doc, "description", pagesmith.AttrMetaDescription)
	c.collectMeta(doc, "keywords", pagesmith.AttrMetaKeywords)

	if body := doc.Find("body").First(); body.Length() > 0 {
		c.walk(body.Nodes[0])
	}

	// The synthetic description slot only exists for pages that have
	// other copy to rewrite, so an empty page is left untouched.
	if !hasMetaDescription && len(c.groups) > 0 && !c.overflow {
		c.insertMetaDescription(doc, metaPos)
	}

	if c.overflow || len(c.groups) > limit {
		return nil, pagesmith.Errorf(pagesmith.ETOOLARGE, "too many fields: template has more than %d rewritable fields", limit)
	}

	return &pagesmith.Extraction{
		Document:    c.doc,
		Groups:      c.groups,
		Doctype:     CaptureDoctype(src),
		CTARewrites: c.ctaRewrites,
	}, nil
}

// CaptureDoctype returns the leading <!doctype ...> declaration of src.
func CaptureDoctype(src string) string {
	m := doctypePattern.FindStringSubmatch(src)
	if m == nil {
		return ""
	}
	return m[1]
}

// collector accumulates rewrite groups for one extraction pass.
type collector struct {
	doc         *Document
	groups      []*pagesmith.RewriteGroup
	byKey       map[pagesmith.GroupKey]*pagesmith.RewriteGroup
	described   map[*html.Node]description
	ctaLink     string
	ctaRewrites int
	limit       int
	overflow    bool
}

// add registers one occurrence. Occurrences with equal keys share a group.
func (c *collector) add(g pagesmith.RewriteGroup, target pagesmith.Target) {
	if c.overflow {
		return
	}
	if g.Original == "" && !g.AllowsEmpty() {
		return
	}

	key := g.Key()
	if existing, ok := c.byKey[key]; ok {
		existing.Targets = append(existing.Targets, target)
		return
	}
	if len(c.groups) >= c.limit {
		c.overflow = true
		return
	}

	group := g
	group.Targets = []pagesmith.Target{target}
	c.byKey[key] = &group
	c.groups = append(c.groups, &group)
}

func (c *collector) collectTitle(doc *goquery.Document) {
	title := doc.Find("head title").First()
	if title.Length() == 0 {
		return
	}
	for n := title.Nodes[0].FirstChild; n != nil; n = n.NextSibling {
		if n.Type != html.TextNode {
			continue
		}
		c.add(pagesmith.RewriteGroup{
			Kind:     pagesmith.TargetText,
			Tag:      "title",
			Original: pagesmith.NormalizeText(n.Data),
			Hint:     "<title>",
		}, pagesmith.Target{Node: c.doc.handle(n), Kind: pagesmith.TargetText})
	}
}

// collectMeta registers the content of <meta name=name> tags and reports
// whether any was found.
func (c *collector) collectMeta(doc *goquery.Document, name, logical string) bool {
	found := false
	doc.Find("meta[name]").Each(func(_ int, sel *goquery.Selection) {
		if !strings.EqualFold(strings.TrimSpace(sel.AttrOr("name", "")), name) {
			return
		}
		found = true
		c.add(pagesmith.RewriteGroup{
			Kind:     pagesmith.TargetAttr,
			Attr:     logical,
			Tag:      "meta",
			Original: pagesmith.NormalizeText(sel.AttrOr("content", "")),
			Hint:     "<meta name=" + name + ">",
		}, pagesmith.Target{Node: c.doc.handle(sel.Nodes[0]), Kind: pagesmith.TargetAttr, Attr: "content"})
	})
	return found
}

// insertMetaDescription creates an empty <meta name="description"> in head
// and inserts its group at position pos.
func (c *collector) insertMetaDescription(doc *goquery.Document, pos int) {
	head := doc.Find("head").First()
	if head.Length() == 0 {
		return
	}
	meta := &html.Node{
		Type:     html.ElementNode,
		Data:     "meta",
		DataAtom: atom.Meta,
		Attr: []html.Attribute{
			{Key: "name", Val: "description"},
			{Key: "content", Val: ""},
		},
	}
	head.Nodes[0].AppendChild(meta)

	group := &pagesmith.RewriteGroup{
		Kind:    pagesmith.TargetAttr,
		Attr:    pagesmith.AttrMetaDescription,
		Tag:     "meta",
		Hint:    "<meta name=description>",
		Targets: []pagesmith.Target{{Node: c.doc.handle(meta), Kind: pagesmith.TargetAttr, Attr: "content"}},
	}
	c.groups = append(c.groups, nil)
	copy(c.groups[pos+1:], c.groups[pos:])
	c.groups[pos] = group
	c.byKey[group.Key()] = group
}

// walk visits n and its descendants depth-first in document order.
func (c *collector) walk(n *html.Node) {
	if c.overflow || isExcluded(n) {
		return
	}

	if c.ctaLink != "" && n.DataAtom == atom.A && IsCTACandidate(n) {
		setAttr(n, "href", c.ctaLink)
		c.ctaRewrites++
	}

	for _, name := range rewritableAttrs {
		val, ok := attr(n, name)
		if !ok || strings.TrimSpace(val) == "" {
			continue
		}
		d := c.describe(n)
		c.add(pagesmith.RewriteGroup{
			Kind:     pagesmith.TargetAttr,
			Attr:     name,
			Tag:      strings.ToLower(n.Data),
			Original: pagesmith.NormalizeText(val),
			Hint:     d.hint,
			Section:  d.section,
		}, pagesmith.Target{Node: c.doc.handle(n), Kind: pagesmith.TargetAttr, Attr: name})
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch child.Type {
		case html.ElementNode:
			c.walk(child)
		case html.TextNode:
			text := pagesmith.NormalizeText(child.Data)
			if text == "" {
				continue
			}
			d := c.describe(n)
			c.add(pagesmith.RewriteGroup{
				Kind:     pagesmith.TargetText,
				Tag:      strings.ToLower(n.Data),
				Original: text,
				Hint:     d.hint,
				Section:  d.section,
			}, pagesmith.Target{Node: c.doc.handle(child), Kind: pagesmith.TargetText})
		}
	}
}

// description is the cached hint and section of one element.
type description struct {
	hint    string
	section pagesmith.Section
}

// describe returns the hint and section for element n.
func (c *collector) describe(n *html.Node) description {
	if d, ok := c.described[n]; ok {
		return d
	}
	section := ClassifySection(n)
	d := description{hint: Hint(n, section), section: section}
	c.described[n] = d
	return d
}

// isExcluded reports whether element n and its subtree are skipped.
func isExcluded(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if isExcludedTag(n) {
		return true
	}
	role, _ := attr(n, "role")
	return excludedRoles[strings.ToLower(strings.TrimSpace(role))]
}

func isExcludedTag(n *html.Node) bool {
	if n.DataAtom != 0 {
		return excludedTags[n.DataAtom]
	}
	return excludedTags[atom.Lookup([]byte(strings.ToLower(n.Data)))]
}
