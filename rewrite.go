package pagesmith

import (
	"context"
	"strings"
)

// MaxGroups is the largest number of rewrite groups a single document may
// produce before extraction fails with ETOOLARGE.
const MaxGroups = 2_500

// Logical attribute names for the head metadata slots. These never appear
// in markup; the targets they carry write to the meta tag's content attribute.
const (
	AttrMetaDescription = "meta-description"
	AttrMetaKeywords    = "meta-keywords"
)

// TargetKind discriminates between text node and attribute targets.
type TargetKind int

// TargetKind constants.
const (
	TargetText TargetKind = iota
	TargetAttr
)

// String returns the kind name used in grouping keys and logs.
func (k TargetKind) String() string {
	if k == TargetAttr {
		return "attr"
	}
	return "text"
}

// Target is one physical location in a parsed document that a replacement
// is written to. Node is a handle into the document's node table.
type Target struct {
	Node int
	Kind TargetKind
	Attr string
}

// Section is the inferred page section an element belongs to.
type Section string

// Section labels in classification priority order.
const (
	SectionNone         Section = ""
	SectionHero         Section = "hero"
	SectionSubHero      Section = "sub-hero"
	SectionFeatures     Section = "features"
	SectionBenefits     Section = "benefits"
	SectionTestimonials Section = "testimonials"
	SectionPricing      Section = "pricing"
	SectionFAQ          Section = "faq"
	SectionCTA          Section = "cta"
)

// GroupKey is the identity of a RewriteGroup. Two extracted occurrences
// belong to the same group iff their keys are equal.
type GroupKey struct {
	Kind TargetKind
	Attr string
	Tag  string
	Text string
}

// RewriteGroup is one unit of rewrite work: a normalized piece of copy and
// every location in the document where it occurs.
type RewriteGroup struct {
	// ID is assigned at batch-build time (t1, t2, ...) and is only stable
	// within a single run.
	ID string

	Kind TargetKind

	// Attr is the attribute name for attribute groups, or one of the
	// logical AttrMeta* names for head metadata. Empty for text groups.
	Attr string

	// Tag is the lowercase tag name the hint was derived from.
	Tag string

	// Original is the normalized original text. May be empty only for the
	// meta description slot.
	Original string

	// Hint describes the element, e.g. "<p.card> [section:features]".
	Hint string

	Section Section

	Targets []Target
}

// Key returns the grouping key.
func (g *RewriteGroup) Key() GroupKey {
	return GroupKey{Kind: g.Kind, Attr: g.Attr, Tag: g.Tag, Text: g.Original}
}

// IsMetaDescription reports whether g is the reserved meta description slot.
func (g *RewriteGroup) IsMetaDescription() bool {
	return g.Attr == AttrMetaDescription
}

// AllowsEmpty reports whether g may be kept with an empty original.
func (g *RewriteGroup) AllowsEmpty() bool {
	return g.IsMetaDescription()
}

// Document is a parsed, mutable HTML document.
type Document interface {
	// Apply writes text to the location identified by target.
	// Returns ENOTFOUND if the target handle is unknown.
	Apply(target Target, text string) error

	// Render serializes the document back to HTML.
	Render() (string, error)
}

// ExtractOptions configures content extraction.
type ExtractOptions struct {
	// CTALink, when set, replaces the href of call-to-action anchors.
	CTALink string
}

// Extraction is the result of extracting rewrite groups from a document.
type Extraction struct {
	Document Document

	// Groups in first-seen order.
	Groups []*RewriteGroup

	// Doctype is the original <!doctype ...> declaration, if any.
	Doctype string

	// CTARewrites counts anchors whose href was replaced.
	CTARewrites int
}

// Mutated reports whether extraction itself changed the document.
func (e *Extraction) Mutated() bool {
	return e.CTARewrites > 0
}

// Extractor collects rewritable content from HTML documents.
type Extractor interface {
	// Extract parses html and returns its rewrite groups.
	// Returns ETOOLARGE if the document yields more than MaxGroups groups.
	Extract(html string, opts ExtractOptions) (*Extraction, error)
}

// CompletionRequest is a single call to a text-generation backend.
type CompletionRequest struct {
	System    string
	Prompt    string
	MaxTokens int
}

// Generator produces JSON completions from a text-generation backend.
type Generator interface {
	// Complete sends req and returns the message content, which the
	// backend is constrained to emit as a JSON object.
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// Humanizer rewrites prose through an external humanization service.
type Humanizer interface {
	Humanize(ctx context.Context, text string) (string, error)
}

// NormalizeText collapses runs of whitespace into single spaces and trims
// the result.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// RenderWithDoctype prepends doctype to html unless html already starts
// with a doctype declaration.
func RenderWithDoctype(doctype, html string) string {
	if doctype == "" {
		return html
	}
	trimmed := strings.TrimLeft(html, " \t\r\n\ufeff")
	if len(trimmed) >= 9 && strings.EqualFold(trimmed[:9], "<!doctype") {
		return html
	}
	return doctype + "\n" + html
}

// RewriteStats summarizes one rewrite run.
type RewriteStats struct {
	Groups  int
	Batches int

	// Calls counts every Generator call, retries included.
	Calls   int
	Retries int

	// Missing counts ids the backend never answered after all retries.
	Missing int

	// Fallbacks counts groups written with their fallback text.
	Fallbacks int

	HumanizeAttempts int
	Humanized        int
	HumanizeRejected int

	// Flagged lists ids whose replacement length strayed far from the
	// original. They are written anyway.
	Flagged []string
}

// TemplateRewriter rewrites the copy of a template for a brief and returns
// the packaged ZIP archive.
type TemplateRewriter interface {
	RewriteTemplate(ctx context.Context, tmpl *Template, brief Brief) ([]byte, *RewriteStats, error)
}
