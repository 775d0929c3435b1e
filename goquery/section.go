package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/pagesmith"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxSectionDepth is how many levels, starting at the element itself,
// ClassifySection inspects.
const maxSectionDepth = 7

// sectionRule matches an element's id/class tokens or tag name to a section.
type sectionRule struct {
	section pagesmith.Section
	pattern *regexp.Regexp
	exclude *regexp.Regexp
	tags    []atom.Atom
}

// sectionRules are evaluated in order; the first match wins.
var sectionRules = []sectionRule{
	{
		section: pagesmith.SectionHero,
		pattern: regexp.MustCompile(`hero|banner|jumbotron|masthead|splash`),
		exclude: regexp.MustCompile(`sub-?hero`),
	},
	{
		section: pagesmith.SectionSubHero,
		pattern: regexp.MustCompile(`sub-?hero|subheading|sub-?title|tagline|^lead$`),
	},
	{
		section: pagesmith.SectionFeatures,
		pattern: regexp.MustCompile(`feature|service|capabilit|solution`),
	},
	{
		section: pagesmith.SectionBenefits,
		pattern: regexp.MustCompile(`benefit|advantage|why-?(us|choose)|value-?prop`),
	},
	{
		section: pagesmith.SectionTestimonials,
		pattern: regexp.MustCompile(`testimonial|review|quote|social-?proof`),
		tags:    []atom.Atom{atom.Blockquote},
	},
	{
		section: pagesmith.SectionPricing,
		pattern: regexp.MustCompile(`pricing|price|plan|tier`),
	},
	{
		section: pagesmith.SectionFAQ,
		pattern: regexp.MustCompile(`faq|question|accordion`),
		tags:    []atom.Atom{atom.Details},
	},
	{
		section: pagesmith.SectionCTA,
		pattern: regexp.MustCompile(`cta|call-?to-?action|signup|sign-up|get-?started|contact|subscribe|newsletter`),
	},
}

// ClassifySection infers the page section of n by walking up to
// maxSectionDepth element ancestors, starting at n itself. An unclassified
// <section> element ends the search.
func ClassifySection(n *html.Node) pagesmith.Section {
	depth := 0
	for ; n != nil && depth < maxSectionDepth; n = n.Parent {
		if n.Type != html.ElementNode {
			continue
		}
		depth++

		tokens := elementTokens(n)
		for _, rule := range sectionRules {
			if rule.matches(n, tokens) {
				return rule.section
			}
		}
		if n.DataAtom == atom.Section {
			return pagesmith.SectionNone
		}
	}
	return pagesmith.SectionNone
}

func (r sectionRule) matches(n *html.Node, tokens []string) bool {
	for _, tag := range r.tags {
		if n.DataAtom == tag {
			return true
		}
	}
	for _, tok := range tokens {
		if r.exclude != nil && r.exclude.MatchString(tok) {
			continue
		}
		if r.pattern.MatchString(tok) {
			return true
		}
	}
	return false
}

// elementTokens returns the lowercase id and class tokens of n.
func elementTokens(n *html.Node) []string {
	var tokens []string
	if id, ok := attr(n, "id"); ok {
		tokens = append(tokens, strings.Fields(strings.ToLower(id))...)
	}
	if class, ok := attr(n, "class"); ok {
		tokens = append(tokens, strings.Fields(strings.ToLower(class))...)
	}
	return tokens
}

// Hint describes n for the generation backend: tag, id or up to two
// classes, and the inferred section when there is one.
// Example: "<p.card> [section:features]".
func Hint(n *html.Node, section pagesmith.Section) string {
	var sb strings.Builder
	sb.WriteByte('<')
	sb.WriteString(strings.ToLower(n.Data))
	if id, ok := attr(n, "id"); ok && strings.TrimSpace(id) != "" {
		sb.WriteByte('#')
		sb.WriteString(strings.TrimSpace(id))
	}
	if class, ok := attr(n, "class"); ok {
		classes := strings.Fields(class)
		if len(classes) > 2 {
			classes = classes[:2]
		}
		for _, c := range classes {
			sb.WriteByte('.')
			sb.WriteString(c)
		}
	}
	sb.WriteByte('>')
	if section != pagesmith.SectionNone {
		sb.WriteString(" [section:")
		sb.WriteString(string(section))
		sb.WriteByte(']')
	}
	return sb.String()
}
