package goquery

import (
	"regexp"
	"strings"

	"github.com/fwojciec/pagesmith"
	"golang.org/x/net/html"
)

var (
	// contactHrefPattern matches hrefs that point at contact, booking,
	// quote or demo destinations.
	contactHrefPattern = regexp.MustCompile(`(?i)(^|[/#?=&._-])(contact|book|booking|schedule|appointment|quote|demo|consult|consultation|get-?started|sign-?up|register|enquir[ey]|inquir[ey])([/#?=&._-]|$)|^(mailto|tel):|calendly\.com`)

	// ctaMarkerPattern matches class and id values of call-to-action anchors.
	ctaMarkerPattern = regexp.MustCompile(`(?i)cta|btn|button|contact|book|sign-?up|demo|quote|get-?started`)

	// ctaTextPattern matches visible text of call-to-action anchors.
	ctaTextPattern = regexp.MustCompile(`(?i)\b(contact|book|schedule|quote|demo|get started|start now|sign ?up|register|call us|consult|try|buy|order|reserve|apply|subscribe|join|enquire|inquire)\b`)
)

// IsPlaceholderHref reports whether href is empty, a bare fragment, or a
// javascript: pseudo-URL.
func IsPlaceholderHref(href string) bool {
	h := strings.ToLower(strings.TrimSpace(href))
	return h == "" || h == "#" || strings.HasPrefix(h, "javascript:")
}

// IsContactHref reports whether href textually resembles a contact,
// booking, quote or demo destination.
func IsContactHref(href string) bool {
	return contactHrefPattern.MatchString(strings.TrimSpace(href))
}

// IsCTACandidate reports whether the anchor n should receive a caller's
// CTA link: either its href looks like a contact destination, or its href
// is a placeholder and its class, id or visible text reads like a CTA.
// A missing href counts as a placeholder.
func IsCTACandidate(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode || !strings.EqualFold(n.Data, "a") {
		return false
	}

	href, _ := attr(n, "href")
	if IsContactHref(href) {
		return true
	}
	if !IsPlaceholderHref(href) {
		return false
	}

	class, _ := attr(n, "class")
	id, _ := attr(n, "id")
	if ctaMarkerPattern.MatchString(class + " " + id) {
		return true
	}
	return ctaTextPattern.MatchString(visibleText(n))
}

// visibleText returns the normalized text content of n, skipping script
// and style content.
func visibleText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			sb.WriteString(n.Data)
			sb.WriteByte(' ')
		case html.ElementNode:
			if isExcludedTag(n) {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return pagesmith.NormalizeText(sb.String())
}
