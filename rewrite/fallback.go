package rewrite

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/pagesmith"
)

// MetaDescriptionDefault returns the description used when the backend
// produced none: the brief cut at a word boundary, else a sentence naming
// the company.
func MetaDescriptionDefault(brief pagesmith.Brief) string {
	if s := TruncateWords(pagesmith.NormalizeText(brief.UserInput), metaDescriptionChars); s != "" {
		return s
	}
	if name := strings.TrimSpace(brief.CompanyName); name != "" {
		return fmt.Sprintf("Discover what %s can do for you.", name)
	}
	return "Discover what we can do for you."
}

// Fallback returns the text written for g when no usable candidate exists.
func Fallback(g *pagesmith.RewriteGroup, brief pagesmith.Brief) string {
	if g.Original != "" {
		return g.Original
	}
	if g.IsMetaDescription() {
		return MetaDescriptionDefault(brief)
	}
	return ""
}

// TruncateWords shortens s to at most limit runes, cutting at the last
// space when one exists.
func TruncateWords(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:limit])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-")
}
