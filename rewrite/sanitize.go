package rewrite

import (
	"html"

	"github.com/fwojciec/pagesmith"
	"github.com/microcosm-cc/bluemonday"
)

// textPolicy strips all markup from generated copy.
var textPolicy = bluemonday.StrictPolicy()

// Sanitize reduces generated text to plain, whitespace-normalized text.
// The strict policy escapes entities, so the result is unescaped again
// before it is written into a text node, which escapes on render.
func Sanitize(s string) string {
	return pagesmith.NormalizeText(html.UnescapeString(textPolicy.Sanitize(s)))
}
