package pagesmith

import (
	"strings"
	"unicode/utf8"
)

// MaxDocumentChars is the largest entry document, in characters, that will
// be extracted.
const MaxDocumentChars = 220_000

// DefaultEntryPath is the entry path used for templates supplied as raw HTML.
const DefaultEntryPath = "index.html"

// Template is a loaded landing-page template.
type Template struct {
	// HTML is the entry document text.
	HTML string

	// EntryPath is the path of the entry document inside Archive,
	// or DefaultEntryPath for raw HTML input.
	EntryPath string

	// Archive holds the original ZIP bytes. Nil for raw HTML input.
	Archive []byte

	// Fingerprint identifies the entry document content in logs.
	Fingerprint string
}

// Validate returns an error if the template cannot be extracted.
func (t *Template) Validate() error {
	if strings.TrimSpace(t.HTML) == "" {
		return Errorf(EINVALID, "template HTML is empty")
	}
	if t.EntryPath == "" {
		return Errorf(EINVALID, "template entry path required")
	}
	return CheckDocumentSize(t.HTML)
}

// CheckDocumentSize returns ETOOLARGE if html exceeds MaxDocumentChars.
func CheckDocumentSize(html string) error {
	if n := utf8.RuneCountInString(html); n > MaxDocumentChars {
		return Errorf(ETOOLARGE, "template has %d characters, limit is %d", n, MaxDocumentChars)
	}
	return nil
}

// TemplateLoader turns caller input into a Template.
type TemplateLoader interface {
	// LoadArchive locates the entry HTML document inside a ZIP archive.
	// Returns EINVALID if the archive holds no HTML file and ETOOLARGE if
	// the entry document exceeds MaxDocumentChars.
	LoadArchive(data []byte) (*Template, error)

	// LoadHTML wraps raw HTML text as a template with DefaultEntryPath.
	LoadHTML(html string) (*Template, error)
}

// Packager writes a rewritten entry document back into a downloadable archive.
type Packager interface {
	// Package returns ZIP bytes holding html at the template's entry path.
	// Every other member of the template archive is carried over unchanged.
	Package(tmpl *Template, html string) ([]byte, error)
}
