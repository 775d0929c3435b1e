// Package zip loads landing-page templates from ZIP archives and packages
// rewritten pages back into downloadable archives.
package zip

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/pagesmith"
	"github.com/klauspost/compress/zip"
)

// Ensure Loader implements pagesmith.TemplateLoader at compile time.
var _ pagesmith.TemplateLoader = (*Loader)(nil)

// Loader reads templates from ZIP archives or raw HTML.
type Loader struct{}

// NewLoader creates a new Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// LoadArchive locates the entry HTML document inside a ZIP archive.
// The entry is index.html at the archive root, else the first root-level
// .html file, else the first .html file anywhere.
func (l *Loader) LoadArchive(data []byte) (*pagesmith.Template, error) {
	if len(data) == 0 {
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "template archive is empty")
	}

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "failed to read template archive: %v", err)
	}

	entry := findEntry(r.File)
	if entry == nil {
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "no HTML entry found in template archive")
	}

	html, err := readEntry(entry)
	if err != nil {
		return nil, err
	}

	tmpl := &pagesmith.Template{
		HTML:        html,
		EntryPath:   entry.Name,
		Archive:     data,
		Fingerprint: Fingerprint(html),
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// LoadHTML wraps raw HTML text as a template.
func (l *Loader) LoadHTML(html string) (*pagesmith.Template, error) {
	tmpl := &pagesmith.Template{
		HTML:        html,
		EntryPath:   pagesmith.DefaultEntryPath,
		Fingerprint: Fingerprint(html),
	}
	if err := tmpl.Validate(); err != nil {
		return nil, err
	}
	return tmpl, nil
}

// Fingerprint returns a short hex digest of html for log correlation.
func Fingerprint(html string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(html))
}

// findEntry picks the entry document in archive order.
func findEntry(files []*zip.File) *zip.File {
	var rootHTML, anyHTML *zip.File
	for _, f := range files {
		if !isCandidate(f) {
			continue
		}
		name := strings.TrimPrefix(f.Name, "./")
		isRoot := !strings.Contains(name, "/")
		if isRoot && strings.EqualFold(name, "index.html") {
			return f
		}
		if isRoot && rootHTML == nil {
			rootHTML = f
		}
		if anyHTML == nil {
			anyHTML = f
		}
	}
	if rootHTML != nil {
		return rootHTML
	}
	return anyHTML
}

// isCandidate reports whether f is an HTML file worth considering as entry.
// macOS resource fork folders are skipped.
func isCandidate(f *zip.File) bool {
	if f.FileInfo().IsDir() {
		return false
	}
	if strings.HasPrefix(f.Name, "__MACOSX/") {
		return false
	}
	return strings.EqualFold(path.Ext(f.Name), ".html")
}

// maxEntryBytes bounds the decompressed entry: MaxDocumentChars runes of
// at most 4 bytes each.
const maxEntryBytes = 4 * pagesmith.MaxDocumentChars

// readEntry decompresses f, failing with ETOOLARGE as soon as it exceeds
// maxEntryBytes. The declared size is checked before anything is inflated.
func readEntry(f *zip.File) (string, error) {
	if f.UncompressedSize64 > maxEntryBytes {
		return "", tooLarge(f.Name)
	}

	rc, err := f.Open()
	if err != nil {
		return "", pagesmith.Errorf(pagesmith.EINVALID, "failed to read %s: %v", f.Name, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(io.LimitReader(rc, maxEntryBytes+1))
	if err != nil {
		return "", pagesmith.Errorf(pagesmith.EINVALID, "failed to read %s: %v", f.Name, err)
	}
	if len(b) > maxEntryBytes {
		return "", tooLarge(f.Name)
	}
	return string(b), nil
}

func tooLarge(name string) error {
	return pagesmith.Errorf(pagesmith.ETOOLARGE, "%s exceeds the maximum of %d characters", name, pagesmith.MaxDocumentChars)
}
