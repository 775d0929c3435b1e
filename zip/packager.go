package zip

import (
	"bytes"
	"time"

	"github.com/fwojciec/pagesmith"
	"github.com/klauspost/compress/zip"
)

// Ensure Packager implements pagesmith.Packager at compile time.
var _ pagesmith.Packager = (*Packager)(nil)

// Packager writes rewritten pages into ZIP archives.
type Packager struct {
	now func() time.Time
}

// NewPackager creates a new Packager.
func NewPackager() *Packager {
	return &Packager{now: time.Now}
}

// Package returns a ZIP holding html at the template's entry path.
// Other members of the template archive are copied without recompression.
func (p *Packager) Package(tmpl *pagesmith.Template, html string) ([]byte, error) {
	if tmpl == nil {
		return nil, pagesmith.Errorf(pagesmith.EINVALID, "template required")
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	written := false
	if tmpl.Archive != nil {
		r, err := zip.NewReader(bytes.NewReader(tmpl.Archive), int64(len(tmpl.Archive)))
		if err != nil {
			return nil, pagesmith.Errorf(pagesmith.EINVALID, "failed to read template archive: %v", err)
		}
		for _, f := range r.File {
			if f.Name == tmpl.EntryPath {
				if err := p.writeEntry(w, f.Name, html, f.Modified); err != nil {
					return nil, err
				}
				written = true
				continue
			}
			if err := w.Copy(f); err != nil {
				return nil, err
			}
		}
	}

	if !written {
		if err := p.writeEntry(w, tmpl.EntryPath, html, p.now()); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Packager) writeEntry(w *zip.Writer, name, html string, modified time.Time) error {
	fw, err := w.CreateHeader(&zip.FileHeader{
		Name:     name,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return err
	}
	_, err = fw.Write([]byte(html))
	return err
}
