package mock

import (
	"context"

	"github.com/fwojciec/pagesmith"
)

var (
	_ pagesmith.TemplateLoader = (*TemplateLoader)(nil)
	_ pagesmith.Packager       = (*Packager)(nil)
)

// TemplateLoader is a mock implementation of pagesmith.TemplateLoader.
type TemplateLoader struct {
	LoadArchiveFn func(data []byte) (*pagesmith.Template, error)
	LoadHTMLFn    func(html string) (*pagesmith.Template, error)
}

func (l *TemplateLoader) LoadArchive(data []byte) (*pagesmith.Template, error) {
	return l.LoadArchiveFn(data)
}

func (l *TemplateLoader) LoadHTML(html string) (*pagesmith.Template, error) {
	return l.LoadHTMLFn(html)
}

// Packager is a mock implementation of pagesmith.Packager.
type Packager struct {
	PackageFn func(tmpl *pagesmith.Template, html string) ([]byte, error)
}

func (p *Packager) Package(tmpl *pagesmith.Template, html string) ([]byte, error) {
	return p.PackageFn(tmpl, html)
}

var _ pagesmith.TemplateRewriter = (*TemplateRewriter)(nil)

// TemplateRewriter is a mock implementation of pagesmith.TemplateRewriter.
type TemplateRewriter struct {
	RewriteTemplateFn func(ctx context.Context, tmpl *pagesmith.Template, brief pagesmith.Brief) ([]byte, *pagesmith.RewriteStats, error)
}

func (r *TemplateRewriter) RewriteTemplate(ctx context.Context, tmpl *pagesmith.Template, brief pagesmith.Brief) ([]byte, *pagesmith.RewriteStats, error) {
	return r.RewriteTemplateFn(ctx, tmpl, brief)
}
