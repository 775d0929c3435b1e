package mock

import "github.com/fwojciec/pagesmith"

var _ pagesmith.Document = (*Document)(nil)

// Document is a mock implementation of pagesmith.Document.
type Document struct {
	ApplyFn  func(target pagesmith.Target, text string) error
	RenderFn func() (string, error)
}

func (d *Document) Apply(target pagesmith.Target, text string) error {
	return d.ApplyFn(target, text)
}

func (d *Document) Render() (string, error) {
	return d.RenderFn()
}
