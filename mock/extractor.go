package mock

import "github.com/fwojciec/pagesmith"

var _ pagesmith.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of pagesmith.Extractor.
type Extractor struct {
	ExtractFn func(html string, opts pagesmith.ExtractOptions) (*pagesmith.Extraction, error)
}

func (e *Extractor) Extract(html string, opts pagesmith.ExtractOptions) (*pagesmith.Extraction, error) {
	return e.ExtractFn(html, opts)
}
