package mock

import (
	"context"

	"github.com/fwojciec/pagesmith"
)

var _ pagesmith.Generator = (*Generator)(nil)

// Generator is a mock implementation of pagesmith.Generator.
type Generator struct {
	CompleteFn func(ctx context.Context, req *pagesmith.CompletionRequest) (string, error)
}

func (g *Generator) Complete(ctx context.Context, req *pagesmith.CompletionRequest) (string, error) {
	return g.CompleteFn(ctx, req)
}
