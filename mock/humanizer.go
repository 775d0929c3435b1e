package mock

import (
	"context"

	"github.com/fwojciec/pagesmith"
)

var _ pagesmith.Humanizer = (*Humanizer)(nil)

// Humanizer is a mock implementation of pagesmith.Humanizer.
type Humanizer struct {
	HumanizeFn func(ctx context.Context, text string) (string, error)
}

func (h *Humanizer) Humanize(ctx context.Context, text string) (string, error) {
	return h.HumanizeFn(ctx, text)
}
