package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerator_Complete(t *testing.T) {
	t.Parallel()

	t.Run("delegates to CompleteFn", func(t *testing.T) {
		t.Parallel()

		var calledWith *pagesmith.CompletionRequest
		g := &mock.Generator{
			CompleteFn: func(_ context.Context, req *pagesmith.CompletionRequest) (string, error) {
				calledWith = req
				return `{"t1":"Hello"}`, nil
			},
		}

		req := &pagesmith.CompletionRequest{System: "sys", Prompt: "prompt", MaxTokens: 100}
		got, err := g.Complete(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, `{"t1":"Hello"}`, got)
		assert.Same(t, req, calledWith)
	})
}
