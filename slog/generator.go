package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesmith"
)

// Ensure LoggingGenerator implements pagesmith.Generator.
var _ pagesmith.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   pagesmith.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next pagesmith.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Complete delegates to the wrapped generator and logs the call.
func (g *LoggingGenerator) Complete(ctx context.Context, req *pagesmith.CompletionRequest) (out string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_chars", len(req.Prompt),
			"max_tokens", req.MaxTokens,
			"response_chars", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Complete(ctx, req)
}
