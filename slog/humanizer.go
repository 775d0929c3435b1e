package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesmith"
)

// Ensure LoggingHumanizer implements pagesmith.Humanizer.
var _ pagesmith.Humanizer = (*LoggingHumanizer)(nil)

// LoggingHumanizer wraps a Humanizer with debug logging.
type LoggingHumanizer struct {
	next   pagesmith.Humanizer
	logger *slog.Logger
}

// NewLoggingHumanizer creates a new LoggingHumanizer.
func NewLoggingHumanizer(next pagesmith.Humanizer, logger *slog.Logger) *LoggingHumanizer {
	return &LoggingHumanizer{next: next, logger: logger}
}

// Humanize delegates to the wrapped humanizer and logs the call.
func (h *LoggingHumanizer) Humanize(ctx context.Context, text string) (out string, err error) {
	defer func(begin time.Time) {
		h.logger.Debug("humanize",
			"chars", len(text),
			"output_chars", len(out),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return h.next.Humanize(ctx, text)
}
