package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/pagesmith"
)

// Ensure LoggingExtractor implements pagesmith.Extractor.
var _ pagesmith.Extractor = (*LoggingExtractor)(nil)

// LoggingExtractor wraps an Extractor with logging.
type LoggingExtractor struct {
	next   pagesmith.Extractor
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next pagesmith.Extractor, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, logger: logger}
}

// Extract delegates to the wrapped extractor and logs group counts.
func (e *LoggingExtractor) Extract(html string, opts pagesmith.ExtractOptions) (ext *pagesmith.Extraction, err error) {
	defer func(begin time.Time) {
		var groups, ctas int
		if ext != nil {
			groups, ctas = len(ext.Groups), ext.CTARewrites
		}
		e.logger.Info("extract",
			"chars", len(html),
			"groups", groups,
			"cta_rewrites", ctas,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Extract(html, opts)
}
