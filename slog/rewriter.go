package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/pagesmith"
)

// Ensure LoggingTemplateRewriter implements pagesmith.TemplateRewriter.
var _ pagesmith.TemplateRewriter = (*LoggingTemplateRewriter)(nil)

// LoggingTemplateRewriter wraps a TemplateRewriter with logging.
type LoggingTemplateRewriter struct {
	next   pagesmith.TemplateRewriter
	logger *slog.Logger
}

// NewLoggingTemplateRewriter creates a new LoggingTemplateRewriter.
func NewLoggingTemplateRewriter(next pagesmith.TemplateRewriter, logger *slog.Logger) *LoggingTemplateRewriter {
	return &LoggingTemplateRewriter{next: next, logger: logger}
}

// RewriteTemplate delegates to the wrapped rewriter and logs the run.
func (r *LoggingTemplateRewriter) RewriteTemplate(ctx context.Context, tmpl *pagesmith.Template, brief pagesmith.Brief) (out []byte, stats *pagesmith.RewriteStats, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"bytes", len(out),
			"duration", time.Since(begin),
		}
		if tmpl != nil {
			attrs = append(attrs, "entry", tmpl.EntryPath, "fingerprint", tmpl.Fingerprint)
		}
		if stats != nil {
			attrs = append(attrs,
				"groups", stats.Groups,
				"calls", stats.Calls,
				"retries", stats.Retries,
				"fallbacks", stats.Fallbacks,
				"humanized", stats.Humanized,
			)
		}
		attrs = append(attrs, "err", err)
		r.logger.Info("rewrite template", attrs...)
	}(time.Now())
	return r.next.RewriteTemplate(ctx, tmpl, brief)
}
