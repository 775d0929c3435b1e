// Package rewrite orchestrates a template rewrite: it batches extracted
// groups, asks a Generator for replacements, re-requests dropped ids,
// optionally humanizes prose, and writes the results back.
package rewrite

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fwojciec/pagesmith"
)

// Ensure Rewriter implements pagesmith.TemplateRewriter at compile time.
var _ pagesmith.TemplateRewriter = (*Rewriter)(nil)

// Rewriter runs the rewrite pipeline. Calls to the Generator and Humanizer
// are strictly sequential.
type Rewriter struct {
	extractor pagesmith.Extractor
	generator pagesmith.Generator
	humanizer pagesmith.Humanizer
	packager  pagesmith.Packager
	config    Config
	logger    *slog.Logger
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithHumanizer enables humanization for briefs that request it.
func WithHumanizer(h pagesmith.Humanizer) Option {
	return func(r *Rewriter) {
		r.humanizer = h
	}
}

// WithConfig overrides the default limits.
func WithConfig(cfg Config) Option {
	return func(r *Rewriter) {
		r.config = cfg.withDefaults()
	}
}

// WithLogger sets the logger for per-run diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Rewriter) {
		r.logger = logger
	}
}

// NewRewriter creates a Rewriter. generator may be nil; runs that need it
// then fail with ECONFIG.
func NewRewriter(extractor pagesmith.Extractor, generator pagesmith.Generator, packager pagesmith.Packager, opts ...Option) *Rewriter {
	r := &Rewriter{
		extractor: extractor,
		generator: generator,
		packager:  packager,
		config:    DefaultConfig(),
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RewriteTemplate rewrites tmpl for brief and returns the packaged ZIP.
// A template with nothing to rewrite is packaged unchanged.
func (r *Rewriter) RewriteTemplate(ctx context.Context, tmpl *pagesmith.Template, brief pagesmith.Brief) ([]byte, *pagesmith.RewriteStats, error) {
	if tmpl == nil {
		return nil, nil, pagesmith.Errorf(pagesmith.EINVALID, "template required")
	}
	if err := brief.Validate(); err != nil {
		return nil, nil, err
	}

	ext, err := r.extractor.Extract(tmpl.HTML, pagesmith.ExtractOptions{CTALink: strings.TrimSpace(brief.CTALink)})
	if err != nil {
		return nil, nil, err
	}

	if len(ext.Groups) == 0 && !ext.Mutated() {
		out, err := r.packager.Package(tmpl, tmpl.HTML)
		if err != nil {
			return nil, nil, err
		}
		return out, &pagesmith.RewriteStats{}, nil
	}

	res, err := r.Rewrite(ctx, ext, brief)
	if err != nil {
		return nil, nil, err
	}

	html, err := ext.Document.Render()
	if err != nil {
		return nil, nil, fmt.Errorf("render document: %w", err)
	}

	out, err := r.packager.Package(tmpl, pagesmith.RenderWithDoctype(ext.Doctype, html))
	if err != nil {
		return nil, nil, err
	}
	return out, res, nil
}

// Rewrite generates replacements for every group of ext and applies them
// to ext.Document. Every group receives text: the generated candidate when
// usable, otherwise its fallback.
func (r *Rewriter) Rewrite(ctx context.Context, ext *pagesmith.Extraction, brief pagesmith.Brief) (*pagesmith.RewriteStats, error) {
	res := &pagesmith.RewriteStats{Groups: len(ext.Groups)}
	if len(ext.Groups) == 0 {
		return res, nil
	}
	if r.generator == nil {
		return nil, pagesmith.Errorf(pagesmith.ECONFIG, "text generation backend not configured")
	}

	AssignIDs(ext.Groups)
	candidates := make(map[string]string, len(ext.Groups))

	for i, batch := range BuildBatches(ext.Groups, r.config) {
		res.Batches++
		res.Calls++
		replies, err := r.complete(ctx, batch.Groups, brief, batch.MaxTokens)
		if err != nil {
			return nil, fmt.Errorf("batch %d: %w", i+1, err)
		}
		merge(candidates, batch.Groups, replies)

		missing := missingGroups(batch.Groups, candidates)
		if err := r.retry(ctx, missing, brief, batch.MaxTokens, candidates, res); err != nil {
			return nil, err
		}
	}

	budget := r.config.HumanizeBudget
	for _, g := range ext.Groups {
		text := r.resolve(ctx, g, candidates[g.ID], brief, res, &budget)
		for _, t := range g.Targets {
			if err := ext.Document.Apply(t, text); err != nil {
				return nil, fmt.Errorf("apply %s: %w", g.ID, err)
			}
		}
	}

	r.logger.Info("rewrite",
		"groups", res.Groups,
		"batches", res.Batches,
		"calls", res.Calls,
		"retries", res.Retries,
		"missing", res.Missing,
		"fallbacks", res.Fallbacks,
		"humanized", res.Humanized,
		"flagged", len(res.Flagged),
	)
	return res, nil
}

// retry re-requests missing ids in rounds. A failing retry call ends
// retrying for the batch; the ids still missing then fall back. Only
// context cancellation is returned as an error.
func (r *Rewriter) retry(ctx context.Context, missing []*pagesmith.RewriteGroup, brief pagesmith.Brief, maxTokens int, candidates map[string]string, res *pagesmith.RewriteStats) error {
	tokens := max(maxTokens, r.config.RetryMinTokens)
	for round := 1; round <= r.config.RetryRounds && len(missing) > 0; round++ {
		for _, part := range chunk(missing, r.config.RetryBatchSize) {
			res.Calls++
			res.Retries++
			replies, err := r.complete(ctx, part, brief, tokens)
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				r.logger.Warn("retry failed", "round", round, "ids", len(part), "error", err)
				res.Missing += len(missingGroups(missing, candidates))
				return nil
			}
			merge(candidates, part, replies)
		}
		missing = missingGroups(missing, candidates)
	}
	res.Missing += len(missing)
	return nil
}

func (r *Rewriter) complete(ctx context.Context, groups []*pagesmith.RewriteGroup, brief pagesmith.Brief, maxTokens int) (map[string]string, error) {
	req, err := BuildRequest(groups, brief, maxTokens)
	if err != nil {
		return nil, err
	}
	raw, err := r.generator.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return ParseReplies(raw)
}

// resolve picks the text written for g.
func (r *Rewriter) resolve(ctx context.Context, g *pagesmith.RewriteGroup, raw string, brief pagesmith.Brief, res *pagesmith.RewriteStats, budget *int) string {
	text := Sanitize(raw)
	if text == "" {
		res.Fallbacks++
		return Fallback(g, brief)
	}

	if IsLengthOutlier(g.Original, text) {
		res.Flagged = append(res.Flagged, g.ID)
		r.logger.Debug("length outlier", "id", g.ID, "hint", g.Hint, "original", len(g.Original), "candidate", len(text))
	}

	if !brief.Humanize || r.humanizer == nil || *budget <= 0 || !IsHumanizable(g, text) {
		return text
	}
	*budget--
	return r.humanize(ctx, g, text, res)
}

// humanize returns the humanized form of text, or text itself when the
// humanizer fails or its output looks broken.
func (r *Rewriter) humanize(ctx context.Context, g *pagesmith.RewriteGroup, text string, res *pagesmith.RewriteStats) string {
	res.HumanizeAttempts++
	hctx, cancel := context.WithTimeout(ctx, r.config.HumanizeTimeout)
	defer cancel()

	out, err := r.humanizer.Humanize(hctx, text)
	if err != nil {
		res.HumanizeRejected++
		r.logger.Warn("humanize failed", "id", g.ID, "error", err)
		return text
	}
	out = Sanitize(out)
	if LooksBad(text, out) {
		res.HumanizeRejected++
		r.logger.Debug("humanize rejected", "id", g.ID)
		return text
	}
	res.Humanized++
	return out
}

// merge copies the replies for groups into candidates. Blank replies are
// ignored so the id stays missing.
func merge(candidates map[string]string, groups []*pagesmith.RewriteGroup, replies map[string]string) {
	for _, g := range groups {
		if v, ok := replies[g.ID]; ok && strings.TrimSpace(v) != "" {
			candidates[g.ID] = v
		}
	}
}

func missingGroups(groups []*pagesmith.RewriteGroup, candidates map[string]string) []*pagesmith.RewriteGroup {
	var out []*pagesmith.RewriteGroup
	for _, g := range groups {
		if _, ok := candidates[g.ID]; !ok {
			out = append(out, g)
		}
	}
	return out
}
