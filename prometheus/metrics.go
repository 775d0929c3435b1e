// Package prometheus records pagesmith metrics with the Prometheus client.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/pagesmith"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "pagesmith"

// Metrics holds the collectors of one pagesmith process.
type Metrics struct {
	registry *prometheus.Registry

	// Generation backend
	generatorCalls    *prometheus.CounterVec
	generatorDuration prometheus.Histogram

	// Humanizer
	humanizerCalls *prometheus.CounterVec

	// Rewrites
	rewrites      *prometheus.CounterVec
	rewriteGroups prometheus.Histogram
	fallbacks     prometheus.Counter
	flagged       prometheus.Counter

	// HTTP
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the pagesmith collectors on a fresh
// registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.generatorCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "generator",
		Name:      "calls_total",
		Help:      "Generation backend calls by outcome",
	}, []string{"status"}) // status: success, error

	m.generatorDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "generator",
		Name:      "call_duration_seconds",
		Help:      "Time spent waiting for the generation backend",
		Buckets:   prometheus.ExponentialBuckets(0.5, 2, 9), // 0.5s to ~2m
	})

	m.humanizerCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "humanizer",
		Name:      "calls_total",
		Help:      "Humanizer calls by outcome",
	}, []string{"status"})

	m.rewrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "rewrite",
		Name:      "runs_total",
		Help:      "Template rewrites by error code",
	}, []string{"code"}) // code: ok or a pagesmith error code

	m.rewriteGroups = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "rewrite",
		Name:      "groups",
		Help:      "Rewrite groups per template",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1 to 2048
	})

	m.fallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "rewrite",
		Name:      "fallbacks_total",
		Help:      "Groups written with fallback text",
	})

	m.flagged = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "rewrite",
		Name:      "length_flagged_total",
		Help:      "Replacements whose length strayed far from the original",
	})

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status",
	}, []string{"route", "status"})

	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
	}, []string{"route"})

	m.registry.MustRegister(
		m.generatorCalls,
		m.generatorDuration,
		m.humanizerCalls,
		m.rewrites,
		m.rewriteGroups,
		m.fallbacks,
		m.flagged,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// Ensure decorators implement the domain interfaces at compile time.
var (
	_ pagesmith.Generator        = (*Generator)(nil)
	_ pagesmith.Humanizer        = (*Humanizer)(nil)
	_ pagesmith.TemplateRewriter = (*TemplateRewriter)(nil)
)

// Generator records call outcomes and latency of a wrapped Generator.
type Generator struct {
	next    pagesmith.Generator
	metrics *Metrics
}

// NewGenerator wraps next.
func (m *Metrics) NewGenerator(next pagesmith.Generator) *Generator {
	return &Generator{next: next, metrics: m}
}

// Complete calls the wrapped Generator and records its outcome and latency.
func (g *Generator) Complete(ctx context.Context, req *pagesmith.CompletionRequest) (string, error) {
	begin := time.Now()
	out, err := g.next.Complete(ctx, req)
	g.metrics.generatorDuration.Observe(time.Since(begin).Seconds())
	g.metrics.generatorCalls.WithLabelValues(outcome(err)).Inc()
	return out, err
}

// Humanizer records call outcomes of a wrapped Humanizer.
type Humanizer struct {
	next    pagesmith.Humanizer
	metrics *Metrics
}

// NewHumanizer wraps next.
func (m *Metrics) NewHumanizer(next pagesmith.Humanizer) *Humanizer {
	return &Humanizer{next: next, metrics: m}
}

// Humanize calls the wrapped Humanizer and records its outcome.
func (h *Humanizer) Humanize(ctx context.Context, text string) (string, error) {
	out, err := h.next.Humanize(ctx, text)
	h.metrics.humanizerCalls.WithLabelValues(outcome(err)).Inc()
	return out, err
}

// TemplateRewriter records rewrite outcomes of a wrapped TemplateRewriter.
type TemplateRewriter struct {
	next    pagesmith.TemplateRewriter
	metrics *Metrics
}

// NewTemplateRewriter wraps next.
func (m *Metrics) NewTemplateRewriter(next pagesmith.TemplateRewriter) *TemplateRewriter {
	return &TemplateRewriter{next: next, metrics: m}
}

// RewriteTemplate calls the wrapped TemplateRewriter and records the error
// code, group count, fallbacks and length outliers.
func (r *TemplateRewriter) RewriteTemplate(ctx context.Context, tmpl *pagesmith.Template, brief pagesmith.Brief) ([]byte, *pagesmith.RewriteStats, error) {
	out, stats, err := r.next.RewriteTemplate(ctx, tmpl, brief)
	code := "ok"
	if err != nil {
		code = pagesmith.ErrorCode(err)
	}
	r.metrics.rewrites.WithLabelValues(code).Inc()
	if stats != nil {
		r.metrics.rewriteGroups.Observe(float64(stats.Groups))
		r.metrics.fallbacks.Add(float64(stats.Fallbacks))
		r.metrics.flagged.Add(float64(len(stats.Flagged)))
	}
	return out, stats, err
}
