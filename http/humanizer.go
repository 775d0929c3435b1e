// Package http provides the pagesmith HTTP server and the HTTP client for
// the external humanization service.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/pagesmith"
	"golang.org/x/time/rate"
)

// Humanizer defaults.
const (
	DefaultHumanizeTimeout = 30 * time.Second
	DefaultHumanizeDelay   = 300 * time.Millisecond
	DefaultHumanizeModel   = "v2"
	DefaultLanguage        = "English"
)

// maxHumanizeResponse bounds the humanizer response body.
const maxHumanizeResponse = 1 << 20

// Ensure Humanizer implements pagesmith.Humanizer at compile time.
var _ pagesmith.Humanizer = (*Humanizer)(nil)

// Humanizer calls an external humanization service over HTTP. Calls are
// paced so consecutive requests are at least the configured delay apart.
type Humanizer struct {
	url      string
	apiKey   string
	model    string
	language string
	timeout  time.Duration
	delay    time.Duration
	client   *http.Client
	limiter  *rate.Limiter
}

// HumanizerOption configures a Humanizer.
type HumanizerOption func(*Humanizer)

// WithHumanizeTimeout sets the per-request timeout.
// Defaults to DefaultHumanizeTimeout (30s) if not specified.
func WithHumanizeTimeout(d time.Duration) HumanizerOption {
	return func(h *Humanizer) {
		h.timeout = d
	}
}

// WithHumanizeDelay sets the minimum delay between consecutive calls.
// A zero delay disables pacing.
func WithHumanizeDelay(d time.Duration) HumanizerOption {
	return func(h *Humanizer) {
		h.delay = d
	}
}

// WithHumanizeModel sets the model name sent to the service.
func WithHumanizeModel(model string) HumanizerOption {
	return func(h *Humanizer) {
		h.model = model
	}
}

// WithHTTPClient sets the underlying HTTP client. The Humanizer uses a copy
// with the humanizer timeout; c itself is not modified.
func WithHTTPClient(c *http.Client) HumanizerOption {
	return func(h *Humanizer) {
		h.client = c
	}
}

// NewHumanizer creates a Humanizer posting to url with bearer apiKey.
func NewHumanizer(url, apiKey string, opts ...HumanizerOption) *Humanizer {
	h := &Humanizer{
		url:      url,
		apiKey:   apiKey,
		model:    DefaultHumanizeModel,
		language: DefaultLanguage,
		timeout:  DefaultHumanizeTimeout,
		delay:    DefaultHumanizeDelay,
	}
	for _, opt := range opts {
		opt(h)
	}

	// Copy the caller's client so the timeout does not leak into it.
	client := http.Client{}
	if h.client != nil {
		client = *h.client
	}
	client.Timeout = h.timeout
	h.client = &client

	if h.delay > 0 {
		h.limiter = rate.NewLimiter(rate.Every(h.delay), 1)
	} else {
		h.limiter = rate.NewLimiter(rate.Inf, 1)
	}

	return h
}

type humanizeRequest struct {
	Text     string `json:"text"`
	Model    string `json:"model"`
	Words    bool   `json:"words"`
	Costs    bool   `json:"costs"`
	Language string `json:"language"`
}

type humanizeResponse struct {
	Output string `json:"output"`
}

// Humanize sends text to the service and returns its output.
func (h *Humanizer) Humanize(ctx context.Context, text string) (string, error) {
	if h.url == "" || h.apiKey == "" {
		return "", pagesmith.Errorf(pagesmith.ECONFIG, "humanizer not configured")
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(humanizeRequest{
		Text:     text,
		Model:    h.model,
		Words:    true,
		Language: h.language,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxHumanizeResponse))
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("humanizer: HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out humanizeResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("humanizer: decode response: %w", err)
	}
	return out.Output, nil
}
