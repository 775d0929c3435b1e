package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/prometheus"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Loader    pagesmith.TemplateLoader
	Extractor pagesmith.Extractor
	Rewriter  pagesmith.TemplateRewriter
	Metrics   *prometheus.Metrics
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config   string `short:"c" type:"existingfile" env:"PAGESMITH_CONFIG" help:"YAML config file with rewrite limits and model settings"`
	Provider string `env:"PAGESMITH_PROVIDER" help:"Text generation provider (openai or gemini)"`
	Model    string `env:"PAGESMITH_MODEL" help:"Generation model; the provider default when empty"`
	LogLevel string `enum:"debug,info,warn,error" default:"info" help:"Log level"`

	OpenAIKey    string `name:"openai-api-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	GeminiKey    string `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key"`
	HumanizerKey string `name:"humanizer-api-key" env:"HUMANIZER_API_KEY" help:"Humanizer API key"`
	HumanizerURL string `name:"humanizer-url" env:"HUMANIZER_URL" help:"Humanizer endpoint URL"`

	Serve   ServeCmd   `cmd:"" help:"Serve the template rewrite HTTP API"`
	Rewrite RewriteCmd `cmd:"" help:"Rewrite a local HTML or ZIP template"`
	Inspect InspectCmd `cmd:"" help:"List the rewritable fields of a template without rewriting it"`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `default:":8080" env:"PAGESMITH_ADDR" help:"Listen address"`
}

// RewriteCmd is the "rewrite" subcommand.
type RewriteCmd struct {
	Template string `arg:"" type:"existingfile" help:"Template file (.html or .zip)"`
	Brief    string `short:"b" required:"" help:"What the page is about"`
	Company  string `help:"Company name"`
	CTALink  string `name:"cta-link" help:"Link written to call-to-action anchors"`
	Tone     string `help:"Desired tone of voice"`
	Location string `help:"Business location"`
	Humanize bool   `help:"Run long prose through the humanizer"`
	Output   string `short:"o" default:"landing-page.zip" help:"Output ZIP path"`
}

// InspectCmd is the "inspect" subcommand.
type InspectCmd struct {
	Template string `arg:"" type:"existingfile" help:"Template file (.html or .zip)"`
	CTALink  string `name:"cta-link" help:"Report anchors that would receive this link"`
}
