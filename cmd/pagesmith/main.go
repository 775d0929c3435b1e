package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/pagesmith"
	"github.com/fwojciec/pagesmith/gemini"
	"github.com/fwojciec/pagesmith/goquery"
	pagesmithhttp "github.com/fwojciec/pagesmith/http"
	pagesmithopenai "github.com/fwojciec/pagesmith/openai"
	"github.com/fwojciec/pagesmith/prometheus"
	"github.com/fwojciec/pagesmith/rewrite"
	pagesmithslog "github.com/fwojciec/pagesmith/slog"
	"github.com/fwojciec/pagesmith/zip"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Main represents the program.
type Main struct {
	// Generator overrides the provider selected by flags. Set before
	// calling Run(), for end-to-end testing.
	Generator pagesmith.Generator

	// Humanizer overrides the humanizer built from flags.
	Humanizer pagesmith.Humanizer
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagesmith"),
		kong.Description("Rewrite the copy of landing-page templates for a new business."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'pagesmith --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		return err
	}

	logger := newLogger(stderr, cli.LogLevel)
	deps.Logger = logger
	deps.Metrics = prometheus.NewMetrics()
	deps.Loader = zip.NewLoader()
	deps.Extractor = pagesmithslog.NewLoggingExtractor(goquery.NewExtractor(), logger)

	// inspect never calls a backend.
	if strings.HasPrefix(kongCtx.Command(), "inspect") {
		return kongCtx.Run(deps)
	}

	generator, err := m.newGenerator(ctx, cli, cfg, stderr)
	if err != nil {
		return err
	}
	if generator == nil {
		logger.Warn("no generation backend configured; templates with rewritable fields will fail")
	}

	opts := []rewrite.Option{
		rewrite.WithConfig(cfg.Rewrite),
		rewrite.WithLogger(logger),
	}
	if h := m.newHumanizer(cli, cfg); h != nil {
		opts = append(opts, rewrite.WithHumanizer(
			deps.Metrics.NewHumanizer(pagesmithslog.NewLoggingHumanizer(h, logger)),
		))
	}
	if generator != nil {
		generator = deps.Metrics.NewGenerator(pagesmithslog.NewLoggingGenerator(generator, logger))
	}

	var rewriter pagesmith.TemplateRewriter = rewrite.NewRewriter(deps.Extractor, generator, zip.NewPackager(), opts...)
	rewriter = pagesmithslog.NewLoggingTemplateRewriter(rewriter, logger)
	deps.Rewriter = deps.Metrics.NewTemplateRewriter(rewriter)

	return kongCtx.Run(deps)
}

// newGenerator returns the generation backend selected by flags and
// config, or nil when its API key is not set.
func (m *Main) newGenerator(ctx context.Context, cli *CLI, cfg *Config, stderr io.Writer) (pagesmith.Generator, error) {
	if m.Generator != nil {
		return m.Generator, nil
	}

	provider := firstNonEmpty(cli.Provider, cfg.Provider, ProviderOpenAI)
	model := firstNonEmpty(cli.Model, cfg.Model)

	switch provider {
	case ProviderOpenAI:
		if cli.OpenAIKey == "" {
			fmt.Fprintln(stderr, "Hint: set OPENAI_API_KEY to enable text generation")
			return nil, nil
		}
		client := openai.NewClient(option.WithAPIKey(cli.OpenAIKey))
		return pagesmithopenai.NewGenerator(client, model), nil
	case ProviderGemini:
		if cli.GeminiKey == "" {
			fmt.Fprintln(stderr, "Hint: set GEMINI_API_KEY to enable text generation. Get a key at https://aistudio.google.com/apikey")
			return nil, nil
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, model), nil
	default:
		return nil, pagesmith.Errorf(pagesmith.ECONFIG, "unknown provider %q: expected openai or gemini", provider)
	}
}

// newHumanizer returns the humanizer client, or nil when it is not
// configured.
func (m *Main) newHumanizer(cli *CLI, cfg *Config) pagesmith.Humanizer {
	if m.Humanizer != nil {
		return m.Humanizer
	}
	if cli.HumanizerURL == "" || cli.HumanizerKey == "" {
		return nil
	}

	var opts []pagesmithhttp.HumanizerOption
	if cfg.Humanizer.Model != "" {
		opts = append(opts, pagesmithhttp.WithHumanizeModel(cfg.Humanizer.Model))
	}
	if cfg.Humanizer.Delay > 0 {
		opts = append(opts, pagesmithhttp.WithHumanizeDelay(cfg.Humanizer.Delay))
	}
	if cfg.Humanizer.Timeout > 0 {
		opts = append(opts, pagesmithhttp.WithHumanizeTimeout(cfg.Humanizer.Timeout))
	}
	return pagesmithhttp.NewHumanizer(cli.HumanizerURL, cli.HumanizerKey, opts...)
}

func newLogger(w io.Writer, level string) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l}))
}

// loadTemplateFile loads a template from a local .zip or .html file.
func loadTemplateFile(loader pagesmith.TemplateLoader, path string) (*pagesmith.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		return loader.LoadArchive(data)
	}
	return loader.LoadHTML(string(data))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
