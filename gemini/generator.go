// Package gemini implements pagesmith.Generator on Google Gemini.
package gemini

import (
	"context"
	"strings"

	"github.com/fwojciec/pagesmith"
	"google.golang.org/genai"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// Ensure Generator implements pagesmith.Generator at compile time.
var _ pagesmith.Generator = (*Generator)(nil)

// Generator implements pagesmith.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Complete sends req to Gemini and returns the JSON text of the first
// candidate.
func (g *Generator) Complete(ctx context.Context, req *pagesmith.CompletionRequest) (string, error) {
	if req == nil || req.Prompt == "" {
		return "", pagesmith.Errorf(pagesmith.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		return "", err
	}
	if result == nil {
		return "", pagesmith.Errorf(pagesmith.EINTERNAL, "gemini returned nil result")
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", pagesmith.Errorf(pagesmith.EINTERNAL, "gemini returned an empty response")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for req: the system
// instruction, a JSON response type and the output token cap.
func BuildConfig(req *pagesmith.CompletionRequest) *genai.GenerateContentConfig {
	temp := float32(0.7)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		Temperature:      &temp,
	}
	if req.System != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	return config
}
