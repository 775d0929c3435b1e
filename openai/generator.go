// Package openai implements pagesmith.Generator on the OpenAI chat
// completions API.
package openai

import (
	"context"
	"strings"

	"github.com/fwojciec/pagesmith"
	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gpt-4o-mini"

// Ensure Generator implements pagesmith.Generator at compile time.
var _ pagesmith.Generator = (*Generator)(nil)

// Generator implements pagesmith.Generator using OpenAI chat completions.
type Generator struct {
	client openai.Client
	model  string
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model}
}

// Complete sends req as a system and user message pair constrained to a
// JSON object response.
func (g *Generator) Complete(ctx context.Context, req *pagesmith.CompletionRequest) (string, error) {
	if req == nil || req.Prompt == "" {
		return "", pagesmith.Errorf(pagesmith.EINVALID, "prompt required")
	}

	resp, err := g.client.Chat.Completions.New(ctx, BuildParams(g.model, req))
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", pagesmith.Errorf(pagesmith.EINTERNAL, "openai returned no choices")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", pagesmith.Errorf(pagesmith.EINTERNAL, "openai returned an empty response")
	}
	return text, nil
}

// BuildParams returns the chat completion parameters for req.
func BuildParams(model string, req *pagesmith.CompletionRequest) openai.ChatCompletionNewParams {
	var messages []openai.ChatCompletionMessageParamUnion
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    messages,
		Temperature: openai.Float(0.7),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	return params
}
