package chatgpt

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/yanqian/trip-blueprint/internal/domain/suggestion"
	"github.com/yanqian/trip-blueprint/pkg/metrics"
)

const systemPrompt = "You are a travel assistant. Always answer with a single JSON document and nothing else."

// ChatClient is the subset of Client used by the generator.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
}

// Generator adapts the chat completions API to suggestion.TextGenerator.
type Generator struct {
	client      ChatClient
	model       string
	temperature float32
	encoding    *tiktoken.Tiktoken
}

// NewGenerator constructs the adapter. Token usage is estimated locally when the
// API omits it and an encoding for model can be loaded.
func NewGenerator(client ChatClient, model string, temperature float32, logger *slog.Logger) *Generator {
	g := &Generator{client: client, model: model, temperature: temperature}
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding(tiktoken.MODEL_CL100K_BASE)
	}
	if err != nil {
		logger.Warn("token encoding unavailable, usage estimates disabled", "model", model, "error", err)
	} else {
		g.encoding = enc
	}
	return g
}

// Generate implements suggestion.TextGenerator.
func (g *Generator) Generate(ctx context.Context, prompt string) (suggestion.Completion, error) {
	resp, err := g.client.CreateChatCompletion(ctx, ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return suggestion.Completion{}, err
	}
	if len(resp.Choices) == 0 {
		return suggestion.Completion{}, errors.New("chatgpt returned no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	var usage metrics.TokenUsage
	if resp.Usage != nil {
		usage = metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	} else if g.encoding != nil {
		usage = metrics.TokenUsage{
			PromptTokens:     len(g.encoding.Encode(systemPrompt+prompt, nil, nil)),
			CompletionTokens: len(g.encoding.Encode(text, nil, nil)),
		}
	}
	return suggestion.Completion{Text: text, Usage: usage.Normalized()}, nil
}

var _ suggestion.TextGenerator = (*Generator)(nil)
