package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/yanqian/trip-blueprint/internal/domain/suggestion"
	"github.com/yanqian/trip-blueprint/pkg/metrics"
)

const defaultModel = "gemini-flash-latest"

// Client generates text with Google Gemini.
type Client struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewClient constructs a Gemini client for the Gemini API backend.
func NewClient(ctx context.Context, apiKey, model string, temperature float32) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("gemini api key cannot be empty")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("init gemini client: %w", err)
	}
	return &Client{client: client, model: model, temperature: temperature}, nil
}

// Generate implements suggestion.TextGenerator.
func (c *Client) Generate(ctx context.Context, prompt string) (suggestion.Completion, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](c.temperature),
	})
	if err != nil {
		return suggestion.Completion{}, fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return suggestion.Completion{}, errors.New("empty response from gemini")
	}
	var usage metrics.TokenUsage
	if meta := resp.UsageMetadata; meta != nil {
		usage = metrics.TokenUsage{
			PromptTokens:     int(meta.PromptTokenCount),
			CompletionTokens: int(meta.CandidatesTokenCount),
			TotalTokens:      int(meta.TotalTokenCount),
		}
	}
	return suggestion.Completion{Text: text, Usage: usage.Normalized()}, nil
}

var _ suggestion.TextGenerator = (*Client)(nil)
