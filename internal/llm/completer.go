package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Completer is the narrow text-completion contract the pipeline depends on.
// Implementations are expected to honor ctx cancellation; the pipeline
// enforces the per-request deadline.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Model() string
}

// AnthropicCompleter backs Completer with the Anthropic Messages API or a
// compatible provider behind a custom base URL.
type AnthropicCompleter struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func NewAnthropicCompleter(apiKey, model, baseURL string) *AnthropicCompleter {
	if model == "" {
		model = "claude-3-5-sonnet-latest"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &AnthropicCompleter{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: 1024,
	}
}

func (c *AnthropicCompleter) Model() string { return c.model }

// Complete performs a single non-streaming completion. One attempt per call;
// retry policy belongs to the caller.
func (c *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(int64(c.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	return text, nil
}
