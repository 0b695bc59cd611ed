// Package llm is the direct Anthropic API judge backend, used for roster
// models that have no local CLI.
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// Client wraps the Anthropic Messages API.
type Client struct {
	api *anthropic.Client
}

// NewClient creates an API client. An empty key falls back to the SDK's
// environment-based configuration.
func NewClient(apiKey string) *Client {
	opts := []option.RequestOption{}
	if apiKey != "" {
		opts = append(opts, option.WithAPIKey(apiKey))
	}
	client := anthropic.NewClient(opts...)
	return &Client{api: &client}
}

// Complete sends the prompt as a single user message and returns the text
// response. The prompt is fully rendered by the caller; no system prompt is
// added so API-judged models see exactly what CLI-judged models see on stdin.
func (c *Client) Complete(ctx context.Context, model, prompt string) (string, error) {
	msg, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API call: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in API response")
}
