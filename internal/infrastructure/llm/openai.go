// Package llm adapts the OpenAI chat-completion API to the Generator port.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"ContentPipeline/internal/ports"
)

// Client issues blocking chat-completion calls. There is no client-side
// timeout here; the transport default applies.
type Client struct {
	api    *openai.Client
	model  string
	logger *slog.Logger
}

var _ ports.Generator = (*Client)(nil)

// NewClient builds a client for the given API key and model name.
func NewClient(apiKey, model string, logger *slog.Logger) *Client {
	return &Client{api: openai.NewClient(apiKey), model: model, logger: logger}
}

// Generate performs one chat-completion call. The prompt is truncated to the
// request's input-token budget before submission.
func (c *Client) Generate(ctx context.Context, req ports.GenerationRequest) (string, error) {
	prompt := req.Prompt
	if req.MaxInputTokens > 0 {
		prompt = TruncateTokens(c.model, prompt, req.MaxInputTokens)
	}

	var messages []openai.ChatCompletionMessage
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxOutputTokens,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("chat completion done",
		"model", c.model,
		"duration", time.Since(start),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// TruncateTokens cuts text to at most limit tokens using the model's own
// encoding, so multi-byte sequences survive the cut intact. Unknown models
// fall back to the cl100k_base encoding.
func TruncateTokens(model, text string, limit int) string {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return text
		}
	}

	tokens := enc.Encode(text, nil, nil)
	if len(tokens) <= limit {
		return text
	}
	return enc.Decode(tokens[:limit])
}
