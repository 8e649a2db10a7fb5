// internal/gpt/client.go
package gpt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"unibites/config"

	"github.com/sashabaranov/go-openai"
)

var (
	ErrMissingAPIKey = errors.New("no AI API key configured")
	ErrInvalidAPIKey = errors.New("AI API key is invalid")
	ErrForbidden     = errors.New("AI API key lacks permission for the model")
	ErrRateLimited   = errors.New("AI API rate limit exceeded")
	ErrEmptyResponse = errors.New("no response from AI API")
)

// Client talks to any OpenAI-compatible chat completions endpoint. The
// default configuration points it at Gemini.
type Client struct {
	client      *openai.Client
	apiKey      string
	keyPrefix   string
	model       string
	maxTokens   int
	temperature float32
}

func NewClient(cfg config.AIConfig) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &Client{
		client:      openai.NewClientWithConfig(oc),
		apiKey:      cfg.APIKey,
		keyPrefix:   cfg.KeyPrefix,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Configured reports whether a call could succeed as far as the key goes.
func (c *Client) Configured() bool {
	return c.checkKey() == nil
}

func (c *Client) checkKey() error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	if c.keyPrefix != "" && !strings.HasPrefix(c.apiKey, c.keyPrefix) {
		return fmt.Errorf("%w: expected a key starting with %q", ErrInvalidAPIKey, c.keyPrefix)
	}
	return nil
}

// Complete sends one system and one user message and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.checkKey(); err != nil {
		return "", err
	}

	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %v", ErrInvalidAPIKey, err)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	}
	return fmt.Errorf("chat completion failed: %w", err)
}
