// Package gemini implements the question content client on the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("empty response from model")

// Options configures a Client.
type Options struct {
	APIKey      string
	Model       string
	Temperature float32
}

// Client sends prompts to a Gemini model and returns its JSON reply.
type Client struct {
	models      *genai.Models
	model       string
	temperature float32
}

// NewClient creates a new Client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		models:      c.Models,
		model:       opts.Model,
		temperature: opts.Temperature,
	}, nil
}

// GenerateJSON implements service.ContentClient.
func (c *Client) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), c.generateConfig())
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (c *Client) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   QuestionBatchSchema,
		ThinkingConfig: &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr[int32](0),
		},
	}
}
