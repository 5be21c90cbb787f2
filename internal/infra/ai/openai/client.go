package openai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
	"github.com/dkrysak/chemviz/internal/infra/ai/prompt"
)

const maxTokens = 256

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Summarize implements the InsightGenerator port: one short paragraph about
// the analysis, suitable for embedding in the PDF report.
func (c *Client) Summarize(ctx context.Context, res analysis.Result) (string, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.ForResult(res)},
		},
	}
	// Reasoning models take MaxCompletionTokens instead of MaxTokens.
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
