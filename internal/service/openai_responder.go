package service

import (
	"context"
	"errors"
	"fmt"

	"aihub-backend/internal/config"
	"aihub-backend/internal/utils"

	openai "github.com/sashabaranov/go-openai"
)

const defaultSystemPrompt = "You are the AI-HUB corporate assistant. Help users pick models from the catalog and solve business tasks with them. Answer concisely and in the user's language."

// OpenAIResponder serves assistant replies from an OpenAI-compatible
// chat-completions endpoint. Same contract as the canned stub: one user
// text in, one reply out.
type OpenAIResponder struct {
	client       *openai.Client
	model        string
	maxTokens    int
	temperature  float32
	systemPrompt string
}

func NewOpenAIResponder(cfg config.OpenAIConfig) *OpenAIResponder {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = utils.NewHTTPClient(cfg.Timeout)

	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = defaultSystemPrompt
	}

	return &OpenAIResponder{
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
		maxTokens:    cfg.MaxTokens,
		temperature:  cfg.Temperature,
		systemPrompt: systemPrompt,
	}
}

func (r *OpenAIResponder) GenerateReply(ctx context.Context, userText string) (string, error) {
	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       r.model,
		MaxTokens:   r.maxTokens,
		Temperature: r.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: r.systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userText},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
