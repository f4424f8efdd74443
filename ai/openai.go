package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/botweave/botweave/config"
	openai "github.com/sashabaranov/go-openai"
)

const DEFAULT_MODEL string = openai.GPT4oMini

var _ Generator = new(openAIGenerator)

type openAIGenerator struct {
	client *openai.Client
	model  string
}

func NewOpenAIGenerator(conf config.OpenAIConfig) *openAIGenerator {
	model := conf.Model
	if model == "" {
		model = DEFAULT_MODEL
	}
	return &openAIGenerator{
		client: openai.NewClient(conf.ApiKey),
		model:  model,
	}
}

func (g *openAIGenerator) Generate(ctx context.Context, prompt string, persona string) (string, error) {
	res, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		MaxTokens:   120,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: persona,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(res.Choices[0].Message.Content), nil
}
