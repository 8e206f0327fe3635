package services

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/lexdraft/lexdraft/internal/server/config"
)

// LLMClient abstracts the chat-completion backend so the generator can be
// tested with a fake and the SDK swapped without touching business logic.
type LLMClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAILLM implements LLMClient using the official openai-go SDK
// (chat completions).
type OpenAILLM struct {
	Model       string
	Temperature float64
	MaxTokens   int64
	Opts        []option.RequestOption
}

// NewOpenAILLMFromConfig builds an OpenAILLM from server config. The API key
// and model are required; the base URL override is optional and mainly used
// with self-hosted gateways.
func NewOpenAILLMFromConfig(cfg *config.Config) (*OpenAILLM, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("openai api key missing; provide openai_api_key")
	}
	if cfg.OpenAIModel == "" {
		return nil, errors.New("openai model is required")
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.OpenAIAPIKey)}
	if cfg.OpenAIBaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.OpenAIBaseURL))
	}
	return &OpenAILLM{
		Model:       cfg.OpenAIModel,
		Temperature: cfg.OpenAITemperature,
		MaxTokens:   cfg.OpenAIMaxTokens,
		Opts:        opts,
	}, nil
}

func (o *OpenAILLM) Complete(ctx context.Context, system, user string) (string, error) {
	client := openai.NewClient(o.Opts...)

	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	}
	if o.Temperature > 0 {
		params.Temperature = openai.Float(o.Temperature)
	}
	if o.MaxTokens > 0 {
		params.MaxTokens = openai.Int(o.MaxTokens)
	}

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", errors.New("openai: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}
