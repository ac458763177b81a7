package provider

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Supported provider types. The set is closed; anything else is a
// configuration error.
const (
	TypeOpenAI   = "openai"
	TypeGigaChat = "gigachat"
	TypeGemini   = "gemini"
)

// Default chat-completion endpoints for the OpenAI-compatible variants.
const (
	gigaChatBaseURL = "https://gigachat.devices.sberbank.ru/api/v1"
	geminiBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai"
)

// Config selects and parameterizes a provider variant.
type Config struct {
	Type        string
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
}

// Chat calls a chat-completion endpoint. GigaChat and Gemini expose
// OpenAI-compatible APIs, so a single client covers all three variants; only
// the base URL and default model differ.
type Chat struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// New builds the provider named by cfg.Type.
func New(cfg Config) (*Chat, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("provider %q: api key is required", cfg.Type)
	}

	baseURL := cfg.BaseURL
	model := cfg.Model
	switch cfg.Type {
	case TypeOpenAI:
		if model == "" {
			model = openai.GPT4o
		}
	case TypeGigaChat:
		if baseURL == "" {
			baseURL = gigaChatBaseURL
		}
		if model == "" {
			model = "GigaChat"
		}
	case TypeGemini:
		if baseURL == "" {
			baseURL = geminiBaseURL
		}
		if model == "" {
			model = "gemini-2.0-flash"
		}
	default:
		return nil, fmt.Errorf("unknown provider type %q (supported: %s, %s, %s)",
			cfg.Type, TypeOpenAI, TypeGigaChat, TypeGemini)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}

	return &Chat{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}, nil
}

// Invoke sends the messages as one chat-completion request and returns the
// first choice's content.
func (c *Chat) Invoke(ctx context.Context, messages []Message) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &Error{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Err: fmt.Errorf("empty response from model %s", c.model)}
	}
	return resp.Choices[0].Message.Content, nil
}
