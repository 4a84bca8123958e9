package llm

import (
	"context"
	"fmt"
	"sync"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"NewsPortal/internal/ports"
)

const defaultTimeout = 60 * time.Second

// OpenAIGenerator talks to any OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	baseURL string
	apiKey  string
	model   string
	timeout time.Duration

	mu      sync.Mutex
	clients map[string]*openai.Client
}

var _ ports.TextGenerator = (*OpenAIGenerator)(nil)

// NewOpenAIGenerator builds a generator. Leave baseURL empty for api.openai.com.
func NewOpenAIGenerator(baseURL, apiKey, model string, timeout time.Duration) *OpenAIGenerator {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OpenAIGenerator{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		clients: make(map[string]*openai.Client),
	}
}

// Complete sends a system+user exchange; prompt.APIKey overrides the configured key.
func (g *OpenAIGenerator) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	key := prompt.APIKey
	if key == "" {
		key = g.apiKey
	}
	if key == "" {
		return "", fmt.Errorf("openai api key is not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client(key).CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt.User},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %q", g.model)
	}

	return resp.Choices[0].Message.Content, nil
}

func (g *OpenAIGenerator) client(key string) *openai.Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	if c, ok := g.clients[key]; ok {
		return c
	}
	cfg := openai.DefaultConfig(key)
	if g.baseURL != "" {
		cfg.BaseURL = g.baseURL
	}
	c := openai.NewClientWithConfig(cfg)
	g.clients[key] = c
	return c
}
