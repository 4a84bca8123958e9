package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"NewsPortal/internal/ports"
)

// OllamaGenerator runs prompts against a local Ollama server.
type OllamaGenerator struct {
	client  *api.Client
	model   string
	timeout time.Duration
}

var _ ports.TextGenerator = (*OllamaGenerator)(nil)

// NewOllamaGenerator builds a generator for baseURL (for example http://localhost:11434).
func NewOllamaGenerator(baseURL, model string, timeout time.Duration) (*OllamaGenerator, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid ollama url %q", baseURL)
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaGenerator{
		client:  api.NewClient(u, &http.Client{}),
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete streams a generation and joins the chunks. The API key is ignored.
func (o *OllamaGenerator) Complete(ctx context.Context, prompt ports.Prompt) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	req := &api.GenerateRequest{
		Model:  o.model,
		System: prompt.System,
		Prompt: prompt.User,
	}

	var out strings.Builder
	err := o.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama generate: %w", err)
	}

	return out.String(), nil
}
