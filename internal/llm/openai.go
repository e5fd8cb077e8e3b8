// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/pdiddy/report-engine/internal/httputil"
	"github.com/pdiddy/report-engine/pkg/types"
)

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 120 * time.Second
)

// OpenAIBackend implements Backend over the OpenAI chat completions API.
type OpenAIBackend struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIBackend creates a backend from generation config. API calls go
// through a retrying HTTP client and a requests-per-minute limiter so bursts
// of report requests do not trip quota errors.
func NewOpenAIBackend(cfg types.GenerationConfig) (*OpenAIBackend, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation API key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = httputil.NewRetryClient(timeout, cfg.MaxRetries)

	model := cfg.Model
	if model == "" {
		model = defaultModel
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 20
	}

	return &OpenAIBackend{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rpm/60.0), 1),
	}, nil
}

// Name returns the backend name.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Generate sends the prompt as a chat completion and returns the trimmed
// response text.
func (b *OpenAIBackend) Generate(ctx context.Context, messages []Message, maxTokens int, temperature float32) (string, error) {
	if err := b.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limit: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	chatMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		chatMessages = append(chatMessages, openai.ChatCompletionMessage{
			Role:    string(m.Role),
			Content: m.Content,
		})
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Messages:    chatMessages,
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
