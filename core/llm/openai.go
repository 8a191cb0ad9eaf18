// Package llm implements the TextGenerator interface with an
// OpenAI-compatible chat API, and the Copywriter that turns templated
// prompts into book descriptions, keywords and classification codes.
package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/gaurav-prasanna/paperback/core"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ErrEmptyResponse is returned when the API answers with no usable text.
var ErrEmptyResponse = errors.New("model returned empty response")

// Deterministic is the temperature to request greedy decoding. The API
// client drops a literal zero.
const Deterministic float32 = math.SmallestNonzeroFloat32

const defaultModel = "gpt-4o-mini"

// Options configures an OpenAI generator.
type Options struct {
	APIKey  string
	BaseURL string
	Model   string
	// RequestsPerMinute caps the request rate. Zero means unlimited.
	RequestsPerMinute int
	MaxTokens         int
}

// OpenAI generates text with a chat completion model.
type OpenAI struct {
	client    *openai.Client
	model     string
	maxTokens int
	limiter   *rate.Limiter
}

// NewOpenAI creates an OpenAI generator.
func NewOpenAI(opts Options) *OpenAI {
	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Model == "" {
		opts.Model = defaultModel
	}
	limit := rate.Inf
	if opts.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(opts.RequestsPerMinute))
	}
	return &OpenAI{
		client:    openai.NewClientWithConfig(cfg),
		model:     opts.Model,
		maxTokens: opts.MaxTokens,
		limiter:   rate.NewLimiter(limit, 1),
	}
}

// Generate implements core.TextGenerator.
func (o *OpenAI) Generate(ctx context.Context, prompt core.Prompt) (string, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}

	var messages []openai.ChatCompletionMessage
	if prompt.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: prompt.System})
	}
	if prompt.User != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt.User})
	}
	if len(messages) == 0 {
		return "", fmt.Errorf("empty prompt")
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: prompt.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
