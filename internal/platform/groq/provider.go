// Package groq provides the secondary generation.Provider, backed by Groq's
// OpenAI-compatible chat completions API.
package groq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
)

// ProviderName is the name reported to API clients for this provider.
const ProviderName = "Groq"

// Request defaults.
const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.5
	DefaultMaxTokens   = 4096
)

// ErrMissingAPIKey is returned by NewProvider when no API key is configured.
var ErrMissingAPIKey = errors.New("groq API key cannot be empty")

// Options are the settings of a Provider. Zero values select the defaults; a
// nil Temperature selects DefaultTemperature so that zero stays usable.
type Options struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
	MaxTokens   int
}

// OptionsFromConfig extracts the Groq settings from the LLM configuration.
func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		APIKey:      cfg.GroqAPIKey,
		Model:       cfg.GroqModel,
		BaseURL:     cfg.GroqBaseURL,
		Temperature: &cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// Provider implements generation.Provider with a chat completion call.
type Provider struct {
	client openai.Client
	opts   Options
	logger *slog.Logger
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Groq provider.
func NewProvider(opts Options, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	temperature := DefaultTemperature
	if opts.Temperature != nil {
		temperature = *opts.Temperature
	}
	opts.Temperature = &temperature
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if logger == nil {
		logger = slog.Default()
	}

	client := openai.NewClient(
		option.WithAPIKey(opts.APIKey),
		option.WithBaseURL(opts.BaseURL),
		// Failures go straight to the gateway, which owns fallback.
		option.WithMaxRetries(0),
	)

	return &Provider{
		client: client,
		opts:   opts,
		logger: logger.With("component", "groq_provider", "model", opts.Model),
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.opts.Model
}

// Complete sends the system instruction and prompt as a two-message chat and
// returns the first choice's content.
func (p *Provider) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if systemInstruction != "" {
		messages = append(messages, openai.SystemMessage(systemInstruction))
	}
	messages = append(messages, openai.UserMessage(prompt))

	params := openai.ChatCompletionNewParams{
		Model:       p.opts.Model,
		Messages:    messages,
		MaxTokens:   openai.Int(int64(p.opts.MaxTokens)),
		Temperature: openai.Float(*p.opts.Temperature),
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", describeError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in response", generation.ErrInvalidResponse)
	}

	choice := resp.Choices[0]
	logger.FromContextOrDefault(ctx, p.logger).Debug("groq completion finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", choice.FinishReason)
	return choice.Message.Content, nil
}

// APIError is a failed Groq API call. Its message is the API's own message,
// which the HTTP layer shows to clients when every provider has failed.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the underlying client error.
func (e *APIError) Unwrap() error {
	return e.Err
}

func describeError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return &APIError{StatusCode: apiErr.StatusCode, Message: apiErr.Message, Err: err}
	}
	return err
}
