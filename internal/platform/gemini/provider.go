package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"google.golang.org/genai"
)

// ProviderName is the name reported to API clients for this provider.
const ProviderName = "Gemini"

// DefaultModel is used when the configuration names no model.
const DefaultModel = "gemini-1.5-flash"

// ErrMissingAPIKey is returned by NewProvider when no API key is configured.
var ErrMissingAPIKey = errors.New("gemini API key cannot be empty")

// Options are the settings of a Provider.
type Options struct {
	APIKey string
	Model  string

	// BaseURL overrides the Gemini endpoint. Empty uses the public API.
	BaseURL string
}

// OptionsFromConfig extracts the Gemini settings from the LLM configuration.
func OptionsFromConfig(cfg config.LLMConfig) Options {
	return Options{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	}
}

// Provider implements generation.Provider using the Gemini API.
type Provider struct {
	// logger is used for structured logging
	logger *slog.Logger

	// client is the Gemini API client for making requests
	client *genai.Client

	// model is the name of the Gemini model to use
	model string
}

var _ generation.Provider = (*Provider)(nil)

// NewProvider creates a Gemini provider.
//
// Parameters:
//   - ctx: Context for client construction
//   - opts: API key, model and optional endpoint override
//   - logger: A structured logger for operation logging
//
// Returns:
//   - A Provider, or ErrMissingAPIKey when opts carries no key. Callers treat
//     that case as "primary not configured".
func NewProvider(ctx context.Context, opts Options, logger *slog.Logger) (*Provider, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if logger == nil {
		logger = slog.Default()
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		clientConfig.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Provider{
		logger: logger.With("component", "gemini_provider", "model", opts.Model),
		client: client,
		model:  opts.Model,
	}, nil
}

// Name implements generation.Provider.
func (p *Provider) Name() string {
	return ProviderName
}

// Model returns the configured model name.
func (p *Provider) Model() string {
	return p.model
}

// Complete sends prompt to Gemini and returns the text of the first
// candidate. An empty systemInstruction sends none.
func (p *Provider) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	log := logger.FromContextOrDefault(ctx, p.logger)

	contents := []*genai.Content{{
		Role:  "user",
		Parts: []*genai.Part{{Text: prompt}},
	}}

	var genConfig *genai.GenerateContentConfig
	if systemInstruction != "" {
		genConfig = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		}
	}

	start := time.Now()
	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return "", err
	}

	log.Debug("gemini completion finished",
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_length", len(prompt),
		"response_length", len(text))
	return text, nil
}

// responseText extracts the text of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}

	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", generation.ErrContentBlocked
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
