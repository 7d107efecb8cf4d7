// Package providers builds the completion providers named by the LLM
// configuration.
package providers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/platform/gemini"
	"github.com/phrazzld/mindflow-api/internal/platform/groq"
)

// Set holds the providers handed to the gateway. Primary is nil when no
// Gemini credential is configured.
type Set struct {
	Primary   generation.Provider
	Secondary generation.Provider
}

// New creates the primary (Gemini) and secondary (Groq) providers. A missing
// Gemini key is not an error; a missing Groq key is.
func New(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (*Set, error) {
	if logger == nil {
		logger = slog.Default()
	}

	secondary, err := groq.NewProvider(groq.OptionsFromConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create secondary provider: %w", err)
	}
	set := &Set{Secondary: secondary}

	primary, err := gemini.NewProvider(ctx, gemini.OptionsFromConfig(cfg), logger)
	switch {
	case errors.Is(err, gemini.ErrMissingAPIKey):
		logger.Info("gemini API key not configured, primary provider disabled")
	case err != nil:
		return nil, fmt.Errorf("failed to create primary provider: %w", err)
	default:
		set.Primary = primary
	}

	return set, nil
}

// NewGateway wires a gateway around the providers in s.
func (s *Set) NewGateway(
	cfg config.LLMConfig,
	health *generation.ProviderHealth,
	logger *slog.Logger,
) (*generation.Gateway, error) {
	return generation.NewGateway(s.Primary, s.Secondary, health, generation.GatewayConfig{
		Timeout:           cfg.RequestTimeout(),
		SystemInstruction: cfg.DefaultSystemInstruction,
	}, logger)
}
