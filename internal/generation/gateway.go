package generation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/redact"
)

// Provider is a language-model backend able to answer a single prompt.
type Provider interface {
	// Name is the display name reported to API clients ("Gemini", "Groq").
	Name() string

	// Complete sends prompt with the given system instruction and returns
	// the raw completion text.
	Complete(ctx context.Context, prompt, systemInstruction string) (string, error)
}

// ProviderRole identifies which configured provider served a request.
type ProviderRole int

// Provider roles.
const (
	RolePrimary ProviderRole = iota
	RoleSecondary
)

// String implements fmt.Stringer.
func (r ProviderRole) String() string {
	if r == RolePrimary {
		return "primary"
	}
	return "secondary"
}

// Request is a single generation request.
type Request struct {
	Prompt            string
	SystemInstruction string
}

// Result is the normalised answer of whichever provider served the request.
type Result struct {
	Text         string
	ProviderUsed ProviderRole
	ProviderName string
}

// Defaults applied by NewGateway.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultSystemInstruction = "You are a helpful study assistant."
)

// GatewayConfig holds the tunables of a Gateway.
type GatewayConfig struct {
	// Timeout bounds each provider call.
	Timeout time.Duration

	// SystemInstruction is used when a request carries none.
	SystemInstruction string
}

// Gateway selects a provider for each request and normalises the answer.
type Gateway struct {
	primary   Provider
	secondary Provider
	health    *ProviderHealth
	cfg       GatewayConfig
	logger    *slog.Logger
}

// NewGateway creates a Gateway. primary may be nil when no credential is
// configured, in which case health is disabled immediately. health may be
// nil, in which case a fresh pending flag is created.
func NewGateway(
	primary, secondary Provider,
	health *ProviderHealth,
	cfg GatewayConfig,
	logger *slog.Logger,
) (*Gateway, error) {
	if secondary == nil {
		return nil, fmt.Errorf("%w: secondary provider is required", ErrInvalidConfig)
	}
	if health == nil {
		health = NewProviderHealth()
	}
	if primary == nil {
		health.Disable()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if strings.TrimSpace(cfg.SystemInstruction) == "" {
		cfg.SystemInstruction = DefaultSystemInstruction
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		primary:   primary,
		secondary: secondary,
		health:    health,
		cfg:       cfg,
		logger:    logger.With("component", "generation_gateway"),
	}, nil
}

// Health returns the primary provider's health flag.
func (g *Gateway) Health() *ProviderHealth {
	return g.health
}

// Primary returns the primary provider, or nil when none is configured.
func (g *Gateway) Primary() Provider {
	return g.primary
}

// Secondary returns the secondary provider.
func (g *Gateway) Secondary() Provider {
	return g.secondary
}

// Generate answers req with the primary provider when it is active, falling
// back to the secondary otherwise. A primary failure disables the primary for
// the rest of the process. When the secondary fails the returned error is an
// *AllProvidersFailedError carrying the secondary's message.
func (g *Gateway) Generate(ctx context.Context, req Request) (*Result, error) {
	log := logger.FromContextOrDefault(ctx, g.logger)

	if req.Prompt == "" {
		return nil, ErrInvalidRequest
	}

	system := req.SystemInstruction
	if system == "" {
		system = g.cfg.SystemInstruction
	}

	var primaryErr *ProviderError
	if g.primary != nil && g.health.IsActive() {
		text, err := g.call(ctx, g.primary, req.Prompt, system)
		if err == nil {
			log.Debug("request served by primary provider", "provider", g.primary.Name())
			return &Result{Text: text, ProviderUsed: RolePrimary, ProviderName: g.primary.Name()}, nil
		}

		// A request abandoned by its caller says nothing about the provider.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		g.health.Disable()
		primaryErr = &ProviderError{Provider: g.primary.Name(), Err: err}
		log.Warn("primary provider failed, disabling it and falling back",
			"provider", g.primary.Name(),
			"fallback", g.secondary.Name(),
			"error", redact.Error(err))
	}

	text, err := g.call(ctx, g.secondary, req.Prompt, system)
	if err != nil {
		log.Error("secondary provider failed",
			"provider", g.secondary.Name(),
			"error", redact.Error(err))
		return nil, &AllProvidersFailedError{
			Primary:   primaryErr,
			Secondary: &ProviderError{Provider: g.secondary.Name(), Err: err},
		}
	}

	log.Debug("request served by secondary provider", "provider", g.secondary.Name())
	return &Result{Text: text, ProviderUsed: RoleSecondary, ProviderName: g.secondary.Name()}, nil
}

func (g *Gateway) call(ctx context.Context, p Provider, prompt, system string) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return p.Complete(callCtx, prompt, system)
}
