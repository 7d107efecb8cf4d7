package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/phrazzld/mindflow-api/internal/redact"
)

// ProbePrompt is the trial prompt sent to the primary provider at startup.
const ProbePrompt = "Hi"

// Probe resolves health with one trial completion against primary. A nil
// primary (no credential configured) disables health without any network
// call. Probe returns the resulting state.
func Probe(
	ctx context.Context,
	primary Provider,
	health *ProviderHealth,
	timeout time.Duration,
	logger *slog.Logger,
) HealthState {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "provider_probe")

	if primary == nil {
		health.Disable()
		log.Info("primary provider not configured, using secondary only")
		return health.State()
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	if _, err := primary.Complete(probeCtx, ProbePrompt, ""); err != nil {
		health.Disable()
		log.Warn("primary provider probe failed, falling back to secondary",
			"provider", primary.Name(),
			"error", redact.Error(err),
			"duration_ms", time.Since(start).Milliseconds())
		return health.State()
	}

	if health.MarkActive() {
		log.Info("primary provider active",
			"provider", primary.Name(),
			"duration_ms", time.Since(start).Milliseconds())
	}
	return health.State()
}

// StartProbe runs Probe in a new goroutine. The returned channel receives the
// resolved state and is then closed.
func StartProbe(
	ctx context.Context,
	primary Provider,
	health *ProviderHealth,
	timeout time.Duration,
	logger *slog.Logger,
) <-chan HealthState {
	done := make(chan HealthState, 1)
	go func() {
		defer close(done)
		done <- Probe(ctx, primary, health, timeout, logger)
	}()
	return done
}
