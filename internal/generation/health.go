package generation

import "sync/atomic"

// HealthState is the state of the primary provider.
type HealthState int32

// Health states. Transitions only move forward: pending to active or
// disabled, and active to disabled.
const (
	HealthPending HealthState = iota
	HealthActive
	HealthDisabled
)

// String returns the lower-case state name used by the health endpoint.
func (s HealthState) String() string {
	switch s {
	case HealthPending:
		return "pending"
	case HealthActive:
		return "active"
	case HealthDisabled:
		return "disabled"
	default:
		return "unknown"
	}
}

// ProviderHealth is the process-wide availability flag of the primary
// provider. Concurrent requests may race to disable it; every writer stores
// the same value, so no further synchronisation is needed.
type ProviderHealth struct {
	state atomic.Int32
}

// NewProviderHealth returns a health flag in the pending state.
func NewProviderHealth() *ProviderHealth {
	return &ProviderHealth{}
}

// State returns the current state.
func (h *ProviderHealth) State() HealthState {
	return HealthState(h.state.Load())
}

// IsActive reports whether the primary should be attempted. Pending counts
// as inactive.
func (h *ProviderHealth) IsActive() bool {
	return h.State() == HealthActive
}

// MarkActive moves pending to active. It returns false, and changes nothing,
// from any other state; a disabled provider is never re-enabled.
func (h *ProviderHealth) MarkActive() bool {
	return h.state.CompareAndSwap(int32(HealthPending), int32(HealthActive))
}

// Disable moves the flag to disabled from any state.
func (h *ProviderHealth) Disable() {
	h.state.Store(int32(HealthDisabled))
}
