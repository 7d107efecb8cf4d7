package generation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/phrazzld/mindflow-api/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderHealthTransitions(t *testing.T) {
	t.Parallel()

	h := generation.NewProviderHealth()
	assert.Equal(t, generation.HealthPending, h.State())
	assert.False(t, h.IsActive())

	assert.True(t, h.MarkActive())
	assert.True(t, h.IsActive())
	assert.False(t, h.MarkActive(), "already active")

	h.Disable()
	assert.Equal(t, generation.HealthDisabled, h.State())
	assert.False(t, h.MarkActive(), "disabled is terminal")
	assert.Equal(t, generation.HealthDisabled, h.State())

	h.Disable()
	assert.Equal(t, generation.HealthDisabled, h.State())
}

func TestHealthStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "pending", generation.HealthPending.String())
	assert.Equal(t, "active", generation.HealthActive.String())
	assert.Equal(t, "disabled", generation.HealthDisabled.String())
	assert.Equal(t, "unknown", generation.HealthState(42).String())
}

func TestProbe(t *testing.T) {
	t.Parallel()

	t.Run("success activates", func(t *testing.T) {
		t.Parallel()
		primary := mocks.NewMockProvider("Gemini", "Hello!")
		h := generation.NewProviderHealth()

		state := generation.Probe(context.Background(), primary, h, time.Second, nil)
		assert.Equal(t, generation.HealthActive, state)

		calls := primary.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, generation.ProbePrompt, calls[0].Prompt)
	})

	t.Run("failure disables", func(t *testing.T) {
		t.Parallel()
		primary := mocks.NewFailingMockProvider("Gemini", errors.New("API key not valid"))
		h := generation.NewProviderHealth()

		state := generation.Probe(context.Background(), primary, h, time.Second, nil)
		assert.Equal(t, generation.HealthDisabled, state)
	})

	t.Run("missing primary disables without a call", func(t *testing.T) {
		t.Parallel()
		h := generation.NewProviderHealth()

		state := generation.Probe(context.Background(), nil, h, time.Second, nil)
		assert.Equal(t, generation.HealthDisabled, state)
	})

	t.Run("timeout disables", func(t *testing.T) {
		t.Parallel()
		primary := &mocks.MockProvider{
			ProviderName: "Gemini",
			CompleteFn: func(ctx context.Context, prompt, system string) (string, error) {
				<-ctx.Done()
				return "", ctx.Err()
			},
		}
		h := generation.NewProviderHealth()

		state := generation.Probe(context.Background(), primary, h, 10*time.Millisecond, nil)
		assert.Equal(t, generation.HealthDisabled, state)
	})

	t.Run("late success never re-enables", func(t *testing.T) {
		t.Parallel()
		primary := mocks.NewMockProvider("Gemini", "Hello!")
		h := generation.NewProviderHealth()
		h.Disable()

		state := generation.Probe(context.Background(), primary, h, time.Second, nil)
		assert.Equal(t, generation.HealthDisabled, state)
	})
}

func TestStartProbe(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	primary := &mocks.MockProvider{
		ProviderName: "Gemini",
		CompleteFn: func(ctx context.Context, prompt, system string) (string, error) {
			<-release
			return "Hello!", nil
		},
	}
	h := generation.NewProviderHealth()

	done := generation.StartProbe(context.Background(), primary, h, time.Second, nil)

	// Requests arriving before the probe resolves use the secondary.
	assert.Equal(t, generation.HealthPending, h.State())

	close(release)
	select {
	case state, ok := <-done:
		require.True(t, ok)
		assert.Equal(t, generation.HealthActive, state)
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not resolve")
	}

	_, ok := <-done
	assert.False(t, ok, "channel is closed after the result")
}
