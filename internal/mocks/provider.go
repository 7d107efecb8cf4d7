package mocks

import (
	"context"
	"sync"
)

// ProviderCall records one Complete invocation.
type ProviderCall struct {
	Prompt            string
	SystemInstruction string
}

// MockProvider implements generation.Provider for testing.
type MockProvider struct {
	// ProviderName is returned by Name.
	ProviderName string

	// CompleteFn allows test cases to mock the Complete behavior.
	CompleteFn func(ctx context.Context, prompt, systemInstruction string) (string, error)

	// Default response values
	Text string
	Err  error

	mu    sync.Mutex
	calls []ProviderCall
}

// NewMockProvider creates a provider that answers text.
func NewMockProvider(name, text string) *MockProvider {
	return &MockProvider{ProviderName: name, Text: text}
}

// NewFailingMockProvider creates a provider that always fails with err.
func NewFailingMockProvider(name string, err error) *MockProvider {
	return &MockProvider{ProviderName: name, Err: err}
}

// Name implements generation.Provider.
func (m *MockProvider) Name() string {
	return m.ProviderName
}

// Complete implements generation.Provider.
func (m *MockProvider) Complete(ctx context.Context, prompt, systemInstruction string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ProviderCall{Prompt: prompt, SystemInstruction: systemInstruction})
	m.mu.Unlock()

	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, prompt, systemInstruction)
	}
	return m.Text, m.Err
}

// CallCount returns how many times Complete was called.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Calls returns a copy of the recorded calls.
func (m *MockProvider) Calls() []ProviderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ProviderCall(nil), m.calls...)
}
