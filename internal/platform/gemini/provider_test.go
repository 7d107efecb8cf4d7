package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/phrazzld/mindflow-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestNewProviderRequiresAPIKey(t *testing.T) {
	_, err := NewProvider(context.Background(), Options{APIKey: "  ", Model: "m"}, nil)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.LLMConfig{GeminiAPIKey: "key", GeminiModel: "gemini-x"})
	assert.Equal(t, Options{APIKey: "key", Model: "gemini-x"}, opts)
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name    string
		resp    *genai.GenerateContentResponse
		want    string
		wantErr error
	}{
		{
			name:    "nil response",
			resp:    nil,
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name:    "no candidates",
			resp:    &genai.GenerateContentResponse{},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "safety block",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonSafety,
			}}},
			wantErr: generation.ErrContentBlocked,
		},
		{
			name: "missing content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				FinishReason: genai.FinishReasonStop,
			}}},
			wantErr: generation.ErrInvalidResponse,
		},
		{
			name: "joins text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{{Text: "Hello, "}, nil, {Text: "world"}}},
			}}},
			want: "Hello, world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := responseText(tt.resp)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestProviderComplete(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.Contains(r.URL.Path, "gemini-test:generateContent"), r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"Hello there"}]},"finishReason":"STOP"}]}`)
	}))
	defer server.Close()

	p, err := NewProvider(context.Background(), Options{
		APIKey:  "test-key",
		Model:   "gemini-test",
		BaseURL: server.URL,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, ProviderName, p.Name())

	text, err := p.Complete(context.Background(), "Hi", "be brief")
	require.NoError(t, err)
	assert.Equal(t, "Hello there", text)
	assert.Contains(t, gotBody, "systemInstruction")
}

func TestProviderCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer server.Close()

	p, err := NewProvider(context.Background(), Options{APIKey: "k", Model: "m", BaseURL: server.URL}, nil)
	require.NoError(t, err)

	_, err = p.Complete(context.Background(), "Hi", "")
	assert.Error(t, err)
}
