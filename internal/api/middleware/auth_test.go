package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/api/middleware"
	"github.com/phrazzld/mindflow-api/internal/api/shared"
	"github.com/phrazzld/mindflow-api/internal/mocks"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		header     string
		validate   func(ctx context.Context, token string) (*auth.Claims, error)
		wantStatus int
		wantError  string
	}{
		{
			name:   "valid token",
			header: "Bearer good",
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return &auth.Claims{UserID: userID}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "scheme is case insensitive",
			header: "bearer good",
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return &auth.Claims{UserID: userID}, nil
			},
			wantStatus: http.StatusOK,
		},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantError: "Authorization header required"},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantError: "Invalid authorization format"},
		{name: "empty token", header: "Bearer  ", wantStatus: http.StatusUnauthorized, wantError: "Invalid authorization format"},
		{
			name:   "expired",
			header: "Bearer old",
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrExpiredToken
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token expired",
		},
		{
			name:   "refresh token",
			header: "Bearer refresh",
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, auth.ErrWrongTokenType
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Invalid token",
		},
		{
			name:   "unexpected failure",
			header: "Bearer x",
			validate: func(ctx context.Context, token string) (*auth.Claims, error) {
				return nil, errors.New("key store offline")
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Authentication error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jwt := &mocks.MockJWTService{ValidateTokenFn: tt.validate}
			var gotUser uuid.UUID
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, ok := middleware.GetUserID(r)
				require.True(t, ok)
				gotUser = id
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/study/history", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			middleware.NewAuthMiddleware(jwt).Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, userID, gotUser)
				return
			}
			var body shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantError, body.Error)
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	var traceID string
	var hasLogger bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		hasLogger = logger.FromContextOrDefault(r.Context(), nil) != slog.Default()
	})

	rec := httptest.NewRecorder()
	middleware.NewTraceMiddleware(nil)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Len(t, traceID, shared.TraceIDLength*2)
	assert.True(t, hasLogger)
	assert.Equal(t, traceID, rec.Header().Get(middleware.TraceIDHeader))
}
