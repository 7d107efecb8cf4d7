package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/phrazzld/mindflow-api/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t, envOptions{})

	out := env.register(t, "Ada@Example.com")
	assert.NotEmpty(t, out.AccessToken)
	assert.NotEmpty(t, out.RefreshToken)
	require.NotNil(t, out.User)
	assert.Equal(t, "ada@example.com", out.User.Email)
	assert.Equal(t, "Ada", out.User.Name)

	expires, err := time.Parse(time.RFC3339, out.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := env.jwt.ValidateToken(t.Context(), out.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, out.User.ID, claims.UserID)
}

func TestRegisterErrors(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	env.register(t, "taken@example.com")

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"duplicate email", api.RegisterRequest{Name: "B", Email: "taken@example.com", Password: "password123"}, http.StatusConflict},
		{"invalid email", api.RegisterRequest{Email: "not-an-email", Password: "password123"}, http.StatusBadRequest},
		{"short password", api.RegisterRequest{Email: "short@example.com", Password: "short"}, http.StatusBadRequest},
		{"malformed json", `{"email":`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := env.do(t, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.NotEmpty(t, errorMessage(t, resp))
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	registered := env.register(t, "login@example.com")

	t.Run("success", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
			Email:    "LOGIN@example.com",
			Password: "password123",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out api.AuthResponse
		decodeBody(t, resp, &out)
		assert.NotEmpty(t, out.AccessToken)
		require.NotNil(t, out.User)
		assert.Equal(t, registered.User.ID, out.User.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
			Email:    "login@example.com",
			Password: "wrong-password",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", errorMessage(t, resp))
	})

	t.Run("unknown email", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{
			Email:    "nobody@example.com",
			Password: "password123",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid credentials", errorMessage(t, resp))
	})

	t.Run("missing fields", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t, envOptions{})
	registered := env.register(t, "refresh@example.com")

	t.Run("rotates the pair", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
			RefreshToken: registered.RefreshToken,
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out api.AuthResponse
		decodeBody(t, resp, &out)
		assert.NotEmpty(t, out.AccessToken)
		assert.NotEmpty(t, out.RefreshToken)
		assert.Nil(t, out.User)
	})

	t.Run("access token rejected", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
			RefreshToken: registered.AccessToken,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid refresh token", errorMessage(t, resp))
	})

	t.Run("garbage token", func(t *testing.T) {
		resp := env.do(t, http.MethodPost, "/api/auth/refresh", "", api.RefreshTokenRequest{
			RefreshToken: "not.a.jwt",
		})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
