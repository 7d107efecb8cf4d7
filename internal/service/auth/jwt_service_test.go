package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                   testSecret,
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}
}

func newTestService(t *testing.T, now func() time.Time) *hmacJWTService {
	t.Helper()
	svc, err := newHMACJWTService(testAuthConfig(), now)
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 1, RefreshTokenLifetimeMinutes: 2})
	assert.ErrorContains(t, err, "at least 32")

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.ErrorContains(t, err, "positive")

	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	assert.Equal(t, time.Hour, svc.AccessTokenLifetime())
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, func() time.Time { return fixed })
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, fixed.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixed.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenFailures(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, func() time.Time { return issuedAt })
	userID := uuid.New()

	access, err := issuer.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	refresh, err := issuer.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	otherKey, err := newHMACJWTService(config.AuthConfig{
		JWTSecret:                   "another-secret-that-is-long-enough-xx",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	}, func() time.Time { return issuedAt })
	require.NoError(t, err)

	later := newTestService(t, func() time.Time { return issuedAt.Add(2 * time.Hour) })
	muchLater := newTestService(t, func() time.Time { return issuedAt.Add(48 * time.Hour) })

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"uid": userID.String(), "type": "access"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		run     func() error
		wantErr error
	}{
		{"malformed", func() error { _, err := issuer.ValidateToken(context.Background(), "not.a.jwt"); return err }, ErrInvalidToken},
		{"wrong key", func() error { _, err := otherKey.ValidateToken(context.Background(), access); return err }, ErrInvalidToken},
		{"expired", func() error { _, err := later.ValidateToken(context.Background(), access); return err }, ErrExpiredToken},
		{"none alg", func() error { _, err := issuer.ValidateToken(context.Background(), noneToken); return err }, ErrInvalidToken},
		{"refresh as access", func() error { _, err := issuer.ValidateToken(context.Background(), refresh); return err }, ErrWrongTokenType},
		{"access as refresh", func() error { _, err := issuer.ValidateRefreshToken(context.Background(), access); return err }, ErrWrongTokenType},
		{"refresh wrong key", func() error { _, err := otherKey.ValidateRefreshToken(context.Background(), refresh); return err }, ErrInvalidRefreshToken},
		{"refresh expired", func() error { _, err := muchLater.ValidateRefreshToken(context.Background(), refresh); return err }, ErrExpiredRefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.run(), tt.wantErr)
		})
	}
}

func TestValidateTokenAllowsClockSkew(t *testing.T) {
	t.Parallel()

	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestService(t, func() time.Time { return issuedAt })
	token, err := issuer.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// One minute past expiry is inside the two minute leeway.
	checker := newTestService(t, func() time.Time { return issuedAt.Add(61 * time.Minute) })
	_, err = checker.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, time.Now)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}
