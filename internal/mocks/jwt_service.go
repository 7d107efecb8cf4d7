package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/service/auth"
)

// MockJWTService is an auth.JWTService returning canned tokens and claims.
// ValidateTokenFn, when set, replaces access token validation; refresh
// validation always returns Claims and ValidateErr.
type MockJWTService struct {
	ValidateTokenFn func(ctx context.Context, token string) (*auth.Claims, error)

	Token        string
	RefreshToken string
	Err          error
	Claims       *auth.Claims
	ValidateErr  error
	Lifetime     time.Duration

	mu     sync.Mutex
	issued []uuid.UUID
}

var _ auth.JWTService = (*MockJWTService)(nil)

func (m *MockJWTService) record(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued = append(m.issued, userID)
}

// Issued returns the user IDs tokens were generated for, in order.
func (m *MockJWTService) Issued() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.issued...)
}

// GenerateToken implements auth.JWTService.
func (m *MockJWTService) GenerateToken(_ context.Context, userID uuid.UUID) (string, error) {
	m.record(userID)
	return m.Token, m.Err
}

// ValidateToken implements auth.JWTService.
func (m *MockJWTService) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, token)
	}
	return m.Claims, m.ValidateErr
}

// GenerateRefreshToken implements auth.JWTService.
func (m *MockJWTService) GenerateRefreshToken(_ context.Context, userID uuid.UUID) (string, error) {
	m.record(userID)
	return m.RefreshToken, m.Err
}

// ValidateRefreshToken implements auth.JWTService.
func (m *MockJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	return m.Claims, m.ValidateErr
}

// AccessTokenLifetime implements auth.JWTService. Zero means one hour.
func (m *MockJWTService) AccessTokenLifetime() time.Duration {
	if m.Lifetime == 0 {
		return time.Hour
	}
	return m.Lifetime
}
