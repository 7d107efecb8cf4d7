package mocks

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockStudySessionStore is a mock of store.StudySessionStore for use
// with testify/mock.
type TestifyMockStudySessionStore struct {
	mock.Mock
}

var _ store.StudySessionStore = (*TestifyMockStudySessionStore)(nil)

// Create is a mock implementation of store.StudySessionStore.Create
func (m *TestifyMockStudySessionStore) Create(ctx context.Context, session *domain.StudySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// ListByUser is a mock implementation of store.StudySessionStore.ListByUser
func (m *TestifyMockStudySessionStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.StudySession, error) {
	args := m.Called(ctx, userID)
	if sessions, ok := args.Get(0).([]*domain.StudySession); ok {
		return sessions, args.Error(1)
	}
	return nil, args.Error(1)
}

// GetByID is a mock implementation of store.StudySessionStore.GetByID
func (m *TestifyMockStudySessionStore) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.StudySession, error) {
	args := m.Called(ctx, userID, id)
	if session, ok := args.Get(0).(*domain.StudySession); ok {
		return session, args.Error(1)
	}
	return nil, args.Error(1)
}

// Delete is a mock implementation of store.StudySessionStore.Delete
func (m *TestifyMockStudySessionStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// WithTx returns the mock itself.
func (m *TestifyMockStudySessionStore) WithTx(tx *sql.Tx) store.StudySessionStore {
	return m
}
