package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/platform/migrations"
	"github.com/phrazzld/mindflow-api/internal/platform/sqlite"
	"github.com/phrazzld/mindflow-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMigrated(t *testing.T) *sqlite.DB {
	t.Helper()

	db, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "data", "mindflow.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(context.Background(), db.DB, migrations.DialectSQLite, nil))
	return db
}

func createUser(t *testing.T, users *sqlite.UserStore, email string) *domain.User {
	t.Helper()

	user, err := domain.NewUser(email, "Test User", "password123")
	require.NoError(t, err)
	user.HashedPassword, user.Password = "$2a$10$hashed", ""
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func newSession(t *testing.T, userID uuid.UUID, title string, createdAt time.Time) *domain.StudySession {
	t.Helper()

	session, err := domain.NewStudySession(userID, title, "source text",
		[]domain.Flashcard{{Question: "Q", Answer: "A"}},
		[]domain.QuizQuestion{{Question: "Pick", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2, Explanation: "c"}})
	require.NoError(t, err)
	session.CreatedAt = createdAt
	return session
}

func TestOpenRejectsSecondProcessLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "locked.db")

	first, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)

	_, err = sqlite.Open(context.Background(), path)
	assert.ErrorIs(t, err, store.ErrStoreLocked)

	require.NoError(t, first.Close())

	again, err := sqlite.Open(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, path, again.Path())
	require.NoError(t, again.Close())
}

func TestUserStore(t *testing.T) {
	db := openMigrated(t)
	users := sqlite.NewUserStore(db, nil)
	ctx := context.Background()

	user := createUser(t, users, "Alice@Example.com")

	byEmail, err := users.GetByEmail(ctx, " ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
	assert.Equal(t, "Test User", byEmail.Name)
	assert.Equal(t, user.HashedPassword, byEmail.HashedPassword)
	assert.True(t, user.CreatedAt.Equal(byEmail.CreatedAt))

	byID, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	_, err = users.GetByID(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	dup, err := domain.NewUser("alice@example.com", "Other", "password456")
	require.NoError(t, err)
	dup.HashedPassword, dup.Password = "$2a$10$other", ""
	assert.ErrorIs(t, users.Create(ctx, dup), store.ErrEmailExists)

	invalid := &domain.User{ID: uuid.New(), Email: "nope"}
	assert.ErrorIs(t, users.Create(ctx, invalid), store.ErrInvalidEntity)
}

func TestStudySessionStoreOrderingAndOwnership(t *testing.T) {
	db := openMigrated(t)
	users := sqlite.NewUserStore(db, nil)
	sessions := sqlite.NewStudySessionStore(db, nil)
	ctx := context.Background()

	owner := createUser(t, users, "owner@example.com")
	other := createUser(t, users, "other@example.com")

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	first := newSession(t, owner.ID, "first", base)
	second := newSession(t, owner.ID, "second", base.Add(time.Minute))
	third := newSession(t, owner.ID, "third", base.Add(2*time.Minute))
	foreign := newSession(t, other.ID, "foreign", base.Add(3*time.Minute))

	for _, s := range []*domain.StudySession{second, first, third, foreign} {
		require.NoError(t, sessions.Create(ctx, s))
	}

	list, err := sessions.ListByUser(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"third", "second", "first"},
		[]string{list[0].Title, list[1].Title, list[2].Title})

	got, err := sessions.GetByID(ctx, owner.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.Flashcards, got.Flashcards)
	assert.Equal(t, second.Quiz, got.Quiz)
	assert.Equal(t, "source text", got.OriginalText)
	assert.True(t, second.CreatedAt.Equal(got.CreatedAt))

	_, err = sessions.GetByID(ctx, owner.ID, foreign.ID)
	assert.ErrorIs(t, err, store.ErrStudySessionNotFound)
	assert.ErrorIs(t, sessions.Delete(ctx, owner.ID, foreign.ID), store.ErrStudySessionNotFound)

	require.NoError(t, sessions.Delete(ctx, owner.ID, second.ID))
	assert.ErrorIs(t, sessions.Delete(ctx, owner.ID, second.ID), store.ErrStudySessionNotFound)

	empty, err := sessions.ListByUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestStudySessionStoreRejectsUnknownUser(t *testing.T) {
	db := openMigrated(t)
	sessions := sqlite.NewStudySessionStore(db, nil)

	orphan := newSession(t, uuid.New(), "orphan", time.Now().UTC())
	assert.ErrorIs(t, sessions.Create(context.Background(), orphan), store.ErrForeignKey)
}

func TestStoresWithTransaction(t *testing.T) {
	db := openMigrated(t)
	users := sqlite.NewUserStore(db, nil)
	ctx := context.Background()

	user, err := domain.NewUser("tx@example.com", "Tx", "password123")
	require.NoError(t, err)
	user.HashedPassword, user.Password = "$2a$10$tx", ""

	err = store.RunInTransaction(ctx, db.DB, func(ctx context.Context, tx *sql.Tx) error {
		if err := users.WithTx(tx).Create(ctx, user); err != nil {
			return err
		}
		return store.ErrInvalidEntity
	})
	require.ErrorIs(t, err, store.ErrInvalidEntity)

	_, err = users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, store.ErrUserNotFound, "rolled back insert must not be visible")
}
