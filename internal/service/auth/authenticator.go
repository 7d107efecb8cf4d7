package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/mindflow-api/internal/domain"
	"github.com/phrazzld/mindflow-api/internal/platform/logger"
	"github.com/phrazzld/mindflow-api/internal/store"
)

// TokenPair is the result of a successful login, registration or refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Hasher combines hashing and verification, as implemented by BcryptHasher.
type Hasher interface {
	PasswordHasher
	PasswordVerifier
}

// Authenticator implements registration, credential checks and token
// issuance on top of a UserStore.
type Authenticator struct {
	db     *sql.DB
	users  store.UserStore
	tokens JWTService
	hasher Hasher
	logger *slog.Logger
	now    func() time.Time
}

// NewAuthenticator wires an Authenticator. db may be nil, in which case
// registration runs without a surrounding transaction.
func NewAuthenticator(
	db *sql.DB,
	users store.UserStore,
	tokens JWTService,
	hasher Hasher,
	logger *slog.Logger,
) (*Authenticator, error) {
	if users == nil {
		return nil, errors.New("users cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("tokens cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("hasher cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Authenticator{
		db:     db,
		users:  users,
		tokens: tokens,
		hasher: hasher,
		logger: logger.With("component", "authenticator"),
		now:    time.Now,
	}, nil
}

// Register creates a new user. Returns a domain validation error for bad
// input and store.ErrEmailExists when the email is taken.
func (a *Authenticator) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := domain.NewUser(email, name, password)
	if err != nil {
		return nil, err
	}

	hashed, err := a.hasher.Hash(user.Password)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = hashed
	user.Password = ""

	create := func(ctx context.Context, users store.UserStore) error {
		if _, err := users.GetByEmail(ctx, user.Email); err == nil {
			return store.ErrEmailExists
		} else if !errors.Is(err, store.ErrUserNotFound) {
			return err
		}
		return users.Create(ctx, user)
	}

	if a.db != nil {
		err = store.RunInTransaction(ctx, a.db, func(ctx context.Context, tx *sql.Tx) error {
			return create(ctx, a.users.WithTx(tx))
		})
	} else {
		err = create(ctx, a.users)
	}
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Info("registration rejected: email already registered")
		}
		return nil, err
	}

	log.Info("user registered", "user_id", user.ID.String())
	return user, nil
}

// VerifyCredentials checks an email/password pair and returns the user.
// Returns ErrUserNotFound or ErrInvalidPassword.
func (a *Authenticator) VerifyCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("login for unknown email")
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := a.hasher.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login with wrong password", "user_id", user.ID.String())
		return nil, ErrInvalidPassword
	}
	return user, nil
}

// IssueToken creates an access/refresh token pair for userID.
func (a *Authenticator) IssueToken(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	issuedAt := a.now()

	access, err := a.tokens.GenerateToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	refresh, err := a.tokens.GenerateRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    issuedAt.Add(a.tokens.AccessTokenLifetime()).UTC(),
	}, nil
}

// Login verifies credentials and issues a token pair.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := a.VerifyCredentials(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}
	pair, err := a.IssueToken(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh validates a refresh token and rotates it into a new pair. A token
// for a user that no longer exists is reported as ErrInvalidRefreshToken.
func (a *Authenticator) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.tokens.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := a.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	return a.IssueToken(ctx, claims.UserID)
}
