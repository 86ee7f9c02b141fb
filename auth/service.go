// Package auth is the account service: signup, login, token issue and
// verification, and the per-request resolution of the calling user.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/tasklist-go/apperror"
	"github.com/user/tasklist-go/config"
	"github.com/user/tasklist-go/users"
	"github.com/user/tasklist-go/validation"
)

// hashCost is the bcrypt work factor for stored passwords.
var hashCost = 10

var (
	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash returns a hash compared against on unknown usernames so a
// failed login costs one bcrypt comparison whichever way it fails.
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("tasklist-dummy-password"), hashCost)
	})
	return dummyHash
}

// Service provides the account operations.
type Service struct {
	store  users.Store
	tokens *TokenIssuer
}

// NewService creates a Service backed by store, signing tokens per cfg.
func NewService(store users.Store, cfg config.AuthConfig) *Service {
	return &Service{
		store:  store,
		tokens: NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL),
	}
}

// Signup registers a new user. The username must not be taken.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*users.User, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	_, err := s.store.GetByUsername(ctx, input.Username)
	switch {
	case err == nil:
		return nil, apperror.NewDuplicateUsernameError(nil)
	case !errors.Is(err, users.ErrNotFound):
		return nil, apperror.NewStoreError("failed to look up username", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), hashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.NewValidationError("password: must be at most 72 bytes", err)
		}
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &users.User{
		ID:           uuid.New(),
		Username:     input.Username,
		Name:         input.Name,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			// Lost a race with a concurrent signup for the same name.
			return nil, apperror.NewDuplicateUsernameError(err)
		}
		return nil, apperror.NewStoreError("failed to create user", err)
	}

	slog.InfoContext(ctx, "user signed up", "user_id", user.ID)
	return user, nil
}

// Login checks the credentials and returns a signed token for the user.
// An unknown username and a wrong password fail identically.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyPasswordHash(), []byte(password))
			return "", apperror.NewInvalidCredentialsError()
		}
		return "", apperror.NewStoreError("failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", apperror.NewInvalidCredentialsError()
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", apperror.NewInternalError("failed to issue token", err)
	}
	return token, nil
}

// ResolveCurrentUser maps an Authorization header value to the user it
// identifies. Both "Bearer <token>" and a bare token are accepted. It returns
// nil for anything that does not resolve to an existing user.
func (s *Service) ResolveCurrentUser(ctx context.Context, rawToken string) *users.User {
	raw := strings.TrimSpace(rawToken)
	if len(raw) > 7 && strings.EqualFold(raw[:7], "bearer ") {
		raw = strings.TrimSpace(raw[7:])
	}
	if raw == "" {
		return nil
	}

	id, err := s.tokens.Parse(raw)
	if err != nil {
		slog.DebugContext(ctx, "rejected token", "error", err)
		return nil
	}

	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			slog.ErrorContext(ctx, "failed to resolve current user", "op", "auth.ResolveCurrentUser", "error", err)
		}
		return nil
	}
	return user
}

// CurrentUser returns the caller resolved for this request.
func (s *Service) CurrentUser(ctx context.Context) (*users.User, error) {
	user, ok := UserFromContext(ctx)
	if !ok {
		return nil, apperror.NewUnauthenticatedError("you must be logged in")
	}
	return user, nil
}
