// Package userstest provides an in-memory users.Store for tests.
package userstest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/tasklist-go/users"
)

// Store is a concurrency-safe in-memory users.Store. SetErr makes every call
// fail, which is how tests simulate an unavailable database.
type Store struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]users.User
	err    error
	reads  int
	writes int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]users.User)}
}

func (s *Store) Create(_ context.Context, user *users.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	if s.err != nil {
		return s.err
	}
	for _, existing := range s.byID {
		if existing.Username == user.Username {
			return users.ErrDuplicateUsername
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.byID[user.ID] = *user
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	user, ok := s.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	return &user, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (*users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	for _, user := range s.byID {
		if user.Username == username {
			u := user
			return &u, nil
		}
	}
	return nil, users.ErrNotFound
}

// Counts returns the number of reads and writes served so far.
func (s *Store) Counts() (reads, writes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.writes
}

// SetErr makes subsequent calls fail with err (nil restores normal behaviour).
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
