// Package todostest provides an in-memory todos.Store for tests.
package todostest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/tasklist-go/todos"
)

// Store is a concurrency-safe in-memory todos.Store. SetErr makes every call
// fail, which is how tests simulate an unavailable database.
type Store struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]todos.Todo
	err   error
	calls int
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{byID: make(map[uuid.UUID]todos.Todo)}
}

func (s *Store) Create(_ context.Context, todo *todos.Todo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	now := time.Now().UTC()
	todo.CreatedAt = now
	todo.UpdatedAt = now
	s.byID[todo.ID] = *todo
	return nil
}

func (s *Store) GetByID(_ context.Context, id uuid.UUID) (*todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	todo, ok := s.byID[id]
	if !ok {
		return nil, todos.ErrNotFound
	}
	return &todo, nil
}

func (s *Store) ListByUser(_ context.Context, userID uuid.UUID) ([]todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	list := []todos.Todo{}
	for _, todo := range s.byID {
		if todo.UserID == userID {
			list = append(list, todo)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID.String() < list[j].ID.String()
	})
	return list, nil
}

func (s *Store) Update(_ context.Context, id, userID uuid.UUID, patch todos.Patch) (*todos.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	todo, ok := s.byID[id]
	if !ok || todo.UserID != userID {
		return nil, todos.ErrNotFound
	}
	if patch.Title != nil {
		todo.Title = *patch.Title
	}
	if patch.Completed != nil {
		todo.Completed = *patch.Completed
	}
	todo.UpdatedAt = time.Now().UTC()
	s.byID[id] = todo
	return &todo, nil
}

func (s *Store) Delete(_ context.Context, id, userID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	todo, ok := s.byID[id]
	if !ok || todo.UserID != userID {
		return false, nil
	}
	delete(s.byID, id)
	return true, nil
}

// Calls returns the number of store operations served so far.
func (s *Store) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// SetErr makes subsequent calls fail with err (nil restores normal behaviour).
func (s *Store) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}
