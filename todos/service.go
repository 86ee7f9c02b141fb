package todos

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/user/tasklist-go/apperror"
	"github.com/user/tasklist-go/auth"
	"github.com/user/tasklist-go/users"
	"github.com/user/tasklist-go/validation"
)

// AddTodoInput is the addTodo mutation input.
type AddTodoInput struct {
	Title string `json:"title" validate:"required,max=500"`
}

// UpdateTodoInput is the updateTodo mutation input. Nil fields are left
// unchanged.
type UpdateTodoInput struct {
	TodoID    string
	Title     *string
	Completed *bool
}

// Service provides the todo operations. Every operation requires a caller in
// the context and only ever touches the caller's own todos.
type Service struct {
	store Store
}

// NewService creates a Service backed by store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

func caller(ctx context.Context) (*users.User, error) {
	user, ok := auth.UserFromContext(ctx)
	if !ok {
		return nil, apperror.NewUnauthenticatedError("you must be logged in")
	}
	return user, nil
}

// List returns the caller's todos, oldest first.
func (s *Service) List(ctx context.Context) ([]Todo, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.store.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperror.NewStoreError("failed to list todos", err)
	}
	return list, nil
}

// Add creates an uncompleted todo owned by the caller.
func (s *Service) Add(ctx context.Context, input AddTodoInput) (*Todo, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	input.Title = strings.TrimSpace(input.Title)
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	todo := &Todo{
		ID:     uuid.New(),
		Title:  input.Title,
		UserID: user.ID,
	}
	if err := s.store.Create(ctx, todo); err != nil {
		return nil, apperror.NewStoreError("failed to create todo", err)
	}
	return todo, nil
}

// Delete removes one of the caller's todos. Deleting a todo that does not
// exist is NotFound; deleting someone else's is Forbidden.
func (s *Service) Delete(ctx context.Context, todoID string) error {
	user, err := caller(ctx)
	if err != nil {
		return err
	}
	id, err := uuid.Parse(todoID)
	if err != nil {
		return notFound(err)
	}

	deleted, err := s.store.Delete(ctx, id, user.ID)
	if err != nil {
		return apperror.NewStoreError("failed to delete todo", err)
	}
	if deleted {
		return nil
	}

	// Nothing matched id and owner: tell a missing todo from a foreign one.
	if _, err := s.store.GetByID(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return notFound(err)
		}
		return apperror.NewStoreError("failed to get todo", err)
	}
	return forbidden()
}

// Update applies the supplied fields to one of the caller's todos and returns
// the result.
func (s *Service) Update(ctx context.Context, input UpdateTodoInput) (*Todo, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(input.TodoID)
	if err != nil {
		return nil, notFound(err)
	}

	patch := Patch{Completed: input.Completed}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validation.Struct(AddTodoInput{Title: title}); err != nil {
			return nil, err
		}
		patch.Title = &title
	}

	existing, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFound(err)
		}
		return nil, apperror.NewStoreError("failed to get todo", err)
	}
	if existing.UserID != user.ID {
		return nil, forbidden()
	}
	if patch.Empty() {
		return existing, nil
	}

	updated, err := s.store.Update(ctx, id, user.ID, patch)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted between the lookup and the update.
			return nil, notFound(err)
		}
		return nil, apperror.NewStoreError("failed to update todo", err)
	}
	return updated, nil
}

func notFound(err error) *apperror.AppError {
	return apperror.NewNotFoundError("todo not found", err)
}

func forbidden() *apperror.AppError {
	return apperror.NewForbiddenError("todo belongs to another user")
}
