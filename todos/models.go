// Package todos is the task service: per-user todo items and the ownership
// rules that bind them to their owner.
package todos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("todo not found")

// Todo is a single owned to-do item.
type Todo struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch holds the fields of a partial update. Nil fields are left unchanged.
type Patch struct {
	Title     *string
	Completed *bool
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Title == nil && p.Completed == nil
}

// Store is the persistence contract of the task service. Update and Delete
// only touch a row when both id and owner match; Update reports ErrNotFound
// otherwise and Delete reports false.
type Store interface {
	Create(ctx context.Context, todo *Todo) error
	GetByID(ctx context.Context, id uuid.UUID) (*Todo, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Todo, error)
	Update(ctx context.Context, id, userID uuid.UUID, patch Patch) (*Todo, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
}
