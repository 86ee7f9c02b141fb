package todos

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the PostgreSQL implementation of Store.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a Repository on top of an open pool.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const todoColumns = `id, title, completed, user_id, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, todo *Todo) error {
	query := `INSERT INTO todos (id, title, completed, user_id)
              VALUES ($1, $2, $3, $4)
              RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query, todo.ID, todo.Title, todo.Completed, todo.UserID).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert todo: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	todo, err := scanTodo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}
	return todo, nil
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos
              WHERE user_id = $1
              ORDER BY created_at, id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	list := []Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		list = append(list, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}
	return list, nil
}

// Update applies patch in a single statement, so concurrent updates of the
// same row resolve as last write wins.
func (r *Repository) Update(ctx context.Context, id, userID uuid.UUID, patch Patch) (*Todo, error) {
	query := `UPDATE todos
              SET title = COALESCE($3, title),
                  completed = COALESCE($4, completed),
                  updated_at = NOW()
              WHERE id = $1 AND user_id = $2
              RETURNING ` + todoColumns
	todo, err := scanTodo(r.db.QueryRow(ctx, query, id, userID, patch.Title, patch.Completed))
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM todos WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func scanTodo(row pgx.Row) (*Todo, error) {
	var todo Todo
	err := row.Scan(&todo.ID, &todo.Title, &todo.Completed, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &todo, nil
}
