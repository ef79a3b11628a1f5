package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
	"github.com/ericfisherdev/mytodo/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TodoStore = (*TodoRepo)(nil)

// TodoRepo is the SQLite implementation of the TodoStore port interface.
// Every statement after Create filters on user_id, so a todo owned by another
// user is indistinguishable from one that does not exist.
type TodoRepo struct {
	db  *DB
	now func() time.Time
}

// NewTodoRepo creates a new TodoRepo backed by the given DB.
func NewTodoRepo(db *DB) *TodoRepo {
	return &TodoRepo{db: db, now: time.Now}
}

const todoColumns = `id, title, description, done, user_id, created_at, updated_at`

// List returns a window of the owner's todos ordered by id.
func (r *TodoRepo) List(ctx context.Context, ownerID int64, offset, limit int) ([]model.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE user_id = ? ORDER BY id LIMIT ? OFFSET ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list todos for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		todos = append(todos, *todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate todos: %w", err)
	}

	return todos, nil
}

// Get retrieves a single todo owned by ownerID. Returns nil, nil if absent.
func (r *TodoRepo) Get(ctx context.Context, ownerID, id int64) (*model.Todo, error) {
	const query = `SELECT ` + todoColumns + ` FROM todos WHERE id = ? AND user_id = ?`

	todo, err := scanTodo(r.db.Reader.QueryRowContext(ctx, query, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get todo %d: %w", id, err)
	}

	return todo, nil
}

// Create inserts a todo and returns the stored record.
func (r *TodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	const query = `INSERT INTO todos (title, description, done, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?) RETURNING ` + todoColumns

	now := formatTime(r.now())
	created, err := scanTodo(r.db.Writer.QueryRowContext(ctx, query,
		todo.Title, nullString(todo.Description), todo.Done, todo.OwnerID, now, now))
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo for user %d: %w", todo.OwnerID, err)
	}

	return *created, nil
}

// Update applies patch in a single statement and returns the updated row.
func (r *TodoRepo) Update(ctx context.Context, ownerID, id int64, patch model.TodoPatch) (model.Todo, error) {
	sets := []string{"updated_at = ?"}
	args := []any{formatTime(r.now())}

	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	switch {
	case patch.ClearDescription:
		sets = append(sets, "description = NULL")
	case patch.Description != nil:
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Done != nil {
		sets = append(sets, "done = ?")
		args = append(args, *patch.Done)
	}
	args = append(args, id, ownerID)

	query := `UPDATE todos SET ` + strings.Join(sets, ", ") +
		` WHERE id = ? AND user_id = ? RETURNING ` + todoColumns

	updated, err := scanTodo(r.db.Writer.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Todo{}, fmt.Errorf("update todo %d: %w", id, driven.ErrTodoNotFound)
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("update todo %d: %w", id, err)
	}

	return *updated, nil
}

// Delete removes a todo owned by ownerID.
func (r *TodoRepo) Delete(ctx context.Context, ownerID, id int64) error {
	const query = `DELETE FROM todos WHERE id = ? AND user_id = ?`

	result, err := r.db.Writer.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete todo %d: %w", id, driven.ErrTodoNotFound)
	}

	return nil
}

func scanTodo(s scanner) (*model.Todo, error) {
	var todo model.Todo
	var description sql.NullString
	var createdAt, updatedAt string

	err := s.Scan(&todo.ID, &todo.Title, &description, &todo.Done, &todo.OwnerID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		todo.Description = &description.String
	}

	todo.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	todo.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}

	return &todo, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
