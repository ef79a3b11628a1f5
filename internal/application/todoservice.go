package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
	"github.com/ericfisherdev/mytodo/internal/domain/port/driven"
)

// CreateTodoInput is the payload of a create request. The owner always comes
// from the session.
type CreateTodoInput struct {
	Title       string
	Description *string
	Done        bool
}

// UpdateTodoInput is a partial update. Nil fields are left unchanged. An empty
// Description clears the stored description.
type UpdateTodoInput struct {
	Title       *string
	Description *string
	Done        *bool
}

// TodoService implements the ownership-scoped todo CRUD contract. Every method
// returns ErrUnauthorized for a nil session without touching the store.
type TodoService struct {
	todos driven.TodoStore
}

// NewTodoService creates a TodoService backed by the given store.
func NewTodoService(todos driven.TodoStore) *TodoService {
	return &TodoService{todos: todos}
}

// List returns one page of the session user's todos in id order. page and
// limit are raw query values; empty strings select the defaults (0 and
// DefaultPageSize). A limit of 0 yields an empty page.
func (s *TodoService) List(ctx context.Context, session *model.Session, page, limit string) ([]model.Todo, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}

	fe := fieldErrors{}
	p := parseNonNegative(fe, "page", page, 0)
	l := parseNonNegative(fe, "limit", limit, DefaultPageSize)
	if l > MaxPageSize {
		fe.add("limit", fmt.Sprintf("must be at most %d", MaxPageSize))
	}
	if l > 0 && p > math.MaxInt32/l {
		fe.add("page", "is out of range")
	}
	if err := fe.err("invalid pagination"); err != nil {
		return nil, err
	}

	if l == 0 {
		return []model.Todo{}, nil
	}

	todos, err := s.todos.List(ctx, session.UserID, p*l, l)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Get returns a single todo owned by the session user.
func (s *TodoService) Get(ctx context.Context, session *model.Session, id string) (model.Todo, error) {
	if session == nil {
		return model.Todo{}, ErrUnauthorized
	}

	todoID, ok := parseID(id)
	if !ok {
		return model.Todo{}, ErrNotFound
	}

	todo, err := s.todos.Get(ctx, session.UserID, todoID)
	if err != nil {
		return model.Todo{}, fmt.Errorf("get todo: %w", err)
	}
	if todo == nil {
		return model.Todo{}, ErrNotFound
	}
	return *todo, nil
}

// Create stores a new todo owned by the session user.
func (s *TodoService) Create(ctx context.Context, session *model.Session, in CreateTodoInput) (model.Todo, error) {
	if session == nil {
		return model.Todo{}, ErrUnauthorized
	}

	title := strings.TrimSpace(in.Title)

	fe := fieldErrors{}
	validateTitle(fe, title)
	if in.Description != nil {
		validateDescription(fe, *in.Description)
	}
	if err := fe.err("invalid todo"); err != nil {
		return model.Todo{}, err
	}

	description := in.Description
	if description != nil && *description == "" {
		description = nil
	}

	todo, err := s.todos.Create(ctx, model.Todo{
		Title:       title,
		Description: description,
		Done:        in.Done,
		OwnerID:     session.UserID,
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update applies a partial update to a todo owned by the session user and
// returns the updated record. An update with no fields returns the current
// record unchanged.
func (s *TodoService) Update(ctx context.Context, session *model.Session, id string, in UpdateTodoInput) (model.Todo, error) {
	if session == nil {
		return model.Todo{}, ErrUnauthorized
	}

	todoID, ok := parseID(id)
	if !ok {
		return model.Todo{}, ErrNotFound
	}

	var title *string
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		title = &trimmed
	}

	fe := fieldErrors{}
	if title != nil {
		validateTitle(fe, *title)
	}
	if in.Description != nil {
		validateDescription(fe, *in.Description)
	}
	if err := fe.err("invalid todo"); err != nil {
		return model.Todo{}, err
	}

	patch := model.TodoPatch{Title: title, Done: in.Done}
	if in.Description != nil {
		if *in.Description == "" {
			patch.ClearDescription = true
		} else {
			patch.Description = in.Description
		}
	}

	if patch.IsEmpty() {
		return s.Get(ctx, session, id)
	}

	todo, err := s.todos.Update(ctx, session.UserID, todoID, patch)
	if errors.Is(err, driven.ErrTodoNotFound) {
		return model.Todo{}, ErrNotFound
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

// Delete removes a todo owned by the session user. Deleting an id that is
// absent, already deleted or owned by someone else returns ErrNotFound.
func (s *TodoService) Delete(ctx context.Context, session *model.Session, id string) error {
	if session == nil {
		return ErrUnauthorized
	}

	todoID, ok := parseID(id)
	if !ok {
		return ErrNotFound
	}

	err := s.todos.Delete(ctx, session.UserID, todoID)
	if errors.Is(err, driven.ErrTodoNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return nil
}
