package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

// ErrTodoNotFound indicates the todo does not exist or belongs to another user.
// Implementations must not distinguish the two cases.
var ErrTodoNotFound = errors.New("todo not found")

// TodoStore defines the driven port for todo persistence. Every read and write
// except Create is scoped by ownerID.
type TodoStore interface {
	// List returns up to limit todos owned by ownerID, skipping offset rows,
	// ordered by id ascending.
	List(ctx context.Context, ownerID int64, offset, limit int) ([]model.Todo, error)

	// Get returns nil, nil if the todo is absent or not owned by ownerID.
	Get(ctx context.Context, ownerID, id int64) (*model.Todo, error)

	// Create inserts the todo and returns it with ID and timestamps populated.
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)

	// Update applies the patch and returns the post-update record.
	// Returns ErrTodoNotFound if the todo is absent or not owned by ownerID.
	Update(ctx context.Context, ownerID, id int64, patch model.TodoPatch) (model.Todo, error)

	// Delete returns ErrTodoNotFound if the todo is absent or not owned by ownerID.
	Delete(ctx context.Context, ownerID, id int64) error
}
