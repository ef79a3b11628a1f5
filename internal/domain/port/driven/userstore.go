package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

// ErrUsernameTaken indicates a user with the same username already exists.
var ErrUsernameTaken = errors.New("username already taken")

// UserStore defines the driven port for credential persistence.
// Create returns ErrUsernameTaken when the username is already registered.
type UserStore interface {
	Create(ctx context.Context, user model.User) (model.User, error)

	// GetByUsername returns nil, nil if no user has that username.
	GetByUsername(ctx context.Context, username string) (*model.User, error)

	// GetByID returns nil, nil if the user does not exist.
	GetByID(ctx context.Context, id int64) (*model.User, error)
}
