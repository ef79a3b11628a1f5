package driven

import (
	"context"
	"time"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

// SessionStore defines the driven port for server-side session records.
// Sessions are keyed by a hash of the token so stored rows cannot be replayed
// as cookies.
type SessionStore interface {
	Create(ctx context.Context, tokenHash string, session model.Session) error

	// Get returns the session joined with its user, or nil, nil when no
	// session matches. Expiry is checked by the caller.
	Get(ctx context.Context, tokenHash string) (*model.Session, error)

	// Delete removes the session. Deleting an unknown hash is not an error.
	Delete(ctx context.Context, tokenHash string) error

	// DeleteExpired removes every session whose expiry is at or before now and
	// returns the number removed.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
