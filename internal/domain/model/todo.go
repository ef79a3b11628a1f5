package model

import "time"

// Todo is a single item on a user's list. OwnerID references User.ID and is
// always taken from the authenticated session, never from client input.
type Todo struct {
	ID          int64
	Title       string
	Description *string
	Done        bool
	OwnerID     int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TodoPatch carries the fields of a partial update. A nil field is left
// unchanged. ClearDescription sets the description to NULL and takes
// precedence over Description.
type TodoPatch struct {
	Title            *string
	Description      *string
	ClearDescription bool
	Done             *bool
}

// IsEmpty reports whether the patch changes nothing.
func (p TodoPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && !p.ClearDescription && p.Done == nil
}
