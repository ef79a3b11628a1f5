package application

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors returned by AuthService and TodoService. The HTTP adapter
// maps each to a status code with errors.Is.
var (
	// ErrUnauthorized indicates the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by Login for both an unknown username
	// and a wrong password.
	ErrInvalidCredentials = errors.New("incorrect username or password")

	// ErrNotFound indicates the todo is absent or owned by someone else.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken indicates registration hit an existing username.
	ErrUsernameTaken = errors.New("username already taken")
)

// ValidationError reports malformed or missing input. Fields maps the input
// field name to a human-readable problem.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}

	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return e.Message + " (" + strings.Join(parts, ", ") + ")"
}

// fieldErrors accumulates per-field validation problems.
type fieldErrors map[string]string

func (f fieldErrors) add(field, problem string) {
	if _, exists := f[field]; !exists {
		f[field] = problem
	}
}

// err returns a *ValidationError when any field failed, or nil.
func (f fieldErrors) err(message string) error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Message: message, Fields: f}
}
