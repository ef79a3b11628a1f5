package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
	"github.com/ericfisherdev/mytodo/internal/domain/port/driven"
)

var errStoreDown = errors.New("store unreachable")

// --- mockUserStore ---

type mockUserStore struct {
	mu      sync.Mutex
	users   []model.User
	getErr  error
	created int
	// raceOnCreate makes Create report a UNIQUE violation, simulating a
	// concurrent registration that won.
	raceOnCreate bool
}

func (m *mockUserStore) Create(_ context.Context, user model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.raceOnCreate {
		return model.User{}, driven.ErrUsernameTaken
	}
	for _, u := range m.users {
		if u.Username == user.Username {
			return model.User{}, driven.ErrUsernameTaken
		}
	}
	user.ID = int64(len(m.users) + 1)
	m.users = append(m.users, user)
	m.created++
	return user, nil
}

func (m *mockUserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, u := range m.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (m *mockUserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

// --- mockSessionStore ---

type mockSessionStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	users    *mockUserStore
}

func newMockSessionStore(users *mockUserStore) *mockSessionStore {
	return &mockSessionStore{sessions: map[string]model.Session{}, users: users}
}

func (m *mockSessionStore) Create(_ context.Context, tokenHash string, session model.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.Token = ""
	session.Username = ""
	m.sessions[tokenHash] = session
	return nil
}

func (m *mockSessionStore) Get(ctx context.Context, tokenHash string) (*model.Session, error) {
	m.mu.Lock()
	session, ok := m.sessions[tokenHash]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	user, _ := m.users.GetByID(ctx, session.UserID)
	if user != nil {
		session.Username = user.Username
	}
	return &session, nil
}

func (m *mockSessionStore) Delete(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *mockSessionStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for hash, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			delete(m.sessions, hash)
			n++
		}
	}
	return n, nil
}

// --- mockHasher ---

// mockHasher is a reversible stand-in for argon2id that counts verifications.
type mockHasher struct {
	mu       sync.Mutex
	verifies int
	hashErr  error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashErr != nil {
		return "", m.hashErr
	}
	return "hashed:" + password, nil
}

func (m *mockHasher) Verify(encoded, password string) (bool, error) {
	m.mu.Lock()
	m.verifies++
	m.mu.Unlock()
	if !strings.HasPrefix(encoded, "hashed:") {
		return false, errors.New("malformed")
	}
	return encoded == "hashed:"+password, nil
}

// --- mockTodoStore ---

type mockTodoStore struct {
	mu     sync.Mutex
	todos  map[int64]model.Todo
	nextID int64
	calls  int
	err    error
}

func newMockTodoStore() *mockTodoStore {
	return &mockTodoStore{todos: map[int64]model.Todo{}}
}

func (m *mockTodoStore) List(_ context.Context, ownerID int64, offset, limit int) ([]model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	owned := []model.Todo{}
	for _, t := range m.todos {
		if t.OwnerID == ownerID {
			owned = append(owned, t)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	if offset >= len(owned) {
		return []model.Todo{}, nil
	}
	end := min(offset+limit, len(owned))
	return owned[offset:end], nil
}

func (m *mockTodoStore) Get(_ context.Context, ownerID, id int64) (*model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.todos[id]
	if !ok || t.OwnerID != ownerID {
		return nil, nil
	}
	return &t, nil
}

func (m *mockTodoStore) Create(_ context.Context, todo model.Todo) (model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return model.Todo{}, m.err
	}
	m.nextID++
	todo.ID = m.nextID
	m.todos[todo.ID] = todo
	return todo, nil
}

func (m *mockTodoStore) Update(_ context.Context, ownerID, id int64, patch model.TodoPatch) (model.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return model.Todo{}, m.err
	}
	t, ok := m.todos[id]
	if !ok || t.OwnerID != ownerID {
		return model.Todo{}, driven.ErrTodoNotFound
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.ClearDescription {
		t.Description = nil
	} else if patch.Description != nil {
		d := *patch.Description
		t.Description = &d
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	m.todos[id] = t
	return t, nil
}

func (m *mockTodoStore) Delete(_ context.Context, ownerID, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return m.err
	}
	t, ok := m.todos[id]
	if !ok || t.OwnerID != ownerID {
		return driven.ErrTodoNotFound
	}
	delete(m.todos, id)
	return nil
}
