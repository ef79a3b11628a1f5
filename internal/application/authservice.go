package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ericfisherdev/mytodo/internal/domain/model"
	"github.com/ericfisherdev/mytodo/internal/domain/port/driven"
)

const sessionTokenBytes = 32

// RegisterInput is the payload of a registration request.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthService is the session authenticator. It owns registration, credential
// verification and the session lifecycle. One instance is built at startup
// and shared by every request handler.
type AuthService struct {
	users    driven.UserStore
	sessions driven.SessionStore
	hasher   driven.PasswordHasher
	ttl      time.Duration
	now      func() time.Time

	// dummyHash is verified against when the username is unknown so that both
	// login failure paths perform the same hashing work.
	dummyHash string
}

// NewAuthService creates an AuthService. ttl is the lifetime of new sessions.
func NewAuthService(
	users driven.UserStore,
	sessions driven.SessionStore,
	hasher driven.PasswordHasher,
	ttl time.Duration,
) (*AuthService, error) {
	dummy, err := hasher.Hash("mytodo-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &AuthService{
		users:     users,
		sessions:  sessions,
		hasher:    hasher,
		ttl:       ttl,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Register validates the input and creates a new user. It does not start a
// session; callers that want the user signed in call StartSession next.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	fe := fieldErrors{}
	validateUsername(fe, in.Username)
	validateEmail(fe, in.Email)
	validatePassword(fe, in.Password)
	if err := fe.err("invalid registration"); err != nil {
		return model.User{}, err
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return model.User{}, fmt.Errorf("check username: %w", err)
	}
	if existing != nil {
		return model.User{}, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, driven.ErrUsernameTaken) {
		// Lost a race with a concurrent registration.
		return model.User{}, ErrUsernameTaken
	}
	if err != nil {
		return model.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and starts a session. Unknown usernames and wrong
// passwords both return ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*model.Session, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user == nil {
		_, _ = s.hasher.Verify(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		// A corrupt stored hash is an infrastructure fault, but the caller still
		// only learns that the credentials were rejected.
		slog.Error("password verify failed", "user_id", user.ID, "error", err)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	return s.StartSession(ctx, *user)
}

// StartSession issues a new session for user. The returned Session carries the
// plaintext token; only its hash is stored.
func (s *AuthService) StartSession(ctx context.Context, user model.User) (*model.Session, error) {
	token, err := newSessionToken()
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	session := model.Session{
		Token:     token,
		UserID:    user.ID,
		Username:  user.Username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := s.sessions.Create(ctx, hashToken(token), session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	return &session, nil
}

// CurrentUser resolves a session token. It returns nil, nil for an empty,
// unknown or expired token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.Get(ctx, hashToken(token))
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if session == nil || session.Expired(s.now()) {
		return nil, nil
	}

	return session, nil
}

// Profile returns the full user record behind session, including the email
// that sessions do not carry. A session whose user no longer exists is
// treated as unauthenticated.
func (s *AuthService) Profile(ctx context.Context, session *model.Session) (model.User, error) {
	if session == nil {
		return model.User{}, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return model.User{}, fmt.Errorf("load user %d: %w", session.UserID, err)
	}
	if user == nil {
		return model.User{}, ErrUnauthorized
	}
	return *user, nil
}

// Logout invalidates the session. Logging out an unknown token is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, hashToken(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func newSessionToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
