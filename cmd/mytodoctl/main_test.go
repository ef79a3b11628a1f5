package main

import (
	"bytes"
	"context"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/mytodo/internal/adapter/driven/argon2id"
	sqliteadapter "github.com/ericfisherdev/mytodo/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/mytodo/internal/adapter/driving/http"
	"github.com/ericfisherdev/mytodo/internal/application"
)

func startServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx := context.Background()

	db, err := sqliteadapter.NewDB(ctx, filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqliteadapter.RunMigrations(db.Writer))

	hasher := argon2id.NewHasherWithParams([]byte("test-secret"), argon2id.Params{
		Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32,
	})
	authSvc, err := application.NewAuthService(
		sqliteadapter.NewUserRepo(db),
		sqliteadapter.NewSessionRepo(db),
		hasher,
		time.Hour,
	)
	require.NoError(t, err)
	todoSvc := application.NewTodoService(sqliteadapter.NewTodoRepo(db))

	h := httphandler.NewHandler(authSvc, todoSvc, false, slog.Default())
	srv := httptest.NewServer(httphandler.NewServeMux(h, slog.Default()))
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t           *testing.T
	url         string
	sessionFile string
}

func (h harness) run(stdin string, args ...string) (int, string, string) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-url", h.url, "-session", h.sessionFile}, args...)
	code := run(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func newHarness(t *testing.T) harness {
	srv := startServer(t)
	return harness{t: t, url: srv.URL, sessionFile: filepath.Join(t.TempDir(), "session")}
}

func TestRun_Workflow(t *testing.T) {
	h := newHarness(t)

	code, out, errOut := h.run("hunter2\n", "register", "alice", "alice@example.com")
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "signed in as alice")

	info, err := os.Stat(h.sessionFile)
	require.NoError(t, err, "session token is persisted")
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	code, out, errOut = h.run("", "add", "-d", "**soon**", "Buy", "milk")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "created #1\n", out)

	code, out, _ = h.run("", "done", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, "[x] #1 Buy milk\n", out)

	code, out, _ = h.run("", "list")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "[x]")

	code, out, _ = h.run("", "edit", "-d", "", "1")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "soon")

	code, out, _ = h.run("", "me")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "alice")

	code, out, _ = h.run("", "rm", "1")
	require.Equal(t, 0, code)
	assert.Equal(t, "deleted #1\n", out)

	code, _, errOut = h.run("", "get", "1")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "404")

	code, _, _ = h.run("", "logout")
	require.Equal(t, 0, code)
	_, err = os.Stat(h.sessionFile)
	assert.True(t, os.IsNotExist(err), "logout removes the session file")

	code, _, errOut = h.run("", "list")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "not signed in")
}

func TestRun_Login(t *testing.T) {
	h := newHarness(t)
	code, _, _ := h.run("pw\n", "register", "alice", "alice@example.com")
	require.Equal(t, 0, code)
	code, _, _ = h.run("", "logout")
	require.Equal(t, 0, code)

	code, _, errOut := h.run("wrong\n", "login", "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "incorrect username or password")

	code, out, _ := h.run("pw\n", "login", "alice")
	require.Equal(t, 0, code)
	assert.Equal(t, "signed in as alice\n", out)
}

func TestRun_UsageErrors(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: nil},
		{name: "unknown command", args: []string{"frobnicate"}},
		{name: "get without id", args: []string{"get"}},
		{name: "bad id", args: []string{"rm", "abc"}},
		{name: "add without title", args: []string{"add"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := h.run("", tt.args...)
			assert.Equal(t, 2, code)
			assert.Contains(t, errOut, "usage:")
		})
	}
}
