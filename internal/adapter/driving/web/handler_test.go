package web_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sqliteadapter "github.com/ericfisherdev/mytodo/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/mytodo/internal/adapter/driving/web"
	"github.com/ericfisherdev/mytodo/internal/application"
	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

type fixture struct {
	mux     *http.ServeMux
	todoSvc *application.TodoService
	session *model.Session
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqliteadapter.NewDB(ctx, filepath.Join(t.TempDir(), "web.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqliteadapter.RunMigrations(db.Writer))

	user, err := sqliteadapter.NewUserRepo(db).Create(ctx, model.User{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)

	todoSvc := application.NewTodoService(sqliteadapter.NewTodoRepo(db))
	mux := http.NewServeMux()
	web.RegisterRoutes(mux, web.NewHandler(todoSvc, slog.Default()))

	return fixture{
		mux:     mux,
		todoSvc: todoSvc,
		session: &model.Session{UserID: user.ID, Username: user.Username},
	}
}

func (f fixture) get(t *testing.T, path string, withSession bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if withSession {
		req = req.WithContext(application.ContextWithSession(req.Context(), f.session))
	}
	rec := httptest.NewRecorder()
	f.mux.ServeHTTP(rec, req)
	return rec
}

func (f fixture) create(t *testing.T, title string, description *string, done bool) {
	t.Helper()
	_, err := f.todoSvc.Create(context.Background(), f.session, application.CreateTodoInput{
		Title:       title,
		Description: description,
		Done:        done,
	})
	require.NoError(t, err)
}

func TestIndex_ServesShell(t *testing.T) {
	f := setup(t)

	rec := f.get(t, "/", false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(strings.ToLower(body), "<!doctype html>"))
	assert.Contains(t, body, `<main id="app"`)
	assert.Contains(t, body, `/static/app.js`)
}

func TestStaticAssets(t *testing.T) {
	f := setup(t)

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		rec := f.get(t, path, false)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.NotEmpty(t, rec.Body.String(), path)
	}

	rec := f.get(t, "/static/missing.js", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTodosPage_RedirectsWithoutSession(t *testing.T) {
	f := setup(t)

	rec := f.get(t, "/app/todos", false)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestTodosPage_RendersTodos(t *testing.T) {
	f := setup(t)
	desc := "**remember** the <script>alert(1)</script> receipt"
	f.create(t, "Buy <milk>", &desc, false)
	f.create(t, "Walk dog", nil, true)

	rec := f.get(t, "/app/todos", true)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Todos of alice")
	assert.Contains(t, body, "Buy &lt;milk&gt;")
	assert.Contains(t, body, "<strong>remember</strong>")
	assert.NotContains(t, body, "<script>alert")
	assert.Contains(t, body, `class="todo done"`)
	assert.NotContains(t, body, `rel="next"`)
	assert.NotContains(t, body, `rel="prev"`)
}

func TestTodosPage_Empty(t *testing.T) {
	f := setup(t)

	rec := f.get(t, "/app/todos", true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Nothing to do.")
}

func TestTodosPage_Pagination(t *testing.T) {
	f := setup(t)
	for _, title := range []string{"a", "b", "c", "d"} {
		f.create(t, title, nil, false)
	}

	first := f.get(t, "/app/todos?limit=2", true)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Contains(t, first.Body.String(), `href="/app/todos?page=1&amp;limit=2"`)
	assert.NotContains(t, first.Body.String(), `rel="prev"`)

	second := f.get(t, "/app/todos?page=1&limit=2", true)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Contains(t, second.Body.String(), `href="/app/todos?page=0&amp;limit=2"`)
	assert.Contains(t, second.Body.String(), "<span>Page 2</span>")
}

func TestTodosPage_InvalidQuery(t *testing.T) {
	f := setup(t)

	rec := f.get(t, "/app/todos?page=abc", true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
