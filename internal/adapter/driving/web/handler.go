// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ericfisherdev/mytodo/internal/adapter/driving/web/templates"
	"github.com/ericfisherdev/mytodo/internal/adapter/driving/web/templates/pages"
	"github.com/ericfisherdev/mytodo/internal/application"
)

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	todoSvc *application.TodoService
	logger  *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(todoSvc *application.TodoService, logger *slog.Logger) *Handler {
	return &Handler{
		todoSvc: todoSvc,
		logger:  logger,
	}
}

// Index renders the single-page application shell.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	layout := templates.Layout("mytodo", pages.AppShell())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render index", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// TodosPage renders a printable page of the caller's todos with their
// descriptions rendered from Markdown. Visitors without a session are sent
// back to the application.
func (h *Handler) TodosPage(w http.ResponseWriter, r *http.Request) {
	session := application.SessionFromContext(r.Context())
	if session == nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page, limit := r.URL.Query().Get("page"), r.URL.Query().Get("limit")
	todos, err := h.todoSvc.List(r.Context(), session, page, limit)
	if err != nil {
		var verr *application.ValidationError
		if errors.As(err, &verr) {
			http.Error(w, verr.Error(), http.StatusUnprocessableEntity)
			return
		}
		h.logger.Error("failed to list todos", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	layout := templates.Layout("Todos", pages.TodoList(toTodoPageViewModel(session, todos, page, limit)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "private, no-store")
	if err := layout.Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render todos page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
