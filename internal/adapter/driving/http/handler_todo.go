package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/mytodo/internal/application"
)

// ListTodos returns one page of the caller's todos.
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	todos, err := h.todoSvc.List(r.Context(), application.SessionFromContext(r.Context()), q.Get("page"), q.Get("limit"))
	if err != nil {
		h.writeServiceError(w, r, "list todos", err)
		return
	}

	writeJSONCached(w, r, TodoListResponse{
		Status:  http.StatusOK,
		Message: "OK",
		Results: toTodoResponses(todos),
	})
}

// GetTodo returns a single todo owned by the caller.
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	todo, err := h.todoSvc.Get(r.Context(), application.SessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, "get todo", err)
		return
	}

	writeJSONCached(w, r, TodoResultResponse{
		Status: http.StatusOK,
		Result: toTodoResponse(todo),
	})
}

// CreateTodo creates a todo owned by the caller.
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	session := application.SessionFromContext(r.Context())
	if session == nil {
		h.writeServiceError(w, r, "create todo", application.ErrUnauthorized)
		return
	}

	var req CreateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, r, "create todo", err)
		return
	}

	todo, err := h.todoSvc.Create(r.Context(), session, application.CreateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		h.writeServiceError(w, r, "create todo", err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoResponse(todo))
}

// UpdateTodo applies a partial update to a todo owned by the caller.
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	session := application.SessionFromContext(r.Context())
	if session == nil {
		h.writeServiceError(w, r, "update todo", application.ErrUnauthorized)
		return
	}

	var req UpdateTodoRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, r, "update todo", err)
		return
	}

	todo, err := h.todoSvc.Update(r.Context(), session, r.PathValue("id"), application.UpdateTodoInput{
		Title:       req.Title,
		Description: req.Description,
		Done:        req.Done,
	})
	if err != nil {
		h.writeServiceError(w, r, "update todo", err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

// DeleteTodo removes a todo owned by the caller.
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	err := h.todoSvc.Delete(r.Context(), application.SessionFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		h.writeServiceError(w, r, "delete todo", err)
		return
	}

	writeJSON(w, http.StatusOK, StatusResponse{Status: http.StatusOK, Message: "deleted"})
}
