// Package httphandler implements the JSON API driving adapter.
package httphandler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/mytodo/internal/application"
	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

// SessionCookieName is the cookie that carries the opaque session token.
const SessionCookieName = "mytodo_session"

const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	authSvc      *application.AuthService
	todoSvc      *application.TodoService
	cookieSecure bool
	logger       *slog.Logger
}

// NewHandler creates a Handler with all required dependencies.
func NewHandler(
	authSvc *application.AuthService,
	todoSvc *application.TodoService,
	cookieSecure bool,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		authSvc:      authSvc,
		todoSvc:      todoSvc,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// RegisterAPIRoutes registers the auth, todo and health routes on mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /health", h.Health)

	mux.HandleFunc("POST /auth/register", h.Register)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/me", h.Me)

	mux.HandleFunc("GET /todo", h.ListTodos)
	mux.HandleFunc("POST /todo", h.CreateTodo)
	mux.HandleFunc("GET /todo/{id}", h.GetTodo)
	mux.HandleFunc("PUT /todo/{id}", h.UpdateTodo)
	mux.HandleFunc("DELETE /todo/{id}", h.DeleteTodo)
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware chain.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, h.authSvc, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// decodeBody decodes a JSON request body into v. Malformed bodies become a
// ValidationError so they map to 422 like any other bad input.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		verr := &application.ValidationError{Message: "invalid request body"}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			verr.Fields = map[string]string{typeErr.Field: "must be a " + typeErr.Type.String()}
		}
		return verr
	}
	return nil
}

// writeServiceError maps application errors to HTTP status codes. Anything
// unrecognised is an infrastructure fault: logged in full, reported as a bare 500.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	var verr *application.ValidationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Message, Fields: verr.Fields})
	case errors.Is(err, application.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, application.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, application.ErrInvalidCredentials.Error())
	case errors.Is(err, application.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, application.ErrUsernameTaken):
		writeError(w, http.StatusConflict, application.ErrUsernameTaken.Error())
	default:
		h.logger.Error("request failed",
			"op", op,
			"error", err,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, session *model.Session) {
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
