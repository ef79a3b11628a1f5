package httphandler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/ericfisherdev/mytodo/internal/application"
	"github.com/ericfisherdev/mytodo/internal/domain/model"
)

const (
	// RequestIDHeader carries the per-request correlation ID.
	RequestIDHeader = "X-Request-ID"

	maxRequestIDLength = 128
)

// SessionResolver resolves a session cookie value to the authenticated session.
type SessionResolver interface {
	CurrentUser(ctx context.Context, token string) (*model.Session, error)
}

// ApplyMiddleware wraps next with the standard middleware chain, outermost
// first: request ID, logging, recovery, CSRF, session.
func ApplyMiddleware(next http.Handler, auth SessionResolver, logger *slog.Logger) http.Handler {
	wrapped := sessionMiddleware(auth, logger, next)
	wrapped = csrfMiddleware(wrapped)
	// Recovery inside logging so panics are logged with their 500 status.
	wrapped = recoveryMiddleware(logger, wrapped)
	wrapped = loggingMiddleware(logger, wrapped)
	wrapped = requestIDMiddleware(wrapped)
	return wrapped
}

// statusWriter wraps http.ResponseWriter to capture the response status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the embedded writer.
func (sw *statusWriter) WriteHeader(status int) {
	sw.status = status
	sw.ResponseWriter.WriteHeader(status)
}

type requestIDKey struct{}

// RequestIDFromContext returns the request ID assigned by the middleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// requestIDMiddleware keeps a sane incoming X-Request-ID or assigns a UUID.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs each HTTP request with method, path, status, and duration.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration", time.Since(start).Round(time.Microsecond),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// recoveryMiddleware recovers from panics in HTTP handlers, logs the error,
// and returns a 500 response.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				logger.Error("panic recovered",
					"panic", v,
					"path", r.URL.Path,
					"request_id", RequestIDFromContext(r.Context()),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// csrfMiddleware issues the CSRF cookie when missing and rejects state-changing
// requests whose X-CSRF-Token header does not match it.
func csrfMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ensureCSRFCookie(w, r)

		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
			if !validateCSRF(r) {
				writeError(w, http.StatusForbidden, "invalid csrf token")
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// sessionMiddleware attaches the session named by the session cookie to the
// request context. Requests without a valid session pass through with no
// session; the services decide whether that is acceptable.
func sessionMiddleware(auth SessionResolver, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		session, err := auth.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			logger.Error("failed to resolve session",
				"error", err,
				"request_id", RequestIDFromContext(r.Context()),
			)
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		}
		if session == nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(application.ContextWithSession(r.Context(), session)))
	})
}
