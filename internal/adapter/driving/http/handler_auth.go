package httphandler

import (
	"net/http"

	"github.com/ericfisherdev/mytodo/internal/application"
)

// Register creates a user, then signs it in with a fresh session.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, r, "register", err)
		return
	}

	user, err := h.authSvc.Register(r.Context(), application.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, "register", err)
		return
	}

	session, err := h.authSvc.StartSession(r.Context(), user)
	if err != nil {
		h.writeServiceError(w, r, "register", err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusCreated, AuthResponse{User: UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}})
}

// Login verifies credentials and sets the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	session, err := h.authSvc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	h.setSessionCookie(w, session)
	writeJSON(w, http.StatusOK, AuthResponse{User: UserResponse{
		ID:       session.UserID,
		Username: session.Username,
	}})
}

// Logout invalidates the current session, if any, and clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if err := h.authSvc.Logout(r.Context(), cookie.Value); err != nil {
			h.writeServiceError(w, r, "logout", err)
			return
		}
	}

	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, StatusResponse{Status: http.StatusOK, Message: "logged out"})
}

// Me returns the user bound to the current session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.Profile(r.Context(), application.SessionFromContext(r.Context()))
	if err != nil {
		h.writeServiceError(w, r, "me", err)
		return
	}

	writeJSON(w, http.StatusOK, AuthResponse{User: UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}})
}
