package httphandler

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
)

const (
	// CSRFCookieName is the double-submit cookie read by the frontend and client.
	CSRFCookieName = "csrf_token"
	// CSRFHeader must echo the CSRF cookie on state-changing requests.
	CSRFHeader = "X-CSRF-Token"

	csrfTokenBytes = 32
)

// ensureCSRFCookie sets a CSRF token cookie if the request has none. The
// cookie is readable by JavaScript so the SPA can copy it into CSRFHeader.
func ensureCSRFCookie(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(CSRFCookieName); err == nil && cookie.Value != "" {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    generateToken(),
		Path:     "/",
		HttpOnly: false,
		SameSite: http.SameSiteStrictMode,
	})
}

// validateCSRF checks that the CSRF header matches the cookie. Both must be non-empty.
func validateCSRF(r *http.Request) bool {
	cookie, err := r.Cookie(CSRFCookieName)
	if err != nil || cookie.Value == "" {
		return false
	}

	token := r.Header.Get(CSRFHeader)
	return token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(cookie.Value)) == 1
}

func generateToken() string {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		panic("csrf: failed to generate random token: " + err.Error())
	}
	return hex.EncodeToString(b)
}
