package application

import (
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Input limits.
const (
	MaxUsernameLength    = 64
	MaxPasswordLength    = 1024
	MaxTitleLength       = 255
	MaxDescriptionLength = 10000

	DefaultPageSize = 10
	MaxPageSize     = 100
)

func validateUsername(fe fieldErrors, username string) {
	switch n := utf8.RuneCountInString(username); {
	case strings.TrimSpace(username) == "":
		fe.add("username", "is required")
	case n > MaxUsernameLength:
		fe.add("username", "must be at most "+strconv.Itoa(MaxUsernameLength)+" characters")
	}
}

func validatePassword(fe fieldErrors, password string) {
	switch {
	case password == "":
		fe.add("password", "is required")
	case utf8.RuneCountInString(password) > MaxPasswordLength:
		fe.add("password", "must be at most "+strconv.Itoa(MaxPasswordLength)+" characters")
	}
}

func validateEmail(fe fieldErrors, email string) {
	if email == "" {
		fe.add("email", "is required")
		return
	}
	// Display-name forms like "Bob <bob@example.com>" are rejected.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		fe.add("email", "must be a valid email address")
	}
}

// validateTitle checks a title that has already been trimmed.
func validateTitle(fe fieldErrors, title string) {
	switch {
	case title == "":
		fe.add("title", "is required")
	case utf8.RuneCountInString(title) > MaxTitleLength:
		fe.add("title", "must be at most "+strconv.Itoa(MaxTitleLength)+" characters")
	}
}

func validateDescription(fe fieldErrors, description string) {
	if utf8.RuneCountInString(description) > MaxDescriptionLength {
		fe.add("description", "must be at most "+strconv.Itoa(MaxDescriptionLength)+" characters")
	}
}

// parseNonNegative parses a query parameter, falling back to def when raw is
// empty.
func parseNonNegative(fe fieldErrors, field, raw string, def int) int {
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fe.add(field, "must be a non-negative integer")
		return 0
	}
	return n
}

// parseID parses a todo id path segment. ok is false for anything that is not
// a base-10 integer; callers treat that exactly like an absent todo.
func parseID(raw string) (id int64, ok bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
