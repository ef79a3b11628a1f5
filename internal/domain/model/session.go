package model

import "time"

// Session binds an authenticated request to a user. Token is the plaintext
// cookie value and is only populated when the session is first issued;
// sessions loaded from storage carry an empty Token.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
