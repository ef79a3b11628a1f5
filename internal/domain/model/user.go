package model

import "time"

// User is a registered account. PasswordHash holds the encoded argon2id hash
// and must never leave the server.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
