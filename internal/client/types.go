package client

import "time"

// User is the public view of an account as returned by the auth endpoints.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// Todo mirrors the server's todo representation.
type Todo struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Done        bool      `json:"done"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTodo is the body of a create request.
type NewTodo struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Done        bool    `json:"done,omitempty"`
}

// TodoUpdate is a partial update. Nil fields are left unchanged; an empty
// Description clears it.
type TodoUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Done        *bool   `json:"done,omitempty"`
}

type authResponse struct {
	User User `json:"user"`
}

type listResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Results []Todo `json:"results"`
}

type resultResponse struct {
	Status int  `json:"status"`
	Result Todo `json:"result"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
