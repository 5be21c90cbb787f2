package users

import "time"

// User aggregate: profile plus credentials. The password is stored only as
// a bcrypt hash.
type User struct {
	ID           int64  `json:"-"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Company      string `json:"company"`
}

// Token is an opaque bearer credential bound 1:1 to a user. Created at
// login, deleted at logout; holds no claims of its own.
type Token struct {
	Key       string
	UserID    int64
	CreatedAt time.Time
}
