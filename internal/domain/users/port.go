package users

import "context"

// Repository port (interface for user persistence)
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Update(ctx context.Context, u *User) error
}

// TokenStore port (interface for session tokens)
type TokenStore interface {
	Save(ctx context.Context, t *Token) error
	// Lookup resolves a token key to its user. ErrInvalidToken when the
	// key is unknown.
	Lookup(ctx context.Context, key string) (*Token, error)
	// Delete invalidates every token held by the user.
	Delete(ctx context.Context, userID int64) error
}
