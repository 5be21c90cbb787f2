package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/dkrysak/chemviz/internal/domain/users"
)

type TokenRepository struct {
	db *sql.DB
}

func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) Save(ctx context.Context, t *domain.Token) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auth_tokens (token, user_id, created_at) VALUES (?, ?, ?);`,
		t.Key, t.UserID, t.CreatedAt,
	)
	return err
}

func (r *TokenRepository) Lookup(ctx context.Context, key string) (*domain.Token, error) {
	var t domain.Token
	err := r.db.QueryRowContext(ctx,
		`SELECT token, user_id, created_at FROM auth_tokens WHERE token = ? LIMIT 1;`,
		key,
	).Scan(&t.Key, &t.UserID, &t.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TokenRepository) Delete(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM auth_tokens WHERE user_id = ?;`, userID)
	return err
}
