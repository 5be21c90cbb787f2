package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	domain "github.com/dkrysak/chemviz/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (username, first_name, last_name, email, password_hash, role, company)
		 VALUES (?, ?, ?, ?, ?, ?, ?);`,
		u.Username, u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Company,
	)
	if err != nil {
		// Unique violation on username surfaces as a duplicate error from
		// both drivers; anything mentioning the constraint maps to exists.
		if strings.Contains(strings.ToLower(err.Error()), "unique") ||
			strings.Contains(strings.ToLower(err.Error()), "duplicate") {
			return domain.ErrUserExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.get(ctx, `WHERE username = ?`, username)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.get(ctx, `WHERE id = ?`, id)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	q := `SELECT id, username, first_name, last_name, email, password_hash, role, company
FROM users ` + where + ` LIMIT 1;`
	var u domain.User
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Username, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Role, &u.Company,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET first_name = ?, last_name = ?, email = ?, password_hash = ?, role = ?, company = ?
		 WHERE id = ?;`,
		u.FirstName, u.LastName, u.Email, u.PasswordHash, u.Role, u.Company, u.ID,
	)
	return err
}
