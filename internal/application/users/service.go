package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/dkrysak/chemviz/internal/application"
	domain "github.com/dkrysak/chemviz/internal/domain/users"
)

// Service implements signup, session and profile use-cases.
type Service struct {
	Users  domain.Repository
	Tokens domain.TokenStore
	Clock  application.Clock
	Log    *zap.SugaredLogger
}

// FieldErrors collects per-field validation messages for signup. Maps to a
// 400 body of {field: [messages]}.
type FieldErrors map[string][]string

func (fe FieldErrors) Error() string {
	var parts []string
	for f, msgs := range fe {
		parts = append(parts, f+": "+strings.Join(msgs, "; "))
	}
	return strings.Join(parts, ", ")
}

type SignupCommand struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	Company   string `json:"company"`
}

// Signup validates the command and creates the user with a bcrypt-hashed
// password. Validation problems come back as FieldErrors.
func (s *Service) Signup(ctx context.Context, cmd SignupCommand) error {
	fe := FieldErrors{}
	if strings.TrimSpace(cmd.Username) == "" {
		fe["username"] = append(fe["username"], "this field is required")
	}
	if cmd.Password == "" {
		fe["password"] = append(fe["password"], "this field is required")
	}
	if strings.TrimSpace(cmd.Email) == "" {
		fe["email"] = append(fe["email"], "this field is required")
	} else if !strings.Contains(cmd.Email, "@") {
		fe["email"] = append(fe["email"], "enter a valid email address")
	}
	if len(fe) > 0 {
		return fe
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u := &domain.User{
		Username:     strings.TrimSpace(cmd.Username),
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Email:        strings.TrimSpace(cmd.Email),
		PasswordHash: string(hash),
		Role:         cmd.Role,
		Company:      cmd.Company,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if err == domain.ErrUserExists {
			return FieldErrors{"username": {"a user with that username already exists"}}
		}
		return err
	}
	s.Log.Infow("user created", "username", u.Username)
	return nil
}

// Login authenticates the credentials and issues a fresh opaque token.
func (s *Service) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	u, err := s.Users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	key, err := newTokenKey()
	if err != nil {
		return "", nil, err
	}
	t := &domain.Token{Key: key, UserID: u.ID, CreatedAt: s.Clock.Now().UTC()}
	if err := s.Tokens.Save(ctx, t); err != nil {
		return "", nil, fmt.Errorf("saving token: %w", err)
	}
	return key, u, nil
}

// Logout invalidates every token the user holds.
func (s *Service) Logout(ctx context.Context, userID int64) error {
	return s.Tokens.Delete(ctx, userID)
}

// Authenticate resolves an opaque token to its user.
func (s *Service) Authenticate(ctx context.Context, key string) (*domain.User, error) {
	t, err := s.Tokens.Lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.Users.GetByID(ctx, t.UserID)
}

// UpdateCommand carries PATCH semantics: nil leaves a field untouched.
type UpdateCommand struct {
	CurrentPassword string
	FirstName       *string
	LastName        *string
	Email           *string
	Role            *string
	Company         *string
	NewPassword     *string
}

// UpdateProfile applies the changes after re-checking the current password.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, cmd UpdateCommand) (*domain.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(cmd.CurrentPassword)); err != nil {
		return nil, domain.ErrWrongPassword
	}

	if cmd.FirstName != nil {
		u.FirstName = *cmd.FirstName
	}
	if cmd.LastName != nil {
		u.LastName = *cmd.LastName
	}
	if cmd.Email != nil {
		u.Email = strings.TrimSpace(*cmd.Email)
	}
	if cmd.Role != nil {
		u.Role = *cmd.Role
	}
	if cmd.Company != nil {
		u.Company = *cmd.Company
	}
	if cmd.NewPassword != nil && *cmd.NewPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*cmd.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}

	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.Log.Infow("profile updated", "user", u.Username)
	return u, nil
}

// newTokenKey returns a 40-hex opaque credential.
func newTokenKey() (string, error) {
	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}
