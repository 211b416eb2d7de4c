package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/store"
	"github.com/openhire/jobboard/pkg/cryptox"
	"github.com/openhire/jobboard/pkg/idx"
	"github.com/openhire/jobboard/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidInput       = errors.New("invalid_input")
)

type AuthService struct {
	Store store.Store
}

// Login verifies an email/password pair and returns the matching user.
// The unknown-account and wrong-password paths both return
// ErrInvalidCredentials and cost one bcrypt comparison each, so the
// response does not reveal which part was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		cryptox.VerifyDummy(password)
		return domain.User{}, ErrInvalidCredentials
	}

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			cryptox.VerifyDummy(password)
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			l.Info("login rejected", slog.String("email", email))
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}

	return user, nil
}

// RegisterParams carries the fields accepted at signup. Role defaults to
// candidate when empty; Disability is optional.
type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	Role       string
	Disability string
}

// Register creates a new user account. Returns ErrEmailTaken when the
// email is already registered and ErrInvalidInput for missing or malformed
// fields.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (domain.User, error) {
	l := slogx.FromContext(ctx)

	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Name == "" || p.Email == "" || len(p.Password) < 6 {
		return domain.User{}, ErrInvalidInput
	}
	if !strings.Contains(p.Email, "@") {
		return domain.User{}, ErrInvalidInput
	}

	if p.Role == "" {
		p.Role = domain.RoleCandidate
	}
	if !domain.ValidRole(p.Role) {
		return domain.User{}, ErrInvalidInput
	}

	hash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         p.Role,
		Disability:   strings.TrimSpace(p.Disability),
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	l.Info("user registered",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role),
	)
	return user, nil
}
