package service_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openhire/jobboard/internal/domain"
	"github.com/openhire/jobboard/internal/service"
	"github.com/openhire/jobboard/internal/store"
	"github.com/openhire/jobboard/internal/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*service.AuthService, store.Store) {
	t.Helper()

	dsn := "file:" + filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.NewStore(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	require.NoError(t, s.ApplyMigrations())

	return &service.AuthService{Store: s}, s
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterParams{
		Name:     "Alice Example",
		Email:    "Alice@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "alice@example.com", user.Email, "emails are normalized")
	require.Equal(t, domain.RoleCandidate, user.Role, "role defaults to candidate")
	require.NotEqual(t, "correct horse", user.PasswordHash)

	got, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, service.RegisterParams{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, "alice@example.com", "wrong horse")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginUnknownAccount(t *testing.T) {
	svc, _ := newAuthService(t)

	// Same sentinel as a wrong password so the caller can't distinguish.
	_, err := svc.Login(context.Background(), "nobody@example.com", "whatever")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLoginEmptyFields(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.Login(ctx, "", "pw")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.Login(ctx, "alice@example.com", "")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	params := service.RegisterParams{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "correct horse",
	}
	_, err := svc.Register(ctx, params)
	require.NoError(t, err)

	params.Name = "Impostor"
	_, err = svc.Register(ctx, params)
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	cases := map[string]service.RegisterParams{
		"missing name":   {Email: "a@example.com", Password: "secret1"},
		"missing email":  {Name: "A", Password: "secret1"},
		"short password": {Name: "A", Email: "a@example.com", Password: "pw"},
		"bad email":      {Name: "A", Email: "not-an-email", Password: "secret1"},
		"unknown role":   {Name: "A", Email: "a@example.com", Password: "secret1", Role: "superuser"},
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Register(ctx, p)
			require.ErrorIs(t, err, service.ErrInvalidInput)
		})
	}
}

func TestRegisterExplicitRoleAndDisability(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, service.RegisterParams{
		Name:       "Bob Builder",
		Email:      "bob@example.com",
		Password:   "secret1",
		Role:       domain.RoleCompany,
		Disability: "  hearing impairment ",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCompany, user.Role)
	require.Equal(t, "hearing impairment", user.Disability)
}
