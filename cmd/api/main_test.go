package main

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkgauth "github.com/rdua-dev/sadhana-tracker/pkg/auth"
)

type mockAdminStore struct {
	GetByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	CreateFunc     func(ctx context.Context, user *models.User) (*models.User, error)
}

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *mockAdminStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return user, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestEnsureAdminUser_LowercasesIdentifiers(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "Admin@Example.COM")
	t.Setenv("ADMIN_PASSWORD", "Sup3r$ecret!")
	t.Setenv("ADMIN_USERNAME", "TempleAdmin")

	var lookedUp string
	var created *models.User
	store := &mockAdminStore{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			lookedUp = email
			return nil, models.ErrNotFound
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = user
			return user, nil
		},
	}

	if err := ensureAdminUser(context.Background(), store, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if lookedUp != "admin@example.com" {
		t.Errorf("expected lowercased lookup, got %q", lookedUp)
	}
	if created == nil {
		t.Fatal("expected admin user to be created")
	}
	if created.Email != "admin@example.com" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.Username != "templeadmin" {
		t.Errorf("expected lowercased username, got %q", created.Username)
	}
	if created.Role != models.RoleSuperadmin {
		t.Errorf("expected superadmin role, got %q", created.Role)
	}
	if !created.IsVerified {
		t.Error("expected bootstrap admin to be verified")
	}
	if err := pkgauth.ComparePassword(created.PasswordHash, "Sup3r$ecret!"); err != nil {
		t.Error("expected stored hash to match the configured password")
	}
}

func TestEnsureAdminUser_SkipsWhenUnconfigured(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "")
	t.Setenv("ADMIN_PASSWORD", "")

	created := false
	store := &mockAdminStore{
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = true
			return user, nil
		},
	}

	if err := ensureAdminUser(context.Background(), store, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected no user creation without ADMIN_* env")
	}
}

func TestEnsureAdminUser_ExistingAdminLeftAlone(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "Sup3r$ecret!")

	created := false
	store := &mockAdminStore{
		GetByEmailFunc: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{ID: "admin_1", Email: email, Role: models.RoleSuperadmin}, nil
		},
		CreateFunc: func(ctx context.Context, user *models.User) (*models.User, error) {
			created = true
			return user, nil
		},
	}

	if err := ensureAdminUser(context.Background(), store, testLogger()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected existing admin not to be recreated")
	}
}
