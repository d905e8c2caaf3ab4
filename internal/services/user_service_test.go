package services

import (
	"context"
	"testing"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(repo *MockUserRepository) *UserService {
	if repo == nil {
		repo = &MockUserRepository{}
	}
	return NewUserService(repo, discardLogger(), discardAuditLogger())
}

func TestUserService_GetUserByID_NotFound(t *testing.T) {
	svc := newUserService(nil)

	_, err := svc.GetUserByID(context.Background(), "nobody")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_UpdateProfile_PartialUpdate(t *testing.T) {
	var savedUser *models.User

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			user := NewTestUser(id, "arjuna", "arjuna@example.com")
			user.FirstName = "Arjuna"
			user.Hostel = "Gokul"
			return user, nil
		},
		UpdateProfileFunc: func(ctx context.Context, id string, user *models.User) (*models.User, error) {
			savedUser = user
			return user, nil
		},
	}

	svc := newUserService(repo)

	updated, err := svc.UpdateProfile(context.Background(), "user123", &models.User{LastName: "Prabhu"})

	require.NoError(t, err)
	assert.Equal(t, "Prabhu", updated.LastName)
	// Untouched fields survive
	require.NotNil(t, savedUser)
	assert.Equal(t, "Arjuna", savedUser.FirstName)
	assert.Equal(t, "Gokul", savedUser.Hostel)
}

func TestUserService_UpdateRole_Success(t *testing.T) {
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return NewTestUser(id, "arjuna", "arjuna@example.com"), nil
		},
	}

	svc := newUserService(repo)

	updated, err := svc.UpdateRole(context.Background(), "super123", "user123", models.RoleAdmin)

	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)
}

func TestUserService_UpdateRole_CannotGrantSuperadmin(t *testing.T) {
	svc := newUserService(nil)

	_, err := svc.UpdateRole(context.Background(), "super123", "user123", models.RoleSuperadmin)

	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestUserService_UpdateRole_CannotDemoteSuperadmin(t *testing.T) {
	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			user := NewTestUser(id, "root", "root@example.com")
			user.Role = models.RoleSuperadmin
			return user, nil
		},
	}

	svc := newUserService(repo)

	_, err := svc.UpdateRole(context.Background(), "super123", "root456", models.RoleUser)

	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUserService_DeleteUser_Success(t *testing.T) {
	deleted := false

	repo := &MockUserRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*models.User, error) {
			return NewTestUser(id, "arjuna", "arjuna@example.com"), nil
		},
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}

	svc := newUserService(repo)

	err := svc.DeleteUser(context.Background(), "user123", "user123")

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	svc := newUserService(nil)

	err := svc.DeleteUser(context.Background(), "actor", "nobody")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestUserService_ListUsers(t *testing.T) {
	repo := &MockUserRepository{
		ListFunc: func(ctx context.Context, limit, offset int) ([]*models.User, error) {
			assert.Equal(t, 20, limit)
			assert.Equal(t, 0, offset)
			return []*models.User{NewTestUser("u1", "arjuna", "arjuna@example.com")}, nil
		},
	}

	svc := newUserService(repo)

	users, err := svc.ListUsers(context.Background(), 20, 0)

	require.NoError(t, err)
	assert.Len(t, users, 1)
}
