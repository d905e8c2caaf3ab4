package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error)
	GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error)
	List(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateRole(ctx context.Context, id, role string) (*models.User, error)
	UpdatePasswordAndClearReset(ctx context.Context, id, passwordHash string) error
	SetVerificationToken(ctx context.Context, id, token string) error
	SetVerified(ctx context.Context, id string) error
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	ClearResetToken(ctx context.Context, id string) error
	ClearExpiredResetTokens(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

// UserService handles user account business logic
type UserService struct {
	repo        UserRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewUserService creates a new UserService
func NewUserService(repo UserRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *UserService {
	return &UserService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("user not found", slog.String("user_id", id))
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return user, nil
}

// ListUsers retrieves a list of users with pagination
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	users, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("failed to list users", slog.Int("limit", limit), slog.Int("offset", offset), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return users, nil
}

// UpdateProfile updates the user's own profile fields. Only non-empty
// fields overwrite the stored values.
func (s *UserService) UpdateProfile(ctx context.Context, id string, updates *models.User) (*models.User, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if updates.FirstName != "" {
		existing.FirstName = updates.FirstName
	}
	if updates.LastName != "" {
		existing.LastName = updates.LastName
	}
	if updates.Hostel != "" {
		existing.Hostel = updates.Hostel
	}

	updated, err := s.repo.UpdateProfile(ctx, id, existing)
	if err != nil {
		s.logger.Error("failed to update user", slog.String("user_id", id), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user updated", slog.String("user_id", id))
	return updated, nil
}

// UpdateRole sets a user's role. Only "user" and "admin" can be granted;
// superadmin is assigned out of band at bootstrap.
func (s *UserService) UpdateRole(ctx context.Context, actorID, targetID, role string) (*models.User, error) {
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, models.ErrBadRequest
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", targetID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if target.Role == models.RoleSuperadmin {
		return nil, models.ErrForbidden
	}

	updated, err := s.repo.UpdateRole(ctx, targetID, role)
	if err != nil {
		s.logger.Error("failed to update role", slog.String("user_id", targetID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("role updated",
		slog.String("user_id", targetID),
		slog.String("role", role))
	s.auditLogger.LogAccountAction("role_updated", actorID, targetID, map[string]string{"role": role})

	return updated, nil
}

// DeleteUser removes the account. Practice logs, goals and leaderboard
// entries go with it through the cascading foreign keys.
func (s *UserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", slog.String("user_id", id), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user deleted", slog.String("user_id", id))
	s.auditLogger.LogAccountAction("user_deleted", actorID, id, nil)

	return nil
}
