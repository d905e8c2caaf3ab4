package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkgauth "github.com/rdua-dev/sadhana-tracker/pkg/auth"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

// TokenManager defines the token operations the auth flow needs
type TokenManager interface {
	GenerateSessionToken(userID string) (string, error)
	GenerateVerificationToken(email string) (string, error)
	ValidateVerificationToken(token string) (*models.TokenClaims, error)
}

// AuthService handles registration, verification, login and password reset
type AuthService struct {
	repo             UserRepository
	tm               TokenManager
	email            EmailService
	logger           *slog.Logger
	auditLogger      *pkglogger.AuditLogger
	resetTokenExpiry time.Duration
}

// NewAuthService creates a new AuthService
func NewAuthService(repo UserRepository, tm TokenManager, email EmailService, logger *slog.Logger, auditLogger *pkglogger.AuditLogger, resetTokenExpiry time.Duration) *AuthService {
	return &AuthService{
		repo:             repo,
		tm:               tm,
		email:            email,
		logger:           logger,
		auditLogger:      auditLogger,
		resetTokenExpiry: resetTokenExpiry,
	}
}

// UserResponse is the sanitized user representation returned to clients
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName,omitempty"`
	Hostel     string `json:"hostel,omitempty"`
	Role       string `json:"role"`
	IsVerified bool   `json:"isVerified"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// AuthResponse carries a session token together with the user profile
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}

// Register creates an unverified account and sends the verification email.
// The email send is best effort; a delivery failure is logged but the
// account is still created.
func (s *AuthService) Register(ctx context.Context, user *models.User, password string) (*AuthResponse, error) {
	user.Username = strings.ToLower(strings.TrimSpace(user.Username))
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.FirstName = strings.TrimSpace(user.FirstName)
	user.LastName = strings.TrimSpace(user.LastName)

	if err := pkgauth.ValidatePassword(password); err != nil {
		return nil, err
	}

	if err := s.checkAvailability(ctx, user.Username, user.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := pkgauth.HashPassword(password)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.PasswordHash = hashedPassword
	user.Role = models.RoleUser
	user.IsVerified = false

	verificationToken, err := s.tm.GenerateVerificationToken(user.Email)
	if err != nil {
		s.logger.Error("failed to generate verification token", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	user.VerificationToken = verificationToken

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrConflict
		}
		s.logger.Error("failed to create user", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	if err := s.email.SendVerificationEmail(ctx, created.Email, verificationToken); err != nil {
		s.logger.Warn("verification email not delivered",
			slog.String("user_id", created.ID),
			slog.Any("error", err))
	}

	sessionToken, err := s.tm.GenerateSessionToken(created.ID)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.String("user_id", created.ID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("user registered", slog.String("user_id", created.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "register",
		UserID:    created.ID,
		Success:   true,
	})

	return &AuthResponse{
		Token: sessionToken,
		User:  UserModelToResponse(created),
	}, nil
}

// VerifyEmail activates the account the token was issued for. The presented
// token must match the one stored on the user record, so a link from an
// earlier email cannot verify the account after a resend.
func (s *AuthService) VerifyEmail(ctx context.Context, tokenString string) error {
	claims, err := s.tm.ValidateVerificationToken(tokenString)
	if err != nil {
		s.logger.Info("email verification failed: invalid token")
		return models.ErrUnauthorized
	}

	user, err := s.repo.GetByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrUnauthorized
		}
		s.logger.Error("failed to get user for verification", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsVerified {
		return models.ErrAlreadyVerified
	}

	if user.VerificationToken != tokenString {
		s.logger.Info("email verification failed: token mismatch", slog.String("user_id", user.ID))
		return models.ErrUnauthorized
	}

	if err := s.repo.SetVerified(ctx, user.ID); err != nil {
		s.logger.Error("failed to mark user verified", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("user verified", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "email_verified",
		UserID:    user.ID,
		Success:   true,
	})

	return nil
}

// ResendVerification issues a fresh verification token, replacing the stored
// one, and emails the new link.
func (s *AuthService) ResendVerification(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to get user for resend", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if user.IsVerified {
		return models.ErrAlreadyVerified
	}

	token, err := s.tm.GenerateVerificationToken(user.Email)
	if err != nil {
		s.logger.Error("failed to generate verification token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.SetVerificationToken(ctx, user.ID, token); err != nil {
		s.logger.Error("failed to store verification token", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendVerificationEmail(ctx, user.Email, token); err != nil {
		return models.ErrEmailDelivery
	}

	return nil
}

// Login authenticates by username or email and returns a session token.
// Unknown identifier and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return "", models.ErrUnauthorized
	}

	user, err := s.repo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("login failed: invalid credentials")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "login_failed",
				FailureReason: "invalid_credentials",
				Success:       false,
			})
			return "", models.ErrUnauthorized
		}
		s.logger.Error("failed to look up user for login", slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		s.logger.Info("login failed: invalid credentials")
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "invalid_credentials",
			Success:       false,
		})
		return "", models.ErrUnauthorized
	}

	if !user.IsVerified {
		s.logger.Info("login blocked: account not verified", slog.String("user_id", user.ID))
		s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login_failed",
			UserID:        user.ID,
			FailureReason: "not_verified",
			Success:       false,
		})
		return "", models.ErrNotVerified
	}

	token, err := s.tm.GenerateSessionToken(user.ID)
	if err != nil {
		s.logger.Error("failed to generate session token", slog.String("user_id", user.ID), slog.Any("error", err))
		return "", models.ErrInternalServer
	}

	s.logger.Info("user logged in", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login_success",
		UserID:    user.ID,
		Success:   true,
	})

	return token, nil
}

// ForgotPassword issues a reset token for the account matching the
// identifier. Only a SHA-256 hash of the token is stored; the raw value
// leaves the system in the reset email alone. If the email cannot be
// delivered the stored state is rolled back so a stale token never lingers.
func (s *AuthService) ForgotPassword(ctx context.Context, identifier string) error {
	identifier = strings.ToLower(strings.TrimSpace(identifier))

	user, err := s.repo.GetByUsernameOrEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrNotFound
		}
		s.logger.Error("failed to look up user for password reset", slog.Any("error", err))
		return models.ErrInternalServer
	}

	plain, hash, err := pkgauth.GenerateResetToken()
	if err != nil {
		s.logger.Error("failed to generate reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	expires := time.Now().Add(s.resetTokenExpiry)
	if err := s.repo.SetResetToken(ctx, user.ID, hash, expires); err != nil {
		s.logger.Error("failed to store reset token", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.email.SendPasswordResetEmail(ctx, user.Email, plain); err != nil {
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil {
			s.logger.Error("failed to clear reset token after email failure",
				slog.String("user_id", user.ID), slog.Any("error", clearErr))
		}
		return models.ErrEmailDelivery
	}

	s.logger.Info("password reset requested", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "password_reset_requested",
		UserID:    user.ID,
		Success:   true,
	})

	return nil
}

// ResetPassword sets a new password for the holder of an unexpired reset
// token. The token is consumed whether or not it is used again afterwards.
func (s *AuthService) ResetPassword(ctx context.Context, tokenPlain, newPassword string) error {
	if err := pkgauth.ValidatePassword(newPassword); err != nil {
		return err
	}

	user, err := s.repo.GetByResetTokenHash(ctx, pkgauth.HashResetToken(tokenPlain))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset failed: invalid or expired token")
			s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
				EventType:     "password_reset_failed",
				FailureReason: "invalid_token",
				Success:       false,
			})
			return models.ErrUnauthorized
		}
		s.logger.Error("failed to look up reset token", slog.Any("error", err))
		return models.ErrInternalServer
	}

	hashedPassword, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		s.logger.Error("failed to hash password", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if err := s.repo.UpdatePasswordAndClearReset(ctx, user.ID, hashedPassword); err != nil {
		s.logger.Error("failed to update password", slog.String("user_id", user.ID), slog.Any("error", err))
		return models.ErrInternalServer
	}

	s.logger.Info("password reset completed", slog.String("user_id", user.ID))
	s.auditLogger.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "password_reset_completed",
		UserID:    user.ID,
		Success:   true,
	})

	return nil
}

// checkAvailability reports a conflict when the username or email is taken
func (s *AuthService) checkAvailability(ctx context.Context, username, email string) error {
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check username availability", slog.Any("error", err))
		return models.ErrInternalServer
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return models.ErrConflict
	} else if !errors.Is(err, models.ErrNotFound) {
		s.logger.Error("failed to check email availability", slog.Any("error", err))
		return models.ErrInternalServer
	}

	return nil
}

// UserModelToResponse converts a user model to its sanitized response DTO
func UserModelToResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:         user.ID,
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Hostel:     user.Hostel,
		Role:       user.Role,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  user.UpdatedAt.Format(time.RFC3339),
	}
}
