package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

// discardLogger silences log output in tests
func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func discardAuditLogger() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(discardLogger())
}

// MockUserRepository implements UserRepository for testing
type MockUserRepository struct {
	CreateFunc                  func(ctx context.Context, user *models.User) (*models.User, error)
	GetByIDFunc                 func(ctx context.Context, id string) (*models.User, error)
	GetByEmailFunc              func(ctx context.Context, email string) (*models.User, error)
	GetByUsernameFunc           func(ctx context.Context, username string) (*models.User, error)
	GetByUsernameOrEmailFunc    func(ctx context.Context, identifier string) (*models.User, error)
	GetByResetTokenHashFunc     func(ctx context.Context, tokenHash string) (*models.User, error)
	ListFunc                    func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfileFunc           func(ctx context.Context, id string, user *models.User) (*models.User, error)
	UpdateRoleFunc              func(ctx context.Context, id, role string) (*models.User, error)
	UpdatePasswordAndClearResetFunc func(ctx context.Context, id, passwordHash string) error
	SetVerificationTokenFunc    func(ctx context.Context, id, token string) error
	SetVerifiedFunc             func(ctx context.Context, id string) error
	SetResetTokenFunc           func(ctx context.Context, id, tokenHash string, expires time.Time) error
	ClearResetTokenFunc         func(ctx context.Context, id string) error
	ClearExpiredResetTokensFunc func(ctx context.Context) (int64, error)
	DeleteFunc                  func(ctx context.Context, id string) error
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	user.ID = "user_test"
	return user, nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	if m.GetByUsernameFunc != nil {
		return m.GetByUsernameFunc(ctx, username)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	if m.GetByUsernameOrEmailFunc != nil {
		return m.GetByUsernameOrEmailFunc(ctx, identifier)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	if m.GetByResetTokenHashFunc != nil {
		return m.GetByResetTokenHashFunc(ctx, tokenHash)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, user)
	}
	return user, nil
}

func (m *MockUserRepository) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, id, role)
	}
	return &models.User{ID: id, Role: role}, nil
}

func (m *MockUserRepository) UpdatePasswordAndClearReset(ctx context.Context, id, passwordHash string) error {
	if m.UpdatePasswordAndClearResetFunc != nil {
		return m.UpdatePasswordAndClearResetFunc(ctx, id, passwordHash)
	}
	return nil
}

func (m *MockUserRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	if m.SetVerificationTokenFunc != nil {
		return m.SetVerificationTokenFunc(ctx, id, token)
	}
	return nil
}

func (m *MockUserRepository) SetVerified(ctx context.Context, id string) error {
	if m.SetVerifiedFunc != nil {
		return m.SetVerifiedFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	if m.SetResetTokenFunc != nil {
		return m.SetResetTokenFunc(ctx, id, tokenHash, expires)
	}
	return nil
}

func (m *MockUserRepository) ClearResetToken(ctx context.Context, id string) error {
	if m.ClearResetTokenFunc != nil {
		return m.ClearResetTokenFunc(ctx, id)
	}
	return nil
}

func (m *MockUserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	if m.ClearExpiredResetTokensFunc != nil {
		return m.ClearExpiredResetTokensFunc(ctx)
	}
	return 0, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

// MockTokenManager implements TokenManager for testing
type MockTokenManager struct {
	GenerateSessionTokenFunc      func(userID string) (string, error)
	GenerateVerificationTokenFunc func(email string) (string, error)
	ValidateVerificationTokenFunc func(token string) (*models.TokenClaims, error)
}

func (m *MockTokenManager) GenerateSessionToken(userID string) (string, error) {
	if m.GenerateSessionTokenFunc != nil {
		return m.GenerateSessionTokenFunc(userID)
	}
	return "session_token_" + userID, nil
}

func (m *MockTokenManager) GenerateVerificationToken(email string) (string, error) {
	if m.GenerateVerificationTokenFunc != nil {
		return m.GenerateVerificationTokenFunc(email)
	}
	return "verify_token_" + email, nil
}

func (m *MockTokenManager) ValidateVerificationToken(token string) (*models.TokenClaims, error) {
	if m.ValidateVerificationTokenFunc != nil {
		return m.ValidateVerificationTokenFunc(token)
	}
	return nil, models.ErrUnauthorized
}

// MockEmailService implements EmailService for testing
type MockEmailService struct {
	SendVerificationEmailFunc  func(ctx context.Context, email, token string) error
	SendPasswordResetEmailFunc func(ctx context.Context, email, token string) error
}

func (m *MockEmailService) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email, token)
	}
	return nil
}

func (m *MockEmailService) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token)
	}
	return nil
}

// MockSadhanaRepository implements SadhanaRepository for testing
type MockSadhanaRepository struct {
	CreateFunc        func(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error)
	ExistsForDateFunc func(ctx context.Context, userID string, date time.Time) (bool, error)
	ListByUserFunc    func(ctx context.Context, userID string) ([]*models.SadhanaEntry, error)
}

func (m *MockSadhanaRepository) Create(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, entry)
	}
	entry.ID = "entry_test"
	return entry, nil
}

func (m *MockSadhanaRepository) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	if m.ExistsForDateFunc != nil {
		return m.ExistsForDateFunc(ctx, userID, date)
	}
	return false, nil
}

func (m *MockSadhanaRepository) ListByUser(ctx context.Context, userID string) ([]*models.SadhanaEntry, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return []*models.SadhanaEntry{}, nil
}

// MockGoalRepository implements GoalRepository for testing
type MockGoalRepository struct {
	UpsertFunc      func(ctx context.Context, goal *models.MonthlyGoal) (*models.MonthlyGoal, error)
	GetForMonthFunc func(ctx context.Context, userID string, year, month int) (*models.MonthlyGoal, error)
}

func (m *MockGoalRepository) Upsert(ctx context.Context, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, goal)
	}
	goal.ID = "goal_test"
	goal.FilledAt = time.Now()
	return goal, nil
}

func (m *MockGoalRepository) GetForMonth(ctx context.Context, userID string, year, month int) (*models.MonthlyGoal, error) {
	if m.GetForMonthFunc != nil {
		return m.GetForMonthFunc(ctx, userID, year, month)
	}
	return nil, models.ErrNotFound
}

// MockEkadashiRepository implements EkadashiRepository for testing
type MockEkadashiRepository struct {
	AddRoundsFunc     func(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error)
	ListWithUsersFunc func(ctx context.Context) ([]*models.RoundsWithUser, error)
	PurgeAllFunc      func(ctx context.Context) (int64, error)
}

func (m *MockEkadashiRepository) AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error) {
	if m.AddRoundsFunc != nil {
		return m.AddRoundsFunc(ctx, userID, rounds)
	}
	return &models.EkadashiRounds{ID: "rounds_test", UserID: userID, Rounds: rounds}, nil
}

func (m *MockEkadashiRepository) ListWithUsers(ctx context.Context) ([]*models.RoundsWithUser, error) {
	if m.ListWithUsersFunc != nil {
		return m.ListWithUsersFunc(ctx)
	}
	return []*models.RoundsWithUser{}, nil
}

func (m *MockEkadashiRepository) PurgeAll(ctx context.Context) (int64, error) {
	if m.PurgeAllFunc != nil {
		return m.PurgeAllFunc(ctx)
	}
	return 0, nil
}

// NewTestUser builds a verified user for tests
func NewTestUser(id, username, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:         id,
		Username:   username,
		Email:      email,
		FirstName:  "Test",
		LastName:   "Devotee",
		Role:       models.RoleUser,
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestUserUnverified builds an unverified user holding a pending token
func NewTestUserUnverified(id, username, email, verificationToken string) *models.User {
	user := NewTestUser(id, username, email)
	user.IsVerified = false
	user.VerificationToken = verificationToken
	return user
}
