package handlers

import (
	"context"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/rdua-dev/sadhana-tracker/internal/services"
)

// MockAuthService implements AuthServiceInterface for testing
type MockAuthService struct {
	RegisterFunc           func(ctx context.Context, user *models.User, password string) (*services.AuthResponse, error)
	VerifyEmailFunc        func(ctx context.Context, token string) error
	ResendVerificationFunc func(ctx context.Context, email string) error
	LoginFunc              func(ctx context.Context, identifier, password string) (string, error)
	ForgotPasswordFunc     func(ctx context.Context, identifier string) error
	ResetPasswordFunc      func(ctx context.Context, token, newPassword string) error
}

func (m *MockAuthService) Register(ctx context.Context, user *models.User, password string) (*services.AuthResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, user, password)
	}
	return &services.AuthResponse{Token: "session_token", User: services.UserModelToResponse(user)}, nil
}

func (m *MockAuthService) VerifyEmail(ctx context.Context, token string) error {
	if m.VerifyEmailFunc != nil {
		return m.VerifyEmailFunc(ctx, token)
	}
	return nil
}

func (m *MockAuthService) ResendVerification(ctx context.Context, email string) error {
	if m.ResendVerificationFunc != nil {
		return m.ResendVerificationFunc(ctx, email)
	}
	return nil
}

func (m *MockAuthService) Login(ctx context.Context, identifier, password string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, identifier, password)
	}
	return "session_token", nil
}

func (m *MockAuthService) ForgotPassword(ctx context.Context, identifier string) error {
	if m.ForgotPasswordFunc != nil {
		return m.ForgotPasswordFunc(ctx, identifier)
	}
	return nil
}

func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if m.ResetPasswordFunc != nil {
		return m.ResetPasswordFunc(ctx, token, newPassword)
	}
	return nil
}

// MockSadhanaService implements SadhanaServiceInterface for testing
type MockSadhanaService struct {
	CreateEntryFunc     func(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error)
	ListEntriesFunc     func(ctx context.Context, userID string) ([]*services.SadhanaEntryResponse, error)
	CheckDailyGoalsFunc func(ctx context.Context, userID string) (*services.GoalStatusResponse, error)
	SetDailyGoalsFunc   func(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error)
}

func (m *MockSadhanaService) CreateEntry(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
	if m.CreateEntryFunc != nil {
		return m.CreateEntryFunc(ctx, entry)
	}
	entry.ID = "entry_test"
	return entry, nil
}

func (m *MockSadhanaService) ListEntries(ctx context.Context, userID string) ([]*services.SadhanaEntryResponse, error) {
	if m.ListEntriesFunc != nil {
		return m.ListEntriesFunc(ctx, userID)
	}
	return []*services.SadhanaEntryResponse{}, nil
}

func (m *MockSadhanaService) CheckDailyGoals(ctx context.Context, userID string) (*services.GoalStatusResponse, error) {
	if m.CheckDailyGoalsFunc != nil {
		return m.CheckDailyGoalsFunc(ctx, userID)
	}
	return &services.GoalStatusResponse{Filled: false}, models.ErrNotFound
}

func (m *MockSadhanaService) SetDailyGoals(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
	if m.SetDailyGoalsFunc != nil {
		return m.SetDailyGoalsFunc(ctx, userID, goal)
	}
	goal.ID = "goal_test"
	goal.UserID = userID
	return goal, nil
}

// MockLeaderboardService implements LeaderboardServiceInterface for testing
type MockLeaderboardService struct {
	LeaderboardFunc func(ctx context.Context) ([]*models.LeaderboardRow, error)
	AddRoundsFunc   func(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error)
	PurgeAllFunc    func(ctx context.Context, actorID string) (int64, error)
}

func (m *MockLeaderboardService) Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc(ctx)
	}
	return []*models.LeaderboardRow{}, nil
}

func (m *MockLeaderboardService) AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error) {
	if m.AddRoundsFunc != nil {
		return m.AddRoundsFunc(ctx, userID, rounds)
	}
	return &models.EkadashiRounds{ID: "rounds_test", UserID: userID, Rounds: rounds}, nil
}

func (m *MockLeaderboardService) PurgeAll(ctx context.Context, actorID string) (int64, error) {
	if m.PurgeAllFunc != nil {
		return m.PurgeAllFunc(ctx, actorID)
	}
	return 0, models.ErrNotFound
}

// MockUserService implements UserServiceInterface for testing
type MockUserService struct {
	GetUserByIDFunc   func(ctx context.Context, id string) (*models.User, error)
	ListUsersFunc     func(ctx context.Context, limit, offset int) ([]*models.User, error)
	UpdateProfileFunc func(ctx context.Context, id string, updates *models.User) (*models.User, error)
	UpdateRoleFunc    func(ctx context.Context, actorID, targetID, role string) (*models.User, error)
	DeleteUserFunc    func(ctx context.Context, actorID, id string) error
}

func (m *MockUserService) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *MockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error) {
	if m.ListUsersFunc != nil {
		return m.ListUsersFunc(ctx, limit, offset)
	}
	return []*models.User{}, nil
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id string, updates *models.User) (*models.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, updates)
	}
	updates.ID = id
	return updates, nil
}

func (m *MockUserService) UpdateRole(ctx context.Context, actorID, targetID, role string) (*models.User, error) {
	if m.UpdateRoleFunc != nil {
		return m.UpdateRoleFunc(ctx, actorID, targetID, role)
	}
	return &models.User{ID: targetID, Role: role}, nil
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, id string) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(ctx, actorID, id)
	}
	return nil
}
