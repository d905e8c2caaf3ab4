package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

// SadhanaRepository defines the interface for daily practice log access
type SadhanaRepository interface {
	Create(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error)
	ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]*models.SadhanaEntry, error)
}

// GoalRepository defines the interface for monthly goal access
type GoalRepository interface {
	Upsert(ctx context.Context, goal *models.MonthlyGoal) (*models.MonthlyGoal, error)
	GetForMonth(ctx context.Context, userID string, year, month int) (*models.MonthlyGoal, error)
}

// SadhanaService handles daily practice logs and monthly goals
type SadhanaService struct {
	entries SadhanaRepository
	goals   GoalRepository
	users   UserRepository
	logger  *slog.Logger
	now     func() time.Time
}

// NewSadhanaService creates a new SadhanaService
func NewSadhanaService(entries SadhanaRepository, goals GoalRepository, users UserRepository, logger *slog.Logger) *SadhanaService {
	return &SadhanaService{
		entries: entries,
		goals:   goals,
		users:   users,
		logger:  logger,
		now:     time.Now,
	}
}

// SadhanaEntryResponse is one practice log with its owner's public profile
type SadhanaEntryResponse struct {
	ID                    string        `json:"id"`
	Date                  string        `json:"date"`
	AttendedMorningPrayer bool          `json:"attendedMorningPrayer"`
	MinutesLate           int           `json:"minutesLate"`
	StudyHours            float64       `json:"studyHours"`
	ChantingRounds        int           `json:"chantingRounds"`
	DidReadBook           bool          `json:"didReadBook"`
	BookName              string        `json:"bookName,omitempty"`
	ReadingMinutes        int           `json:"readingMinutes"`
	CreatedAt             string        `json:"createdAt"`
	User                  *UserResponse `json:"user"`
}

// GoalStatusResponse reports whether the user filled goals this month
type GoalStatusResponse struct {
	Filled bool                `json:"filled"`
	Goal   *models.MonthlyGoal `json:"goal,omitempty"`
}

// CreateEntry records one day's practice. A second entry for the same
// calendar day is refused; the unique index closes the race behind the
// friendly check.
func (s *SadhanaService) CreateEntry(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
	entry.Date = truncateToDay(entry.Date)

	exists, err := s.entries.ExistsForDate(ctx, entry.UserID, entry.Date)
	if err != nil {
		s.logger.Error("failed to check existing entry", slog.String("user_id", entry.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}
	if exists {
		return nil, models.ErrEntryExists
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, models.ErrEntryExists
		}
		s.logger.Error("failed to create entry", slog.String("user_id", entry.UserID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("sadhana entry recorded",
		slog.String("user_id", entry.UserID),
		slog.String("date", entry.Date.Format("2006-01-02")))

	return created, nil
}

// ListEntries returns the user's practice logs, newest first, each carrying
// the owner's public profile.
func (s *SadhanaService) ListEntries(ctx context.Context, userID string) ([]*SadhanaEntryResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, models.ErrNotFound
		}
		s.logger.Error("failed to get user", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	entries, err := s.entries.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list entries", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	profile := UserModelToResponse(user)
	responses := make([]*SadhanaEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, &SadhanaEntryResponse{
			ID:                    entry.ID,
			Date:                  entry.Date.Format("2006-01-02"),
			AttendedMorningPrayer: entry.AttendedMorningPrayer,
			MinutesLate:           entry.MinutesLate,
			StudyHours:            entry.StudyHours,
			ChantingRounds:        entry.ChantingRounds,
			DidReadBook:           entry.DidReadBook,
			BookName:              entry.BookName,
			ReadingMinutes:        entry.ReadingMinutes,
			CreatedAt:             entry.CreatedAt.Format(time.RFC3339),
			User:                  profile,
		})
	}

	return responses, nil
}

// CheckDailyGoals reports whether the user has filled goals for the current
// month, with the goal document when present.
func (s *SadhanaService) CheckDailyGoals(ctx context.Context, userID string) (*GoalStatusResponse, error) {
	now := s.now()
	goal, err := s.goals.GetForMonth(ctx, userID, now.Year(), int(now.Month()))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &GoalStatusResponse{Filled: false}, models.ErrNotFound
		}
		s.logger.Error("failed to get monthly goal", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	return &GoalStatusResponse{Filled: true, Goal: goal}, nil
}

// SetDailyGoals upserts the user's goals for the current month. Submitting
// twice in a month replaces the earlier values.
func (s *SadhanaService) SetDailyGoals(ctx context.Context, userID string, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
	now := s.now()
	goal.UserID = userID
	goal.Year = now.Year()
	goal.Month = int(now.Month())

	saved, err := s.goals.Upsert(ctx, goal)
	if err != nil {
		s.logger.Error("failed to upsert monthly goal", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("monthly goals set",
		slog.String("user_id", userID),
		slog.Int("year", saved.Year),
		slog.Int("month", saved.Month))

	return saved, nil
}

// truncateToDay drops the time component, keeping the calendar day
func truncateToDay(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
