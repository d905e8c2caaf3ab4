package services

import (
	"context"
	"log/slog"
	"sort"
	"strconv"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	pkglogger "github.com/rdua-dev/sadhana-tracker/pkg/logger"
)

// EkadashiRepository defines the interface for Ekadashi rounds access
type EkadashiRepository interface {
	AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error)
	ListWithUsers(ctx context.Context) ([]*models.RoundsWithUser, error)
	PurgeAll(ctx context.Context) (int64, error)
}

// LeaderboardService handles the live Ekadashi rounds board
type LeaderboardService struct {
	repo        EkadashiRepository
	logger      *slog.Logger
	auditLogger *pkglogger.AuditLogger
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(repo EkadashiRepository, logger *slog.Logger, auditLogger *pkglogger.AuditLogger) *LeaderboardService {
	return &LeaderboardService{
		repo:        repo,
		logger:      logger,
		auditLogger: auditLogger,
	}
}

// Leaderboard sums every participant's logged batches into one total per
// user and returns the totals highest first. Participants with no logged
// rounds are absent.
func (s *LeaderboardService) Leaderboard(ctx context.Context) ([]*models.LeaderboardRow, error) {
	entries, err := s.repo.ListWithUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load leaderboard", slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	totals := make(map[string]*models.LeaderboardRow)
	board := make([]*models.LeaderboardRow, 0)
	for _, entry := range entries {
		row, ok := totals[entry.UserID]
		if !ok {
			row = &models.LeaderboardRow{
				UserID:    entry.UserID,
				FirstName: entry.FirstName,
				LastName:  entry.LastName,
			}
			totals[entry.UserID] = row
			board = append(board, row)
		}
		row.Rounds += int64(entry.Rounds)
	}

	// Ties keep the order entries were first logged in
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Rounds > board[j].Rounds
	})

	return board, nil
}

// AddRounds records a batch of rounds for the user. Batches below one round
// are refused.
func (s *LeaderboardService) AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error) {
	if rounds < 1 {
		return nil, models.ErrBadRequest
	}

	entry, err := s.repo.AddRounds(ctx, userID, rounds)
	if err != nil {
		s.logger.Error("failed to add rounds", slog.String("user_id", userID), slog.Any("error", err))
		return nil, models.ErrInternalServer
	}

	s.logger.Info("rounds added",
		slog.String("user_id", userID),
		slog.Int("rounds", rounds))

	return entry, nil
}

// PurgeAll clears the board after an observance. Returns ErrNotFound when
// there was nothing to clear.
func (s *LeaderboardService) PurgeAll(ctx context.Context, actorID string) (int64, error) {
	deleted, err := s.repo.PurgeAll(ctx)
	if err != nil {
		s.logger.Error("failed to purge rounds", slog.Any("error", err))
		return 0, models.ErrInternalServer
	}

	if deleted == 0 {
		return 0, models.ErrNotFound
	}

	s.logger.Info("leaderboard purged", slog.Int64("deleted", deleted))
	s.auditLogger.LogAccountAction("leaderboard_purged", actorID, "", map[string]string{
		"deleted": strconv.FormatInt(deleted, 10),
	})

	return deleted, nil
}
