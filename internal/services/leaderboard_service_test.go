package services

import (
	"context"
	"testing"

	"github.com/rdua-dev/sadhana-tracker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeaderboardService(repo *MockEkadashiRepository) *LeaderboardService {
	if repo == nil {
		repo = &MockEkadashiRepository{}
	}
	return NewLeaderboardService(repo, discardLogger(), discardAuditLogger())
}

func TestLeaderboardService_Leaderboard_SumsPerUser(t *testing.T) {
	repo := &MockEkadashiRepository{
		ListWithUsersFunc: func(ctx context.Context) ([]*models.RoundsWithUser, error) {
			return []*models.RoundsWithUser{
				{UserID: "userA", FirstName: "Arjuna", LastName: "Das", Rounds: 5},
				{UserID: "userB", FirstName: "Bhima", Rounds: 3},
				{UserID: "userA", FirstName: "Arjuna", LastName: "Das", Rounds: 2},
			}, nil
		},
	}

	svc := newLeaderboardService(repo)

	board, err := svc.Leaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, board, 2)
	assert.Equal(t, "userA", board[0].UserID)
	assert.Equal(t, int64(7), board[0].Rounds)
	assert.Equal(t, "Arjuna", board[0].FirstName)
	assert.Equal(t, "userB", board[1].UserID)
	assert.Equal(t, int64(3), board[1].Rounds)
}

func TestLeaderboardService_Leaderboard_OrdersHighestFirst(t *testing.T) {
	repo := &MockEkadashiRepository{
		ListWithUsersFunc: func(ctx context.Context) ([]*models.RoundsWithUser, error) {
			// Low scorer logged first; totals must still come out descending
			return []*models.RoundsWithUser{
				{UserID: "userB", FirstName: "Bhima", Rounds: 4},
				{UserID: "userA", FirstName: "Arjuna", Rounds: 16},
				{UserID: "userC", FirstName: "Chitra", Rounds: 8},
				{UserID: "userB", FirstName: "Bhima", Rounds: 4},
			}, nil
		},
	}

	svc := newLeaderboardService(repo)

	board, err := svc.Leaderboard(context.Background())

	require.NoError(t, err)
	require.Len(t, board, 3)
	assert.Equal(t, []int64{16, 8, 8}, []int64{board[0].Rounds, board[1].Rounds, board[2].Rounds})
	assert.Equal(t, "userA", board[0].UserID)
	// userB tied userC at 8 but logged first
	assert.Equal(t, "userB", board[1].UserID)
	assert.Equal(t, "userC", board[2].UserID)
}

func TestLeaderboardService_Leaderboard_Empty(t *testing.T) {
	svc := newLeaderboardService(nil)

	board, err := svc.Leaderboard(context.Background())

	require.NoError(t, err)
	assert.Empty(t, board)
}

func TestLeaderboardService_AddRounds_Success(t *testing.T) {
	svc := newLeaderboardService(nil)

	entry, err := svc.AddRounds(context.Background(), "user123", 4)

	require.NoError(t, err)
	assert.Equal(t, 4, entry.Rounds)
	assert.Equal(t, "user123", entry.UserID)
}

func TestLeaderboardService_AddRounds_BelowMinimum(t *testing.T) {
	svc := newLeaderboardService(nil)

	for _, rounds := range []int{0, -3} {
		_, err := svc.AddRounds(context.Background(), "user123", rounds)
		assert.ErrorIs(t, err, models.ErrBadRequest)
	}
}

func TestLeaderboardService_PurgeAll_ReturnsCount(t *testing.T) {
	repo := &MockEkadashiRepository{
		PurgeAllFunc: func(ctx context.Context) (int64, error) {
			return 12, nil
		},
	}

	svc := newLeaderboardService(repo)

	deleted, err := svc.PurgeAll(context.Background(), "admin123")

	require.NoError(t, err)
	assert.Equal(t, int64(12), deleted)
}

func TestLeaderboardService_PurgeAll_EmptyBoard(t *testing.T) {
	svc := newLeaderboardService(nil)

	_, err := svc.PurgeAll(context.Background(), "admin123")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
