package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rdua-dev/sadhana-tracker/internal/database"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

const goalColumns = `id, user_id, year, month, rounds_of_chanting, attend_morning_prayer, watch_lecture_minutes, read_book_minutes, filled_at`

type GoalRepository struct {
	pool *pgxpool.Pool
}

func NewGoalRepository(db *database.DB) *GoalRepository {
	return &GoalRepository{pool: db.Pool}
}

func scanGoalRow(scanner rowScanner) (*models.MonthlyGoal, error) {
	var goal models.MonthlyGoal

	err := scanner.Scan(
		&goal.ID, &goal.UserID, &goal.Year, &goal.Month,
		&goal.RoundsOfChanting, &goal.AttendMorningPrayer,
		&goal.WatchLectureMinutes, &goal.ReadBookMinutes,
		&goal.FilledAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &goal, nil
}

// Upsert writes the user's goals for a month, replacing any earlier values
// for the same month. The unique index on (user_id, year, month) makes the
// conflict target safe under concurrent submissions.
func (r *GoalRepository) Upsert(ctx context.Context, goal *models.MonthlyGoal) (*models.MonthlyGoal, error) {
	query := `
		INSERT INTO monthly_goals (id, user_id, year, month, rounds_of_chanting, attend_morning_prayer, watch_lecture_minutes, read_book_minutes, filled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id, year, month) DO UPDATE SET
			rounds_of_chanting = EXCLUDED.rounds_of_chanting,
			attend_morning_prayer = EXCLUDED.attend_morning_prayer,
			watch_lecture_minutes = EXCLUDED.watch_lecture_minutes,
			read_book_minutes = EXCLUDED.read_book_minutes,
			filled_at = NOW()
		RETURNING ` + goalColumns

	return scanGoalRow(r.pool.QueryRow(ctx, query,
		uuid.New().String(), goal.UserID, goal.Year, goal.Month,
		goal.RoundsOfChanting, goal.AttendMorningPrayer,
		goal.WatchLectureMinutes, goal.ReadBookMinutes,
	))
}

// GetForMonth returns the user's goals for one month, or ErrNotFound when the
// user has not filled them in yet.
func (r *GoalRepository) GetForMonth(ctx context.Context, userID string, year, month int) (*models.MonthlyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM monthly_goals WHERE user_id = $1 AND year = $2 AND month = $3`
	return scanGoalRow(r.pool.QueryRow(ctx, query, userID, year, month))
}
