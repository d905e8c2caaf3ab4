package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rdua-dev/sadhana-tracker/internal/database"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

type EkadashiRepository struct {
	pool *pgxpool.Pool
}

func NewEkadashiRepository(db *database.DB) *EkadashiRepository {
	return &EkadashiRepository{pool: db.Pool}
}

// AddRounds records a batch of chanted rounds for the user.
func (r *EkadashiRepository) AddRounds(ctx context.Context, userID string, rounds int) (*models.EkadashiRounds, error) {
	entry := &models.EkadashiRounds{
		ID:     uuid.New().String(),
		UserID: userID,
		Rounds: rounds,
	}

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO ekadashi_rounds (id, user_id, rounds, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, rounds, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Rounds, entry.CreatedAt, entry.UpdatedAt,
	).Scan(&entry.ID, &entry.UserID, &entry.Rounds, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return entry, nil
}

// ListWithUsers returns every logged batch joined with its owner's name,
// oldest first. Summing per user happens in the service layer.
func (r *EkadashiRepository) ListWithUsers(ctx context.Context) ([]*models.RoundsWithUser, error) {
	query := `
		SELECT u.id, u.first_name, COALESCE(u.last_name, ''), e.rounds
		FROM ekadashi_rounds e
		JOIN users u ON u.id = e.user_id
		ORDER BY e.created_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.RoundsWithUser, 0)
	for rows.Next() {
		var entry models.RoundsWithUser
		if err := rows.Scan(&entry.UserID, &entry.FirstName, &entry.LastName, &entry.Rounds); err != nil {
			return nil, fmt.Errorf("failed to scan rounds row: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

// PurgeAll deletes every logged round, returning the number of rows removed.
// Used by administrators to reset the board after an observance.
func (r *EkadashiRepository) PurgeAll(ctx context.Context) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM ekadashi_rounds`)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}
