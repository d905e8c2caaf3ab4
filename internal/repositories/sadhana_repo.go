package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rdua-dev/sadhana-tracker/internal/database"
	"github.com/rdua-dev/sadhana-tracker/internal/models"
)

const sadhanaColumns = `id, user_id, entry_date, attended_morning_prayer, minutes_late, study_hours, chanting_rounds, did_read_book, book_name, reading_minutes, created_at, updated_at`

type SadhanaRepository struct {
	pool *pgxpool.Pool
}

func NewSadhanaRepository(db *database.DB) *SadhanaRepository {
	return &SadhanaRepository{pool: db.Pool}
}

func scanSadhanaRow(scanner rowScanner) (*models.SadhanaEntry, error) {
	var entry models.SadhanaEntry
	var bookName *string

	err := scanner.Scan(
		&entry.ID, &entry.UserID, &entry.Date,
		&entry.AttendedMorningPrayer, &entry.MinutesLate,
		&entry.StudyHours, &entry.ChantingRounds,
		&entry.DidReadBook, &bookName, &entry.ReadingMinutes,
		&entry.CreatedAt, &entry.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if bookName != nil {
		entry.BookName = *bookName
	}

	return &entry, nil
}

func scanSadhanaRows(rows pgx.Rows) ([]*models.SadhanaEntry, error) {
	defer rows.Close()

	entries := make([]*models.SadhanaEntry, 0)

	for rows.Next() {
		entry, err := scanSadhanaRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sadhana entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return entries, nil
}

func (r *SadhanaRepository) Create(ctx context.Context, entry *models.SadhanaEntry) (*models.SadhanaEntry, error) {
	entry.ID = uuid.New().String()

	now := time.Now()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	query := `
		INSERT INTO sadhana_entries (id, user_id, entry_date, attended_morning_prayer, minutes_late, study_hours, chanting_rounds, did_read_book, book_name, reading_minutes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + sadhanaColumns

	return scanSadhanaRow(r.pool.QueryRow(ctx, query,
		entry.ID, entry.UserID, entry.Date,
		entry.AttendedMorningPrayer, entry.MinutesLate,
		entry.StudyHours, entry.ChantingRounds,
		entry.DidReadBook, nullable(entry.BookName), entry.ReadingMinutes,
		entry.CreatedAt, entry.UpdatedAt,
	))
}

// ExistsForDate reports whether the user already logged an entry on the given
// calendar day.
func (r *SadhanaRepository) ExistsForDate(ctx context.Context, userID string, date time.Time) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM sadhana_entries WHERE user_id = $1 AND entry_date = $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID, date).Scan(&exists); err != nil {
		return false, database.MapPostgresError(err)
	}
	return exists, nil
}

// ListByUser returns the user's entries, newest day first.
func (r *SadhanaRepository) ListByUser(ctx context.Context, userID string) ([]*models.SadhanaEntry, error) {
	query := `SELECT ` + sadhanaColumns + ` FROM sadhana_entries WHERE user_id = $1 ORDER BY entry_date DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sadhana entries: %w", err)
	}

	return scanSadhanaRows(rows)
}
