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

const userColumns = `id, username, email, first_name, last_name, hostel, password_hash, role, is_verified, verification_token, reset_password_token, reset_password_expires, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{pool: db.Pool}
}

// rowScanner interface for scanning rows (supports both single row and multiple rows)
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanUserRow handles nullable fields and populates a User model from a database row
func scanUserRow(scanner rowScanner) (*models.User, error) {
	var user models.User
	var lastName, hostel, verificationToken, resetToken *string

	err := scanner.Scan(
		&user.ID, &user.Username, &user.Email, &user.FirstName,
		&lastName, &hostel, &user.PasswordHash, &user.Role,
		&user.IsVerified, &verificationToken,
		&resetToken, &user.ResetPasswordExpires,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if lastName != nil {
		user.LastName = *lastName
	}
	if hostel != nil {
		user.Hostel = *hostel
	}
	if verificationToken != nil {
		user.VerificationToken = *verificationToken
	}
	if resetToken != nil {
		user.ResetPasswordToken = *resetToken
	}

	return &user, nil
}

// scanUserRows iterates through rows and scans each into User models
func scanUserRows(rows pgx.Rows) ([]*models.User, error) {
	defer rows.Close()

	users := make([]*models.User, 0)

	for rows.Next() {
		user, err := scanUserRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.New().String()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if user.Role == "" {
		user.Role = models.RoleUser
	}

	query := `
		INSERT INTO users (id, username, email, first_name, last_name, hostel, password_hash, role, is_verified, verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns

	created, err := scanUserRow(r.pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName,
		nullable(user.LastName), nullable(user.Hostel),
		user.PasswordHash, user.Role, user.IsVerified,
		nullable(user.VerificationToken),
		user.CreatedAt, user.UpdatedAt,
	))
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, username))
}

// GetByUsernameOrEmail resolves the single login identifier users type into
// the login form.
func (r *UserRepository) GetByUsernameOrEmail(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1 OR email = $1`
	return scanUserRow(r.pool.QueryRow(ctx, query, identifier))
}

// GetByResetTokenHash returns the user holding an unexpired reset token hash.
func (r *UserRepository) GetByResetTokenHash(ctx context.Context, tokenHash string) (*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE reset_password_token = $1 AND reset_password_expires > NOW()
	`
	return scanUserRow(r.pool.QueryRow(ctx, query, tokenHash))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}

	return scanUserRows(rows)
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, user *models.User) (*models.User, error) {
	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, hostel = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query,
		user.FirstName, nullable(user.LastName), nullable(user.Hostel), id,
	))
}

func (r *UserRepository) UpdateRole(ctx context.Context, id, role string) (*models.User, error) {
	query := `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + userColumns

	return scanUserRow(r.pool.QueryRow(ctx, query, role, id))
}

// UpdatePasswordAndClearReset installs the new password hash and consumes
// the reset token in a single statement, so a crash between the two can
// never leave a used token live.
func (r *UserRepository) UpdatePasswordAndClearReset(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $1, reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW()
		WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetVerificationToken stores the pending email-verification token.
func (r *UserRepository) SetVerificationToken(ctx context.Context, id, token string) error {
	query := `UPDATE users SET verification_token = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.pool.Exec(ctx, query, token, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetVerified marks the account verified and clears the pending token.
func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET is_verified = TRUE, verification_token = NULL, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetResetToken stores the hash of a newly issued reset token and its expiry.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	query := `UPDATE users SET reset_password_token = $1, reset_password_expires = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.pool.Exec(ctx, query, tokenHash, expires, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearResetToken removes reset state after a successful password change.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string) error {
	query := `UPDATE users SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW() WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearExpiredResetTokens drops reset state whose expiry has passed. Returns
// the number of rows cleaned.
func (r *UserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE users
		SET reset_password_token = NULL, reset_password_expires = NULL, updated_at = NOW()
		WHERE reset_password_token IS NOT NULL AND reset_password_expires <= NOW()
	`

	result, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return result.RowsAffected(), nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// nullable maps empty strings to NULL for optional text columns
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
