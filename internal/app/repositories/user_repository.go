package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/dberrors"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
)

// Unique constraint names from migrations/001_init.sql.
const (
	UsernameUniqueConstraint = "users_username_key"
	EmailUniqueConstraint    = "users_email_key"
)

// UserRepository handles database operations for users
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and returns its id. Duplicate usernames and
// emails surface as the matching apperrors sentinel.
func (r *UserRepository) Create(ctx context.Context, user *models.User) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (username, password, email)
		VALUES ($1, $2, $3)
		RETURNING id`,
		user.Username, user.Password, helpers.GetNullString(user.Email)).Scan(&id)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UsernameUniqueConstraint) {
			return 0, apperrors.ErrUsernameAlreadyExists
		}
		if dberrors.IsDuplicateConstraintError(err, EmailUniqueConstraint) {
			return 0, apperrors.ErrEmailAlreadyExists
		}
		return 0, fmt.Errorf("error creating user: %w", err)
	}
	return id, nil
}

// GetByID retrieves a user by id
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRow(ctx, `
		SELECT id, username, password, email, points, created_at, updated_at
		FROM users `+where,
		arg).Scan(
		&user.ID, &user.Username, &user.Password, &user.Email,
		&user.Points, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error finding user: %w", err)
	}
	return user, nil
}

// UpdateUsername renames a user
func (r *UserRepository) UpdateUsername(ctx context.Context, userID int64, username string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET username = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		username, userID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, UsernameUniqueConstraint) {
			return apperrors.ErrUsernameAlreadyExists
		}
		return fmt.Errorf("error updating username: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateEmail changes a user's email address
func (r *UserRepository) UpdateEmail(ctx context.Context, userID int64, email string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET email = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		email, userID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, EmailUniqueConstraint) {
			return apperrors.ErrEmailAlreadyExists
		}
		return fmt.Errorf("error updating email: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdatePassword replaces the stored credential value
func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, stored string) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE users SET password = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		stored, userID)
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// AddPointsTx credits points inside the caller's transaction. Pairs with
// the participation insert during check-in; never call it outside a
// transaction that also records why the points moved.
func (r *UserRepository) AddPointsTx(ctx context.Context, tx pgx.Tx, userID int64, delta int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE users SET points = points + $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		delta, userID)
	if err != nil {
		return fmt.Errorf("error adding points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// SpendPoints debits the balance only when sufficient. The guard lives in
// the WHERE clause, so a concurrent debit can never drive the balance
// negative; zero affected rows means insufficient or missing user.
func (r *UserRepository) SpendPoints(ctx context.Context, userID int64, amount int) (remaining int, err error) {
	err = r.db.QueryRow(ctx, `
		UPDATE users
		SET points = points - $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2 AND points >= $1
		RETURNING points`,
		amount, userID).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrInsufficientPoints
		}
		return 0, fmt.Errorf("error spending points: %w", err)
	}
	return remaining, nil
}

// DeleteAccountTx removes the user inside the caller's transaction:
// participations go, authored events and comments survive with the author
// reference nulled by the FK actions.
func (r *UserRepository) DeleteAccountTx(ctx context.Context, tx pgx.Tx, userID int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM event_participants WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("error deleting participations: %w", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE events SET author_id = NULL WHERE author_id = $1`, userID); err != nil {
		return fmt.Errorf("error detaching authored events: %w", err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}
