package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/db"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

var emailRegex = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// normalizeEmail folds an address to the stored form before validation.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// TxRunner runs a function inside a database transaction. Satisfied by
// *db.PostgresDB.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// userProfileStore is the slice of the user repository profile management needs.
type userProfileStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	UpdateUsername(ctx context.Context, userID int64, username string) error
	UpdateEmail(ctx context.Context, userID int64, email string) error
	UpdatePassword(ctx context.Context, userID int64, stored string) error
	SpendPoints(ctx context.Context, userID int64, amount int) (int, error)
	DeleteAccountTx(ctx context.Context, tx pgx.Tx, userID int64) error
}

// UserService handles profile and points operations
type UserService struct {
	userRepo userProfileStore
	txRunner TxRunner
	hasher   *auth.PasswordHasher
	logger   zerolog.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo userProfileStore, txRunner TxRunner, hasher *auth.PasswordHasher, logger zerolog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		txRunner: txRunner,
		hasher:   hasher,
		logger:   logger,
	}
}

// GetProfile loads a user's profile
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateUsername renames the account
func (s *UserService) UpdateUsername(ctx context.Context, userID int64, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if !usernameRegex.MatchString(username) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"username must be 3-20 characters of letters, digits or underscore")
	}
	if err := s.userRepo.UpdateUsername(ctx, userID, username); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// ChangePassword verifies the current credential before storing the new one
func (s *UserService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"password must be at least 8 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !auth.ParseCredential(user.Password).Verify(currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	stored, err := s.hasher.ToStorable(newPassword)
	if err != nil {
		return err
	}
	return s.userRepo.UpdatePassword(ctx, userID, stored)
}

// ChangeEmail replaces the account's email address
func (s *UserService) ChangeEmail(ctx context.Context, userID int64, email string) error {
	email = normalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid email format")
	}
	return s.userRepo.UpdateEmail(ctx, userID, email)
}

// UsePoints debits the balance. When the balance does not cover the amount
// the error carries the caller's current balance so the client can show it.
func (s *UserService) UsePoints(ctx context.Context, userID int64, amount int) (int, error) {
	if amount <= 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrValidationFailed, "points must be positive")
	}

	remaining, err := s.userRepo.SpendPoints(ctx, userID, amount)
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientPoints) {
			user, getErr := s.userRepo.GetByID(ctx, userID)
			if getErr != nil {
				return 0, getErr
			}
			return 0, apperrors.NewInsufficientPointsError(user.Points)
		}
		return 0, err
	}
	return remaining, nil
}

// DeleteAccount removes the account. Participations are deleted with it
// while authored events and comments stay behind without an author.
func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	err := s.txRunner.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		return s.userRepo.DeleteAccountTx(txCtx, tx, userID)
	})
	if err != nil {
		return err
	}
	s.logger.Info().Int64("userID", userID).Msg("User account deleted")
	return nil
}
