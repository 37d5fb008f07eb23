package services

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

// usernameRegex matches 3-20 characters of letters, digits and underscore.
var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)

const minPasswordLength = 8

// userAccountStore is the slice of the user repository auth needs.
type userAccountStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, stored string) error
}

// AuthService handles registration and credential checks
type AuthService struct {
	userRepo userAccountStore
	hasher   *auth.PasswordHasher
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo userAccountStore, hasher *auth.PasswordHasher, logger zerolog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register validates the requested account and creates it
func (s *AuthService) Register(ctx context.Context, username, password string, email *string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if !usernameRegex.MatchString(username) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"username must be 3-20 characters of letters, digits or underscore")
	}
	if len(password) < minPasswordLength {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"password must be at least 8 characters")
	}
	if email != nil {
		normalized := normalizeEmail(*email)
		if !emailRegex.MatchString(normalized) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid email format")
		}
		email = &normalized
	}

	stored, err := s.hasher.ToStorable(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: username,
		Password: stored,
		Email:    email,
	}
	id, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userID", id).Str("username", username).Msg("User registered")
	return s.userRepo.GetByID(ctx, id)
}

// Login checks the credentials and returns the account. A matching
// plaintext credential is upgraded to a bcrypt hash in passing when
// hashing is enabled; a failed upgrade does not fail the login.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	cred := auth.ParseCredential(user.Password)
	if !cred.Verify(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(cred) {
		if upgraded, hashErr := s.hasher.ToStorable(password); hashErr == nil {
			if updErr := s.userRepo.UpdatePassword(ctx, user.ID, upgraded); updErr != nil {
				s.logger.Warn().Err(updErr).Int64("userID", user.ID).Msg("Failed to upgrade stored credential")
			} else {
				user.Password = upgraded
			}
		}
	}

	return user, nil
}

// GetUser loads an account by id
func (s *AuthService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}
