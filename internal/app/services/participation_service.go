package services

import (
	"context"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/geo"
)

const (
	// CheckInMaxDistanceMeters is how close a visitor must stand to the pin.
	CheckInMaxDistanceMeters = 10.0
	// CheckInRewardPoints is credited once per event per user.
	CheckInRewardPoints = 10
)

// participantStore records and queries check-ins.
type participantStore interface {
	Exists(ctx context.Context, userID, eventID int64) (bool, error)
	CreateTx(ctx context.Context, tx pgx.Tx, userID, eventID int64) error
}

// pointsStore credits reward points inside the check-in transaction.
type pointsStore interface {
	AddPointsTx(ctx context.Context, tx pgx.Tx, userID int64, delta int) error
}

// eventGetter loads the event being checked in to.
type eventGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Event, error)
}

// CheckInResult reports a successful check-in
type CheckInResult struct {
	Awarded  int
	Distance float64
}

// ParticipationService handles proximity-gated check-ins
type ParticipationService struct {
	eventRepo       eventGetter
	participantRepo participantStore
	userRepo        pointsStore
	txRunner        TxRunner
	logger          zerolog.Logger
}

// NewParticipationService creates a new ParticipationService
func NewParticipationService(
	eventRepo eventGetter,
	participantRepo participantStore,
	userRepo pointsStore,
	txRunner TxRunner,
	logger zerolog.Logger,
) *ParticipationService {
	return &ParticipationService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		txRunner:        txRunner,
		logger:          logger,
	}
}

// CheckIn records that the user is at the event and credits the reward.
// Checks run in a fixed order so a client with several problems always
// sees the same one first: bad coordinates, missing event, organizer
// joining their own event, distance, then duplicate check-in. The
// participation insert and the points credit commit together or not at
// all.
func (s *ParticipationService) CheckIn(ctx context.Context, userID, eventID int64, lat, lng float64) (*CheckInResult, error) {
	if !geo.IsFiniteCoord(lat, lng) {
		return nil, apperrors.ErrInvalidLocation
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if event.AuthorID != nil && *event.AuthorID == userID {
		return nil, apperrors.ErrOwnerForbidden
	}

	distance := geo.DistanceMeters(lat, lng, event.Latitude, event.Longitude)
	if math.IsNaN(distance) || distance > CheckInMaxDistanceMeters {
		return nil, apperrors.NewTooFarError(int(math.Round(distance)))
	}

	joined, err := s.participantRepo.Exists(ctx, userID, eventID)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, apperrors.ErrAlreadyJoined
	}

	err = s.txRunner.WithTransaction(ctx, func(txCtx context.Context, tx pgx.Tx) error {
		if err := s.participantRepo.CreateTx(txCtx, tx, userID, eventID); err != nil {
			return err
		}
		return s.userRepo.AddPointsTx(txCtx, tx, userID, CheckInRewardPoints)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userID", userID).
		Int64("eventID", eventID).
		Float64("distance", distance).
		Msg("Check-in recorded")

	return &CheckInResult{Awarded: CheckInRewardPoints, Distance: distance}, nil
}
