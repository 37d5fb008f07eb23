package services

import (
	"context"
	"mime/multipart"

	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/boxcache"
	"github.com/koheitakada/machimeet/internal/pkg/filestorage"
	"github.com/koheitakada/machimeet/internal/pkg/geo"
)

// eventStore is the slice of the event repository the event service needs.
type eventStore interface {
	Create(ctx context.Context, event *models.Event) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	ListInBoundingBox(ctx context.Context, minLat, minLng, maxLat, maxLng float64) ([]*models.Event, error)
	ListByAuthor(ctx context.Context, authorID int64) ([]*models.Event, error)
}

// joinedEventStore lists the events a user checked in to.
type joinedEventStore interface {
	ListEventsByUser(ctx context.Context, userID int64) ([]*models.Event, error)
}

// EventService handles event creation and viewport listing
type EventService struct {
	eventRepo       eventStore
	participantRepo joinedEventStore
	viewportCache   *boxcache.Cache[[]*models.Event]
	fileStorage     filestorage.FileStorage
	logger          zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo eventStore,
	participantRepo joinedEventStore,
	fileStorage filestorage.FileStorage,
	logger zerolog.Logger,
) *EventService {
	return &EventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		viewportCache:   boxcache.New[[]*models.Event](boxcache.DefaultCapacity),
		fileStorage:     fileStorage,
		logger:          logger,
	}
}

// ListInViewport returns the events inside a map viewport. Results are
// cached per rounded bounding box so panning back over a recently viewed
// area does not hit the database again.
func (s *EventService) ListInViewport(ctx context.Context, minLat, minLng, maxLat, maxLng float64) ([]*models.Event, error) {
	if !geo.IsFiniteCoord(minLat, minLng) || !geo.IsFiniteCoord(maxLat, maxLng) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid bounding box")
	}
	if minLat > maxLat || minLng > maxLng {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid bounding box")
	}

	key := boxcache.Key(minLat, minLng, maxLat, maxLng)
	if events, ok := s.viewportCache.Get(key); ok {
		return events, nil
	}

	events, err := s.eventRepo.ListInBoundingBox(ctx, minLat, minLng, maxLat, maxLng)
	if err != nil {
		return nil, err
	}
	s.viewportCache.Put(key, events)
	return events, nil
}

// Create stores a new event, saving the image first when one is attached.
// Every cached viewport is invalidated so the new pin appears immediately.
func (s *EventService) Create(ctx context.Context, event *models.Event, image *multipart.FileHeader) (*models.Event, error) {
	if !geo.IsFiniteCoord(event.Latitude, event.Longitude) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid coordinates")
	}
	if event.EndAt.Before(event.StartAt) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "event ends before it starts")
	}

	if image != nil {
		url, err := s.fileStorage.SaveFile(image)
		if err != nil {
			return nil, err
		}
		event.ImageURL = &url
	}

	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	s.viewportCache.Flush()

	s.logger.Info().Int64("eventID", id).Str("title", event.Title).Msg("Event created")
	return s.eventRepo.GetByID(ctx, id)
}

// GetDetail loads a single event with its author
func (s *EventService) GetDetail(ctx context.Context, eventID int64) (*models.Event, error) {
	return s.eventRepo.GetByID(ctx, eventID)
}

// ListAuthored returns the events a user created
func (s *EventService) ListAuthored(ctx context.Context, userID int64) ([]*models.Event, error) {
	return s.eventRepo.ListByAuthor(ctx, userID)
}

// ListJoined returns the events a user checked in to
func (s *EventService) ListJoined(ctx context.Context, userID int64) ([]*models.Event, error) {
	return s.participantRepo.ListEventsByUser(ctx, userID)
}
