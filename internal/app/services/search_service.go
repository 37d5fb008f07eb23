package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/repositories"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/geo"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
)

// SearchParams describes one search. Lat and Lng must come together;
// Radius is in kilometers and only applies when a location is given.
type SearchParams struct {
	Keyword  string
	Lat      *float64
	Lng      *float64
	RadiusKm *float64
	DateFrom *time.Time
	DateTo   *time.Time
	HidePast bool
	Sort     string
}

// SearchResult pairs an event with its distance from the searcher, in
// kilometers, when the search carried a location.
type SearchResult struct {
	Event    *models.Event
	Distance *float64
}

// eventSearcher runs the SQL-side part of a search.
type eventSearcher interface {
	Search(ctx context.Context, filter repositories.EventSearchFilter) ([]*models.Event, error)
}

// SearchService combines the database filters with the geo filters the
// database cannot express.
type SearchService struct {
	eventRepo eventSearcher
	logger    zerolog.Logger
	now       func() time.Time
}

// NewSearchService creates a new SearchService
func NewSearchService(eventRepo eventSearcher, logger zerolog.Logger) *SearchService {
	return &SearchService{
		eventRepo: eventRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Search runs the full pipeline: keyword and date filters in SQL, then
// radius filtering and distance annotation in memory, then sorting.
func (s *SearchService) Search(ctx context.Context, params SearchParams) ([]SearchResult, error) {
	if (params.Lat == nil) != (params.Lng == nil) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
			"lat and lng must be provided together")
	}
	if params.Lat != nil && !geo.IsFiniteCoord(*params.Lat, *params.Lng) {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid coordinates")
	}
	if params.RadiusKm != nil {
		if params.Lat == nil {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"radius requires lat and lng")
		}
		if *params.RadiusKm <= 0 {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed,
				"radius must be positive")
		}
	}

	events, err := s.eventRepo.Search(ctx, repositories.EventSearchFilter{
		Keyword:  params.Keyword,
		DateFrom: params.DateFrom,
		DateTo:   params.DateTo,
		HidePast: params.HidePast,
		Today:    helpers.StartOfDay(s.now()),
	})
	if err != nil {
		return nil, err
	}

	results := annotateDistances(events, params.Lat, params.Lng)
	if params.RadiusKm != nil {
		results = filterByRadius(results, *params.RadiusKm)
	}
	sortResults(results, params.Sort)
	return results, nil
}

// annotateDistances computes each event's distance from the searcher when
// a location was given.
func annotateDistances(events []*models.Event, lat, lng *float64) []SearchResult {
	results := make([]SearchResult, 0, len(events))
	for _, event := range events {
		result := SearchResult{Event: event}
		if lat != nil && lng != nil {
			km := geo.DistanceMeters(*lat, *lng, event.Latitude, event.Longitude) / 1000.0
			result.Distance = &km
		}
		results = append(results, result)
	}
	return results
}

// filterByRadius keeps results within radiusKm of the searcher.
func filterByRadius(results []SearchResult, radiusKm float64) []SearchResult {
	filtered := results[:0]
	for _, result := range results {
		if result.Distance != nil && *result.Distance <= radiusKm {
			filtered = append(filtered, result)
		}
	}
	return filtered
}

// sortResults orders results in place. Distance sorting needs annotated
// distances and falls back to the date order the query already produced.
func sortResults(results []SearchResult, sortBy string) {
	switch sortBy {
	case dto.SortByDistance:
		sort.SliceStable(results, func(i, j int) bool {
			di, dj := results[i].Distance, results[j].Distance
			if di == nil || dj == nil {
				// Entries without a distance sort after those with one.
				return di != nil && dj == nil
			}
			return *di < *dj
		})
	case dto.SortByNewest:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Event.CreatedAt.After(results[j].Event.CreatedAt)
		})
	default:
		// SortByDate: the query already ordered by start_at ascending.
	}
}
