package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/repositories"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

type fakeEventSearcher struct {
	events     []*models.Event
	lastFilter repositories.EventSearchFilter
}

func (f *fakeEventSearcher) Search(_ context.Context, filter repositories.EventSearchFilter) ([]*models.Event, error) {
	f.lastFilter = filter
	return f.events, nil
}

func floatPtr(v float64) *float64 { return &v }

// Three events around Tokyo station: at the station, ~1.2km north, ~25km
// west in Tachikawa direction.
func searchFixture() *fakeEventSearcher {
	day := func(d int) time.Time { return time.Date(2026, time.November, d, 10, 0, 0, 0, time.UTC) }
	return &fakeEventSearcher{events: []*models.Event{
		{ID: 1, Title: "Station market", Latitude: 35.6812, Longitude: 139.7671,
			StartAt: day(3), EndAt: day(3), CreatedAt: day(1)},
		{ID: 2, Title: "North park picnic", Latitude: 35.6920, Longitude: 139.7671,
			StartAt: day(1), EndAt: day(1), CreatedAt: day(2)},
		{ID: 3, Title: "Suburb flea market", Latitude: 35.6812, Longitude: 139.4900,
			StartAt: day(5), EndAt: day(5), CreatedAt: day(3)},
	}}
}

func TestSearchAnnotatesDistances(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	results, err := service.Search(context.Background(), SearchParams{
		Lat: floatPtr(35.6812), Lng: floatPtr(139.7671),
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, result := range results {
		require.NotNil(t, result.Distance)
	}
	assert.InDelta(t, 0.0, *results[0].Distance, 0.01)
	assert.InDelta(t, 1.2, *results[1].Distance, 0.1)
	assert.InDelta(t, 25.0, *results[2].Distance, 1.0)
}

func TestSearchRadiusFilter(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	results, err := service.Search(context.Background(), SearchParams{
		Lat: floatPtr(35.6812), Lng: floatPtr(139.7671), RadiusKm: floatPtr(5),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].Event.ID)
	assert.Equal(t, int64(2), results[1].Event.ID)
}

func TestSearchSortByDistance(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	results, err := service.Search(context.Background(), SearchParams{
		Lat: floatPtr(35.6920), Lng: floatPtr(139.7671), Sort: dto.SortByDistance,
	})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(2), results[0].Event.ID)
	assert.Equal(t, int64(1), results[1].Event.ID)
	assert.Equal(t, int64(3), results[2].Event.ID)
}

func TestSearchSortByNewest(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	results, err := service.Search(context.Background(), SearchParams{Sort: dto.SortByNewest})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(3), results[0].Event.ID)
	assert.Equal(t, int64(2), results[1].Event.ID)
	assert.Equal(t, int64(1), results[2].Event.ID)
}

// Without a searcher location the distance sort cannot apply; the query's
// date order passes through untouched.
func TestSearchDistanceSortWithoutLocationKeepsDateOrder(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	results, err := service.Search(context.Background(), SearchParams{Sort: dto.SortByDistance})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, int64(1), results[0].Event.ID)
	assert.Nil(t, results[0].Distance)
}

func TestSearchValidation(t *testing.T) {
	service := NewSearchService(searchFixture(), zerolog.Nop())

	_, err := service.Search(context.Background(), SearchParams{Lat: floatPtr(35.6812)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.Search(context.Background(), SearchParams{RadiusKm: floatPtr(5)})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.Search(context.Background(), SearchParams{
		Lat: floatPtr(35.6812), Lng: floatPtr(139.7671), RadiusKm: floatPtr(-1),
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestSearchPassesFiltersThrough(t *testing.T) {
	searcher := searchFixture()
	service := NewSearchService(searcher, zerolog.Nop())
	service.now = func() time.Time {
		return time.Date(2026, time.November, 4, 15, 30, 0, 0, time.UTC)
	}

	from := time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC)
	_, err := service.Search(context.Background(), SearchParams{
		Keyword: "market", DateFrom: &from, HidePast: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "market", searcher.lastFilter.Keyword)
	require.NotNil(t, searcher.lastFilter.DateFrom)
	assert.True(t, searcher.lastFilter.DateFrom.Equal(from))
	assert.True(t, searcher.lastFilter.HidePast)
	// Hide-past cuts at midnight of the current day, not at the instant
	// of the request.
	assert.Equal(t, time.Date(2026, time.November, 4, 0, 0, 0, 0, time.UTC), searcher.lastFilter.Today)
}
