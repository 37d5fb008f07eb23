package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/db"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

type fakeEventGetter struct {
	events map[int64]*models.Event
}

func (f *fakeEventGetter) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

type fakeParticipantStore struct {
	joined    map[[2]int64]bool
	createErr error
	created   [][2]int64
}

func (f *fakeParticipantStore) Exists(_ context.Context, userID, eventID int64) (bool, error) {
	return f.joined[[2]int64{userID, eventID}], nil
}

func (f *fakeParticipantStore) CreateTx(_ context.Context, _ pgx.Tx, userID, eventID int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, [2]int64{userID, eventID})
	return nil
}

type fakePointsStore struct {
	credits map[int64]int
	addErr  error
}

func (f *fakePointsStore) AddPointsTx(_ context.Context, _ pgx.Tx, userID int64, delta int) error {
	if f.addErr != nil {
		return f.addErr
	}
	if f.credits == nil {
		f.credits = make(map[int64]int)
	}
	f.credits[userID] += delta
	return nil
}

type fakeTxRunner struct {
	calls int
}

func (f *fakeTxRunner) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

func newCheckInFixture(t *testing.T) (*ParticipationService, *fakeParticipantStore, *fakePointsStore, *fakeTxRunner) {
	t.Helper()
	ownerID := int64(1)
	events := &fakeEventGetter{events: map[int64]*models.Event{
		10: {ID: 10, Title: "Morning market", Latitude: 35.6812, Longitude: 139.7671, AuthorID: &ownerID},
	}}
	participants := &fakeParticipantStore{joined: map[[2]int64]bool{}}
	points := &fakePointsStore{}
	txRunner := &fakeTxRunner{}
	service := NewParticipationService(events, participants, points, txRunner, zerolog.Nop())
	return service, participants, points, txRunner
}

func TestCheckInSuccess(t *testing.T) {
	service, participants, points, txRunner := newCheckInFixture(t)

	// A few meters east of the pin.
	result, err := service.CheckIn(context.Background(), 2, 10, 35.6812, 139.76715)
	require.NoError(t, err)

	assert.Equal(t, CheckInRewardPoints, result.Awarded)
	assert.Less(t, result.Distance, CheckInMaxDistanceMeters)
	assert.Equal(t, [][2]int64{{2, 10}}, participants.created)
	assert.Equal(t, CheckInRewardPoints, points.credits[2])
	assert.Equal(t, 1, txRunner.calls)
}

func TestCheckInInvalidLocation(t *testing.T) {
	service, participants, _, _ := newCheckInFixture(t)

	_, err := service.CheckIn(context.Background(), 2, 10, math.NaN(), 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrInvalidLocation)
	assert.Empty(t, participants.created)
}

func TestCheckInEventNotFound(t *testing.T) {
	service, _, _, _ := newCheckInFixture(t)

	_, err := service.CheckIn(context.Background(), 2, 999, 35.6812, 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestCheckInOwnerForbidden(t *testing.T) {
	service, _, points, _ := newCheckInFixture(t)

	_, err := service.CheckIn(context.Background(), 1, 10, 35.6812, 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrOwnerForbidden)
	assert.Empty(t, points.credits)
}

func TestCheckInTooFar(t *testing.T) {
	service, _, _, _ := newCheckInFixture(t)

	// Roughly a kilometer away.
	_, err := service.CheckIn(context.Background(), 2, 10, 35.6902, 139.7671)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTooFar)

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	distance, ok := customErr.Details["distance"].(int)
	require.True(t, ok)
	assert.Greater(t, distance, 900)
	assert.Less(t, distance, 1100)
}

func TestCheckInAlreadyJoined(t *testing.T) {
	service, participants, points, txRunner := newCheckInFixture(t)
	participants.joined[[2]int64{2, 10}] = true

	_, err := service.CheckIn(context.Background(), 2, 10, 35.6812, 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyJoined)
	assert.Empty(t, points.credits)
	assert.Zero(t, txRunner.calls)
}

// Two requests can both pass the pre-check; the insert's primary key
// decides, and the loser's error must read the same as the pre-check's.
func TestCheckInRaceSurfacesAlreadyJoined(t *testing.T) {
	service, participants, points, _ := newCheckInFixture(t)
	participants.createErr = apperrors.ErrAlreadyJoined

	_, err := service.CheckIn(context.Background(), 2, 10, 35.6812, 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyJoined)
	assert.Empty(t, points.credits)
}

// Owner check outranks the distance check: an organizer standing far from
// their own event sees the ownership error, not the distance one.
func TestCheckInOwnerBeforeDistance(t *testing.T) {
	service, _, _, _ := newCheckInFixture(t)

	_, err := service.CheckIn(context.Background(), 1, 10, 35.6902, 139.7671)
	assert.ErrorIs(t, err, apperrors.ErrOwnerForbidden)
	assert.NotErrorIs(t, err, apperrors.ErrTooFar)
}

func TestCheckInPointsFailureAborts(t *testing.T) {
	service, _, points, _ := newCheckInFixture(t)
	points.addErr = errors.New("connection reset")

	_, err := service.CheckIn(context.Background(), 2, 10, 35.6812, 139.7671)
	assert.Error(t, err)
}
