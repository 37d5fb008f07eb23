package services

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

type fakeCommentStore struct {
	comments []*models.EventComment
	lastTake int
	created  []*models.EventComment
}

func (f *fakeCommentStore) Create(_ context.Context, comment *models.EventComment) (*models.EventComment, error) {
	comment.ID = int64(len(f.created) + 1)
	f.created = append(f.created, comment)
	return comment, nil
}

func (f *fakeCommentStore) ListByEvent(_ context.Context, _ int64, take int) ([]*models.EventComment, error) {
	f.lastTake = take
	return f.comments, nil
}

type fakeCommentEventGetter struct {
	events map[int64]*models.Event
}

func (f *fakeCommentEventGetter) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	return event, nil
}

func newCommentFixture() (*CommentService, *fakeCommentStore) {
	store := &fakeCommentStore{}
	events := &fakeCommentEventGetter{events: map[int64]*models.Event{
		10: {ID: 10, Title: "Morning market"},
	}}
	return NewCommentService(store, events, zerolog.Nop()), store
}

func TestListCommentsPassesTakeThrough(t *testing.T) {
	service, store := newCommentFixture()

	_, err := service.List(context.Background(), 10, 35)
	require.NoError(t, err)
	assert.Equal(t, 35, store.lastTake)
}

func TestListCommentsUnknownEvent(t *testing.T) {
	service, _ := newCommentFixture()

	_, err := service.List(context.Background(), 99, 0)
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
}

func TestCreateCommentTrimsAndValidates(t *testing.T) {
	service, store := newCommentFixture()

	comment, err := service.Create(context.Background(), 10, 2, "  nice event  ")
	require.NoError(t, err)
	assert.Equal(t, "nice event", comment.Body)
	require.Len(t, store.created, 1)

	_, err = service.Create(context.Background(), 10, 2, "   ")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = service.Create(context.Background(), 10, 2, strings.Repeat("a", maxCommentLength+1))
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestCreateCommentUnknownEvent(t *testing.T) {
	service, store := newCommentFixture()

	_, err := service.Create(context.Background(), 99, 2, "hello")
	assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
	assert.Empty(t, store.created)
}
