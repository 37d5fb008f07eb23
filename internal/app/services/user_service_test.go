package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

type fakeUserProfileStore struct {
	users   map[int64]*models.User
	deleted []int64
}

func (f *fakeUserProfileStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserProfileStore) UpdateUsername(_ context.Context, userID int64, username string) error {
	for id, user := range f.users {
		if id != userID && user.Username == username {
			return apperrors.ErrUsernameAlreadyExists
		}
	}
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Username = username
	return nil
}

func (f *fakeUserProfileStore) UpdateEmail(_ context.Context, userID int64, email string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Email = &email
	return nil
}

func (f *fakeUserProfileStore) UpdatePassword(_ context.Context, userID int64, stored string) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = stored
	return nil
}

// SpendPoints mirrors the repository's conditional UPDATE: the debit only
// lands when the balance covers it.
func (f *fakeUserProfileStore) SpendPoints(_ context.Context, userID int64, amount int) (int, error) {
	user, ok := f.users[userID]
	if !ok || user.Points < amount {
		return 0, apperrors.ErrInsufficientPoints
	}
	user.Points -= amount
	return user.Points, nil
}

func (f *fakeUserProfileStore) DeleteAccountTx(_ context.Context, _ pgx.Tx, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.users, userID)
	f.deleted = append(f.deleted, userID)
	return nil
}

func newUserFixture() (*UserService, *fakeUserProfileStore) {
	store := &fakeUserProfileStore{users: map[int64]*models.User{
		1: {ID: 1, Username: "kohei_t", Password: "plain-password", Points: 30},
	}}
	service := NewUserService(store, &fakeTxRunner{}, auth.NewPasswordHasher(true), zerolog.Nop())
	return service, store
}

func TestUsePoints(t *testing.T) {
	service, store := newUserFixture()

	remaining, err := service.UsePoints(context.Background(), 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 10, remaining)
	assert.Equal(t, 10, store.users[1].Points)
}

// A debit larger than the balance must not land at all. The error carries
// the untouched balance.
func TestUsePointsInsufficient(t *testing.T) {
	service, store := newUserFixture()

	_, err := service.UsePoints(context.Background(), 1, 31)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPoints)

	var customErr *apperrors.CustomError
	require.ErrorAs(t, err, &customErr)
	assert.Equal(t, 30, customErr.Details["currentPoints"])
	assert.Equal(t, 30, store.users[1].Points)
}

func TestUsePointsRejectsNonPositive(t *testing.T) {
	service, _ := newUserFixture()

	for _, amount := range []int{0, -5} {
		_, err := service.UsePoints(context.Background(), 1, amount)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	}
}

func TestUsePointsExactBalance(t *testing.T) {
	service, _ := newUserFixture()

	remaining, err := service.UsePoints(context.Background(), 1, 30)
	require.NoError(t, err)
	assert.Zero(t, remaining)
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	service, store := newUserFixture()

	err := service.ChangePassword(context.Background(), 1, "wrong-password", "new-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	err = service.ChangePassword(context.Background(), 1, "plain-password", "new-password")
	require.NoError(t, err)
	assert.True(t, auth.ParseCredential(store.users[1].Password).Verify("new-password"))
}

func TestChangeEmailValidatesFormat(t *testing.T) {
	service, store := newUserFixture()

	err := service.ChangeEmail(context.Background(), 1, "not-an-email")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = service.ChangeEmail(context.Background(), 1, "  Kohei@Example.com ")
	require.NoError(t, err)
	require.NotNil(t, store.users[1].Email)
	assert.Equal(t, "kohei@example.com", *store.users[1].Email)
}

func TestDeleteAccount(t *testing.T) {
	service, store := newUserFixture()

	require.NoError(t, service.DeleteAccount(context.Background(), 1))
	assert.Equal(t, []int64{1}, store.deleted)

	err := service.DeleteAccount(context.Background(), 1)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
