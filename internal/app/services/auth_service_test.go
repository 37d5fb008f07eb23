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
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

type fakeUserAccountStore struct {
	byID       map[int64]*models.User
	byUsername map[string]*models.User
	nextID     int64
	updates    map[int64]string
}

func newFakeUserAccountStore() *fakeUserAccountStore {
	return &fakeUserAccountStore{
		byID:       map[int64]*models.User{},
		byUsername: map[string]*models.User{},
		nextID:     1,
		updates:    map[int64]string{},
	}
}

func (f *fakeUserAccountStore) add(user *models.User) *models.User {
	user.ID = f.nextID
	f.nextID++
	f.byID[user.ID] = user
	f.byUsername[user.Username] = user
	return user
}

func (f *fakeUserAccountStore) Create(_ context.Context, user *models.User) (int64, error) {
	if _, exists := f.byUsername[user.Username]; exists {
		return 0, apperrors.ErrUsernameAlreadyExists
	}
	return f.add(user).ID, nil
}

func (f *fakeUserAccountStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserAccountStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	user, ok := f.byUsername[username]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserAccountStore) UpdatePassword(_ context.Context, userID int64, stored string) error {
	user, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	user.Password = stored
	f.updates[userID] = stored
	return nil
}

func newAuthFixture(hashEnabled bool) (*AuthService, *fakeUserAccountStore) {
	store := newFakeUserAccountStore()
	service := NewAuthService(store, auth.NewPasswordHasher(hashEnabled), zerolog.Nop())
	return service, store
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newAuthFixture(true)

	user, err := service.Register(context.Background(), "kohei_t", "correct-horse", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(user.Password, "$2"), "password must be stored hashed")

	loggedIn, err := service.Login(context.Background(), "kohei_t", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, err = service.Login(context.Background(), "kohei_t", "wrong-password")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	service, _ := newAuthFixture(true)

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"username too short", "ab", "long-enough"},
		{"username too long", strings.Repeat("a", 21), "long-enough"},
		{"username bad characters", "kohei!", "long-enough"},
		{"password too short", "kohei_t", "short"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Register(context.Background(), tc.username, tc.password, nil)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	service, _ := newAuthFixture(true)

	_, err := service.Register(context.Background(), "kohei_t", "correct-horse", nil)
	require.NoError(t, err)

	_, err = service.Register(context.Background(), "kohei_t", "other-password", nil)
	assert.ErrorIs(t, err, apperrors.ErrUsernameAlreadyExists)
}

func TestLoginUnknownUserReadsLikeBadCredentials(t *testing.T) {
	service, _ := newAuthFixture(true)

	_, err := service.Login(context.Background(), "nobody", "whatever")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

// Accounts imported from the legacy deployment still hold plaintext
// credentials; a successful login upgrades them in place.
func TestLoginUpgradesPlaintextCredential(t *testing.T) {
	service, store := newAuthFixture(true)
	user := store.add(&models.User{Username: "legacy_user", Password: "plain-password"})

	loggedIn, err := service.Login(context.Background(), "legacy_user", "plain-password")
	require.NoError(t, err)

	upgraded, ok := store.updates[user.ID]
	require.True(t, ok, "plaintext credential should be rehashed on login")
	assert.True(t, strings.HasPrefix(upgraded, "$2"))
	assert.True(t, auth.ParseCredential(loggedIn.Password).Verify("plain-password"))
}

func TestLoginKeepsPlaintextWhenHashingDisabled(t *testing.T) {
	service, store := newAuthFixture(false)
	user := store.add(&models.User{Username: "legacy_user", Password: "plain-password"})

	_, err := service.Login(context.Background(), "legacy_user", "plain-password")
	require.NoError(t, err)
	assert.NotContains(t, store.updates, user.ID)
}
