// Package seed creates demo accounts and events for local development.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/koheitakada/machimeet/internal/app/models"
	appRepos "github.com/koheitakada/machimeet/internal/app/repositories"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

// CreateDemoData inserts two demo users and a handful of events around
// Tokyo station when they are not there yet. Never called in release mode.
func CreateDemoData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	eventRepo := appRepos.NewEventRepository(dbPool)

	lgr.Info().Msg("Checking/Creating demo data...")
	var finalErr error

	demoUsers := []*appModels.User{
		{Username: "demo_alice", Password: "password123"},
		{Username: "demo_bob", Password: "password123"},
	}
	userIDs := make([]int64, 0, len(demoUsers))
	for _, user := range demoUsers {
		id, err := userRepo.Create(ctx, user)
		if err != nil {
			if errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
				// Already seeded on a previous start; skip the events too.
				lgr.Info().Str("username", user.Username).Msg("Demo user already exists, skipping seeding")
				return finalErr
			}
			lgr.Error().Err(err).Str("username", user.Username).Msg("Error creating demo user")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		userIDs = append(userIDs, id)
	}
	if len(userIDs) < len(demoUsers) {
		return finalErr
	}

	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)
	demoEvents := []*appModels.Event{
		{
			Title:     "Marunouchi morning market",
			Latitude:  35.6812, Longitude: 139.7671,
			StartAt: start, EndAt: start.Add(4 * time.Hour),
			AuthorID: &userIDs[0],
		},
		{
			Title:     "Hibiya park picnic",
			Latitude:  35.6745, Longitude: 139.7560,
			StartAt: start.Add(48 * time.Hour), EndAt: start.Add(52 * time.Hour),
			AuthorID: &userIDs[0],
		},
		{
			Title:     "Nihonbashi photo walk",
			Latitude:  35.6840, Longitude: 139.7744,
			StartAt: start.Add(96 * time.Hour), EndAt: start.Add(99 * time.Hour),
			AuthorID: &userIDs[1],
		},
	}
	for _, event := range demoEvents {
		desc := fmt.Sprintf("Demo event: %s", event.Title)
		event.Description = &desc
		if _, err := eventRepo.Create(ctx, event); err != nil {
			lgr.Error().Err(err).Str("title", event.Title).Msg("Error creating demo event")
			finalErr = errors.Join(finalErr, err)
		}
	}

	lgr.Info().Msg("Demo data seeding finished.")
	return finalErr
}
