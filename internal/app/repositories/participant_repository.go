package repositories

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/dberrors"
)

// ParticipantRepository handles database operations for event participations
type ParticipantRepository struct {
	db           *pgxpool.Pool
	queryBuilder sq.StatementBuilderType
}

// NewParticipantRepository creates a new ParticipantRepository
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{
		db:           db,
		queryBuilder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Exists reports whether the user already checked in to the event
func (r *ParticipantRepository) Exists(ctx context.Context, userID, eventID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM event_participants WHERE user_id = $1 AND event_id = $2)`,
		userID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking participation: %w", err)
	}
	return exists, nil
}

// CreateTx records a participation inside the caller's transaction. Two
// requests racing past the pre-check both reach this insert; the primary
// key lets exactly one win and the loser gets ErrAlreadyJoined.
func (r *ParticipantRepository) CreateTx(ctx context.Context, tx pgx.Tx, userID, eventID int64) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO event_participants (user_id, event_id) VALUES ($1, $2)`,
		userID, eventID)
	if err != nil {
		// The composite primary key is the table's only unique
		// constraint, so any unique violation here is a duplicate join.
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyJoined
		}
		return fmt.Errorf("error creating participation: %w", err)
	}
	return nil
}

// ListEventsByUser returns the events a user joined, most recent check-in first
func (r *ParticipantRepository) ListEventsByUser(ctx context.Context, userID int64) ([]*models.Event, error) {
	query := r.queryBuilder.
		Select("e.id", "e.title", "e.description", "e.image_url", "e.latitude", "e.longitude",
			"e.start_at", "e.end_at", "e.author_id", "e.created_at").
		From("event_participants ep").
		Join("events e ON e.id = ep.event_id").
		Where(sq.Eq{"ep.user_id": userID}).
		OrderBy("ep.created_at DESC")

	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building joined events query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying joined events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(
			&event.ID, &event.Title, &event.Description, &event.ImageURL,
			&event.Latitude, &event.Longitude, &event.StartAt, &event.EndAt,
			&event.AuthorID, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning joined event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating joined events: %w", err)
	}
	return events, nil
}
