package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
)

// BoundingBoxLimit caps viewport queries so a zoomed-out map cannot pull
// the whole table.
const BoundingBoxLimit = 500

// EventSearchFilter carries the SQL-side portion of a search. Radius and
// distance sorting happen in the service after rows come back.
type EventSearchFilter struct {
	Keyword  string
	DateFrom *time.Time
	DateTo   *time.Time
	HidePast bool
	Today    time.Time
}

// EventRepository handles database operations for events
type EventRepository struct {
	db           *pgxpool.Pool
	queryBuilder sq.StatementBuilderType
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		db:           db,
		queryBuilder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create inserts a new event and returns its id
func (r *EventRepository) Create(ctx context.Context, event *models.Event) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO events (title, description, image_url, latitude, longitude, start_at, end_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		event.Title, helpers.GetNullString(event.Description), helpers.GetNullString(event.ImageURL),
		event.Latitude, event.Longitude, event.StartAt, event.EndAt,
		helpers.GetNullInt64(event.AuthorID)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("error creating event: %w", err)
	}
	return id, nil
}

// GetByID retrieves an event with its author attached when one still exists
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	var authorID *int64
	var authorName *string
	err := r.db.QueryRow(ctx, `
		SELECT e.id, e.title, e.description, e.image_url, e.latitude, e.longitude,
		       e.start_at, e.end_at, e.author_id, e.created_at, u.username
		FROM events e
		LEFT JOIN users u ON u.id = e.author_id
		WHERE e.id = $1`,
		id).Scan(
		&event.ID, &event.Title, &event.Description, &event.ImageURL,
		&event.Latitude, &event.Longitude, &event.StartAt, &event.EndAt,
		&authorID, &event.CreatedAt, &authorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	event.AuthorID = authorID
	if authorID != nil && authorName != nil {
		event.Author = &models.User{ID: *authorID, Username: *authorName}
	}
	return event, nil
}

// ListInBoundingBox returns events whose pin falls inside the viewport,
// newest first, capped at BoundingBoxLimit rows.
func (r *EventRepository) ListInBoundingBox(ctx context.Context, minLat, minLng, maxLat, maxLng float64) ([]*models.Event, error) {
	query := r.queryBuilder.
		Select("id", "title", "description", "image_url", "latitude", "longitude",
			"start_at", "end_at", "author_id", "created_at").
		From("events").
		Where(sq.And{
			sq.GtOrEq{"latitude": minLat},
			sq.LtOrEq{"latitude": maxLat},
			sq.GtOrEq{"longitude": minLng},
			sq.LtOrEq{"longitude": maxLng},
		}).
		OrderBy("created_at DESC").
		Limit(BoundingBoxLimit)

	return r.queryEvents(ctx, query)
}

// ListByAuthor returns the events a user created, newest first
func (r *EventRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*models.Event, error) {
	query := r.queryBuilder.
		Select("id", "title", "description", "image_url", "latitude", "longitude",
			"start_at", "end_at", "author_id", "created_at").
		From("events").
		Where(sq.Eq{"author_id": authorID}).
		OrderBy("created_at DESC")

	return r.queryEvents(ctx, query)
}

// Search applies the SQL-expressible filters: keyword against the title,
// date-range overlap against the event interval, and the hide-past cutoff.
func (r *EventRepository) Search(ctx context.Context, filter EventSearchFilter) ([]*models.Event, error) {
	return r.queryEvents(ctx, r.buildSearchQuery(filter))
}

func (r *EventRepository) buildSearchQuery(filter EventSearchFilter) sq.SelectBuilder {
	query := r.queryBuilder.
		Select("id", "title", "description", "image_url", "latitude", "longitude",
			"start_at", "end_at", "author_id", "created_at").
		From("events")

	if filter.Keyword != "" {
		query = query.Where(sq.ILike{"title": "%" + filter.Keyword + "%"})
	}
	// An event matches a date range when the intervals overlap, not only
	// when it starts inside the range. Edges are inclusive.
	if filter.DateFrom != nil {
		query = query.Where(sq.GtOrEq{"end_at": *filter.DateFrom})
	}
	if filter.DateTo != nil {
		query = query.Where(sq.LtOrEq{"start_at": *filter.DateTo})
	}
	if filter.HidePast {
		query = query.Where(sq.GtOrEq{"end_at": filter.Today})
	}
	return query.OrderBy("start_at ASC")
}

func (r *EventRepository) queryEvents(ctx context.Context, query sq.SelectBuilder) ([]*models.Event, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building event query: %w", err)
	}

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying events: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(
			&event.ID, &event.Title, &event.Description, &event.ImageURL,
			&event.Latitude, &event.Longitude, &event.StartAt, &event.EndAt,
			&event.AuthorID, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}
