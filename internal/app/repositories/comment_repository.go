package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
)

// Comment page sizing for ListByEvent.
const (
	DefaultCommentPageSize = 20
	MaxCommentPageSize     = 50
)

// CommentRepository handles database operations for event comments
type CommentRepository struct {
	db *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a comment and returns it with the author name attached
func (r *CommentRepository) Create(ctx context.Context, comment *models.EventComment) (*models.EventComment, error) {
	err := r.db.QueryRow(ctx, `
		INSERT INTO event_comments (event_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		comment.EventID, helpers.GetNullInt64(comment.AuthorID), comment.Body).Scan(
		&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("error creating comment: %w", err)
	}
	if comment.AuthorID != nil {
		var username string
		if err := r.db.QueryRow(ctx, `SELECT username FROM users WHERE id = $1`,
			*comment.AuthorID).Scan(&username); err == nil {
			comment.Author = &models.User{ID: *comment.AuthorID, Username: username}
		}
	}
	return comment, nil
}

// ListByEvent returns the newest comments on an event with author names.
// take is clamped to [1, MaxCommentPageSize], defaulting when non-positive.
func (r *CommentRepository) ListByEvent(ctx context.Context, eventID int64, take int) ([]*models.EventComment, error) {
	if take <= 0 {
		take = DefaultCommentPageSize
	}
	if take > MaxCommentPageSize {
		take = MaxCommentPageSize
	}
	rows, err := r.db.Query(ctx, `
		SELECT c.id, c.event_id, c.author_id, c.body, c.created_at, u.username
		FROM event_comments c
		LEFT JOIN users u ON u.id = c.author_id
		WHERE c.event_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2`,
		eventID, take)
	if err != nil {
		return nil, fmt.Errorf("error querying comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.EventComment
	for rows.Next() {
		comment := &models.EventComment{}
		var authorName *string
		if err := rows.Scan(
			&comment.ID, &comment.EventID, &comment.AuthorID,
			&comment.Body, &comment.CreatedAt, &authorName); err != nil {
			return nil, fmt.Errorf("error scanning comment: %w", err)
		}
		if comment.AuthorID != nil && authorName != nil {
			comment.Author = &models.User{ID: *comment.AuthorID, Username: *authorName}
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
