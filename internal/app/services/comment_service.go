package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

const maxCommentLength = 1000

// commentStore is the slice of the comment repository the service needs.
type commentStore interface {
	Create(ctx context.Context, comment *models.EventComment) (*models.EventComment, error)
	ListByEvent(ctx context.Context, eventID int64, take int) ([]*models.EventComment, error)
}

// CommentService handles event comments
type CommentService struct {
	commentRepo commentStore
	eventRepo   eventGetter
	logger      zerolog.Logger
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo commentStore, eventRepo eventGetter, logger zerolog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		logger:      logger,
	}
}

// List returns the newest comments on an event
func (s *CommentService) List(ctx context.Context, eventID int64, take int) ([]*models.EventComment, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByEvent(ctx, eventID, take)
}

// Create posts a comment on an event
func (s *CommentService) Create(ctx context.Context, eventID, authorID int64, body string) (*models.EventComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "comment cannot be empty")
	}
	if len(body) > maxCommentLength {
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "comment is too long")
	}

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	return s.commentRepo.Create(ctx, &models.EventComment{
		EventID:  eventID,
		AuthorID: &authorID,
		Body:     body,
	})
}
