package dto

import "time"

// CreateEventRequest is the multipart form for posting an event. The image
// part is read separately from the form. The coordinates are pointers so
// that zero (equator, prime meridian) stays distinguishable from absent.
type CreateEventRequest struct {
	Title       string   `form:"title" binding:"required,max=100"`
	Description string   `form:"description" binding:"max=2000"`
	StartAt     string   `form:"startAt" binding:"required"`
	EndAt       string   `form:"endAt" binding:"required"`
	Latitude    *float64 `form:"latitude" binding:"required"`
	Longitude   *float64 `form:"longitude" binding:"required"`
}

// EventResponse is the standard event representation
type EventResponse struct {
	ID          int64     `json:"id" example:"1"`
	Title       string    `json:"title" example:"Marunouchi Running Fes"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	Latitude    float64   `json:"latitude" example:"35.681236"`
	Longitude   float64   `json:"longitude" example:"139.767125"`
	StartAt     time.Time `json:"startAt"`
	EndAt       time.Time `json:"endAt"`
	CreatedAt   time.Time `json:"createdAt"`
	// Distance from the search origin in kilometers, present only on
	// search results computed against a caller position.
	Distance *float64 `json:"distance,omitempty"`
}

// EventDetailResponse adds the denormalized author name
type EventDetailResponse struct {
	EventResponse
	AuthorName string `json:"authorName" example:"alice"`
}

// ParticipateRequest carries the claimed current location for a check-in.
// Pointers so a body without coordinates reads as no location rather
// than (0,0).
type ParticipateRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

// ParticipateResponse reports a successful check-in
type ParticipateResponse struct {
	OK       bool `json:"ok" example:"true"`
	Awarded  int  `json:"awarded" example:"10"`
	Distance int  `json:"distance" example:"1"` // meters, rounded
}

// CommentResponse is a single event comment with its author name
type CommentResponse struct {
	ID         int64     `json:"id" example:"1"`
	Body       string    `json:"body" example:"Looking forward to it!"`
	AuthorName string    `json:"authorName" example:"bob"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateCommentRequest is the comment posting payload
type CreateCommentRequest struct {
	Body string `json:"body" binding:"required,max=1000"`
}

// CommentListResponse wraps an event's comments
type CommentListResponse struct {
	Comments []CommentResponse `json:"comments"`
}
