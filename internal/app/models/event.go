package models

import "time"

// Event represents an event pinned to map coordinates
type Event struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	ImageURL    *string   `json:"imageUrl,omitempty" db:"image_url"`
	Latitude    float64   `json:"latitude" db:"latitude"`
	Longitude   float64   `json:"longitude" db:"longitude"`
	StartAt     time.Time `json:"startAt" db:"start_at"`
	EndAt       time.Time `json:"endAt" db:"end_at"`
	AuthorID    *int64    `json:"authorId,omitempty" db:"author_id"` // null once the author account is deleted
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}

// EventParticipant is the persisted record of a successful check-in.
// (user_id, event_id) is the primary key; a user checks into an event at
// most once.
type EventParticipant struct {
	UserID    int64     `json:"userId" db:"user_id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Event *Event `json:"event,omitempty"`
}
