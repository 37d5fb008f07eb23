package models

import "time"

// EventComment is an append-only comment on an event. Comments have no
// edit or delete lifecycle; the author reference is nulled when the
// account is deleted.
type EventComment struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"eventId" db:"event_id"`
	AuthorID  *int64    `json:"authorId,omitempty" db:"author_id"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Related entities
	Author *User `json:"author,omitempty"`
}
