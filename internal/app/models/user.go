package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	Username  string    `json:"username" db:"username" example:"alice"`
	Password  string    `json:"-" db:"password"` // stored credential, bcrypt hash or legacy plaintext
	Email     *string   `json:"email,omitempty" db:"email" example:"alice@example.com"`
	Points    int       `json:"points" db:"points" example:"30"` // reward balance, never negative
	CreatedAt time.Time `json:"createdAt" db:"created_at" example:"2025-01-01T10:00:00Z"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" example:"2025-01-02T15:30:00Z"`
}
