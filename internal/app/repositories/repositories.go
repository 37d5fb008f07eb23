package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	User        *UserRepository
	Event       *EventRepository
	Participant *ParticipantRepository
	Comment     *CommentRepository
}

// NewRepositories creates all repositories sharing one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		User:        NewUserRepository(db),
		Event:       NewEventRepository(db),
		Participant: NewParticipantRepository(db),
		Comment:     NewCommentRepository(db),
	}
}
