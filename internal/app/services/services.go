// Package services holds the business logic between the HTTP controllers
// and the repositories.
//
// Services defined in this package:
// - AuthService: registration, login and credential upgrades
// - UserService: profile management, points and account deletion
// - EventService: event creation and viewport listing with the box cache
// - ParticipationService: proximity-gated check-ins with the point reward
// - CommentService: event comment threads
// - SearchService: keyword, date and radius search
package services
