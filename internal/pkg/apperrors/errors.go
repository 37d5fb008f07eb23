package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	ErrConflict         = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already exists")

	// Event errors
	ErrEventNotFound = errors.New("event not found")
)

// Check-in errors
var (
	ErrInvalidLocation = errors.New("current location could not be determined")
	ErrOwnerForbidden  = errors.New("the organizer cannot join their own event")
	ErrTooFar          = errors.New("too far from the venue")
	ErrAlreadyJoined   = errors.New("already joined")
)

// Points errors
var (
	ErrInsufficientPoints = errors.New("insufficient points")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// NewTooFarError builds the check-in distance failure carrying the computed
// distance in whole meters for user feedback.
func NewTooFarError(distanceMeters int) *CustomError {
	return &CustomError{
		Err:     ErrTooFar,
		Message: "too far from the venue",
		Details: map[string]interface{}{"distance": distanceMeters},
	}
}

// NewInsufficientPointsError reports a rejected debit together with the
// caller's current balance.
func NewInsufficientPointsError(currentPoints int) *CustomError {
	return &CustomError{
		Err:     ErrInsufficientPoints,
		Message: "insufficient points",
		Details: map[string]interface{}{"currentPoints": currentPoints},
	}
}
