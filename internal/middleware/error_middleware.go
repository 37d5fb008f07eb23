package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

// HandleAPIError translates service errors into HTTP responses. Controllers
// call it instead of mapping statuses themselves so the same error always
// produces the same response.
func HandleAPIError(c *gin.Context, err error) {
	var customErr *apperrors.CustomError
	var details interface{}
	message := ""
	if errors.As(err, &customErr) {
		message = customErr.Message
		if customErr.Details != nil {
			details = customErr.Details
		}
	}

	respond := func(status int, code dto.ErrorCode, fallback string) {
		if message == "" {
			message = fallback
		}
		errorDetail := dto.NewErrorDetail(code, message)
		if details != nil {
			errorDetail = errorDetail.WithDetails(details)
		}
		c.JSON(status, dto.APIResponse{Error: errorDetail})
	}

	switch {
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		respond(http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid username or password")
	case errors.Is(err, apperrors.ErrUnauthenticated):
		respond(http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrInvalidLocation):
		respond(http.StatusBadRequest, dto.ErrorCodeInvalidLocation, "Current location could not be determined")
	case errors.Is(err, apperrors.ErrOwnerForbidden):
		respond(http.StatusForbidden, dto.ErrorCodeOwnerForbidden, "The organizer cannot join their own event")
	case errors.Is(err, apperrors.ErrTooFar):
		respond(http.StatusForbidden, dto.ErrorCodeTooFar, "Too far from the venue")
	case errors.Is(err, apperrors.ErrAlreadyJoined):
		respond(http.StatusConflict, dto.ErrorCodeAlreadyJoined, "Already joined this event")
	case errors.Is(err, apperrors.ErrInsufficientPoints):
		respond(http.StatusBadRequest, dto.ErrorCodeInsufficientPoints, "Insufficient points")
	case errors.Is(err, apperrors.ErrUsernameAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Username already exists")
	case errors.Is(err, apperrors.ErrEmailAlreadyExists):
		respond(http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists")
	case errors.Is(err, apperrors.ErrEventNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Event not found")
	case errors.Is(err, apperrors.ErrUserNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found")
	case errors.Is(err, apperrors.ErrResourceNotFound):
		respond(http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		respond(http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied")
	case errors.Is(err, apperrors.ErrValidationFailed), errors.Is(err, apperrors.ErrBadRequest):
		respond(http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed")
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled API error")
		respond(http.StatusInternalServerError, dto.ErrorCodeInternalServer, "Internal server error")
	}
}
