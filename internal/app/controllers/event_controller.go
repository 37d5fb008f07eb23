package controllers

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models"
	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/services"
	"github.com/koheitakada/machimeet/internal/middleware"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
)

// EventController handles event listing, creation and check-ins
type EventController struct {
	eventService         *services.EventService
	participationService *services.ParticipationService
	commentService       *services.CommentService
	logger               zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(
	eventService *services.EventService,
	participationService *services.ParticipationService,
	commentService *services.CommentService,
	logger zerolog.Logger,
) *EventController {
	return &EventController{
		eventService:         eventService,
		participationService: participationService,
		commentService:       commentService,
		logger:               logger,
	}
}

// ListInViewport lists the events inside a map bounding box
// @Summary List events in a viewport
// @Description Returns the events whose pin falls inside the given bounding box, newest first, capped at 500.
// @Tags events
// @Produce json
// @Param minLat query number true "South edge"
// @Param minLng query number true "West edge"
// @Param maxLat query number true "North edge"
// @Param maxLng query number true "East edge"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Malformed bounding box"
// @Router /events [get]
func (c *EventController) ListInViewport(ctx *gin.Context) {
	box, err := parseBoundingBox(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	events, err := c.eventService.ListInViewport(ctx.Request.Context(), box[0], box[1], box[2], box[3])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, toEventResponse(event, nil))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(responses))
}

// Create posts a new event
// @Summary Create an event
// @Description Creates an event pinned to a coordinate. Accepts an optional image as multipart form data.
// @Tags events
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param startAt formData string true "Start (RFC 3339 or YYYY-MM-DD)"
// @Param endAt formData string true "End (RFC 3339 or YYYY-MM-DD)"
// @Param latitude formData number true "Pin latitude"
// @Param longitude formData number true "Pin longitude"
// @Param image formData file false "Event image"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid form data"
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBind(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	startAt, err := helpers.ParseEventTime(req.StartAt)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error()))
		return
	}
	endAt, err := helpers.ParseEventTime(req.EndAt)
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrValidationFailed, err.Error()))
		return
	}

	// Missing file is fine, the image is optional.
	image, _ := ctx.FormFile("image")

	event := &models.Event{
		Title:     req.Title,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		StartAt:   startAt,
		EndAt:     endAt,
		AuthorID:  &userID,
	}
	if req.Description != "" {
		event.Description = &req.Description
	}

	created, err := c.eventService.Create(ctx.Request.Context(), event, image)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(toEventResponse(created, nil)))
}

// GetDetail returns one event with its author name
// @Summary Get event detail
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventDetailResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) GetDetail(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	event, err := c.eventService.GetDetail(ctx.Request.Context(), eventID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	detail := dto.EventDetailResponse{EventResponse: toEventResponse(event, nil), AuthorName: "unknown"}
	if event.Author != nil {
		detail.AuthorName = event.Author.Username
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(detail))
}

// Participate checks the caller in to an event
// @Summary Check in to an event
// @Description Records attendance when the caller stands within 10 meters of the pin and credits 10 points.
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.ParticipateRequest true "Current location"
// @Success 200 {object} dto.APIResponse{data=dto.ParticipateResponse}
// @Failure 400 {object} dto.ErrorResponse "Location could not be determined"
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Failure 403 {object} dto.ErrorResponse "Organizer of this event, or too far away"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 409 {object} dto.ErrorResponse "Already joined"
// @Router /events/{id}/participate [post]
func (c *EventController) Participate(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	eventID, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.ParticipateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Lat == nil || req.Lng == nil {
		middleware.HandleAPIError(ctx, apperrors.ErrInvalidLocation)
		return
	}

	result, err := c.participationService.CheckIn(ctx.Request.Context(), userID, eventID, *req.Lat, *req.Lng)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ParticipateResponse{
		OK:       true,
		Awarded:  result.Awarded,
		Distance: int(math.Round(result.Distance)),
	}))
}

// ListComments returns the newest comments on an event
// @Summary List event comments
// @Tags events
// @Produce json
// @Param id path int true "Event ID"
// @Param take query int false "Page size, default 20, max 50"
// @Success 200 {object} dto.APIResponse{data=dto.CommentListResponse}
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/comments [get]
func (c *EventController) ListComments(ctx *gin.Context) {
	eventID, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	take, _ := strconv.Atoi(ctx.DefaultQuery("take", "0"))
	comments, err := c.commentService.List(ctx.Request.Context(), eventID, take)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		responses = append(responses, toCommentResponse(comment))
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.CommentListResponse{Comments: responses}))
}

// CreateComment posts a comment on an event
// @Summary Comment on an event
// @Tags events
// @Accept json
// @Produce json
// @Param id path int true "Event ID"
// @Param request body dto.CreateCommentRequest true "Comment body"
// @Success 201 {object} dto.APIResponse{data=dto.CommentResponse}
// @Failure 400 {object} dto.ErrorResponse "Empty or oversized body"
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id}/comments [post]
func (c *EventController) CreateComment(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	eventID, err := parseIDParam(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	var req dto.CreateCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	comment, err := c.commentService.Create(ctx.Request.Context(), eventID, userID, req.Body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(toCommentResponse(comment)))
}

func parseIDParam(ctx *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid event id")
	}
	return id, nil
}

func parseBoundingBox(ctx *gin.Context) ([4]float64, error) {
	var box [4]float64
	for i, name := range []string{"minLat", "minLng", "maxLat", "maxLng"} {
		value, err := strconv.ParseFloat(ctx.Query(name), 64)
		if err != nil {
			return box, apperrors.NewCustomError(apperrors.ErrValidationFailed, name+" is missing or not a number")
		}
		box[i] = value
	}
	return box, nil
}

func toEventResponse(event *models.Event, distanceKm *float64) dto.EventResponse {
	return dto.EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Description: event.Description,
		ImageURL:    event.ImageURL,
		Latitude:    event.Latitude,
		Longitude:   event.Longitude,
		StartAt:     event.StartAt,
		EndAt:       event.EndAt,
		CreatedAt:   event.CreatedAt,
		Distance:    distanceKm,
	}
}

func toCommentResponse(comment *models.EventComment) dto.CommentResponse {
	response := dto.CommentResponse{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
	if comment.Author != nil {
		response.AuthorName = comment.Author.Username
	}
	return response
}
