package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/services"
	"github.com/koheitakada/machimeet/internal/middleware"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
)

// UserController handles profile, points and account operations
type UserController struct {
	userService  *services.UserService
	eventService *services.EventService
	cookieSecure bool
	logger       zerolog.Logger
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService, eventService *services.EventService, cookieSecure bool, logger zerolog.Logger) *UserController {
	return &UserController{
		userService:  userService,
		eventService: eventService,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// GetProfile returns the caller's profile
// @Summary Get my profile
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UserProfileResponse}
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /users/me [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	user, err := c.userService.GetProfile(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}))
}

// UpdateProfile renames the caller's account
// @Summary Rename my account
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UpdateUsernameRequest true "New username"
// @Success 200 {object} dto.APIResponse{data=dto.UserProfileResponse}
// @Failure 400 {object} dto.ErrorResponse "Username fails the format policy"
// @Failure 409 {object} dto.ErrorResponse "Username already taken"
// @Router /users/me [patch]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.UpdateUsernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.userService.UpdateUsername(ctx.Request.Context(), userID, req.Username)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UserProfileResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Points:    user.Points,
		CreatedAt: user.CreatedAt,
	}))
}

// DeleteAccount removes the caller's account
// @Summary Delete my account
// @Description Deletes the account and its participations. Authored events and comments stay, detached from the author. The session is closed.
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /users/me [delete]
func (c *UserController) DeleteAccount(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	if err := c.userService.DeleteAccount(ctx.Request.Context(), userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.cookieSecure, true)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{OK: true}))
}

// ChangePassword rotates the caller's password
// @Summary Change my password
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ChangePasswordRequest true "Current and new password"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "New password fails the policy or confirmation mismatch"
// @Failure 401 {object} dto.ErrorResponse "Current password is wrong"
// @Router /users/change-password [post]
func (c *UserController) ChangePassword(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if req.NewPassword != req.ConfirmPassword {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Password confirmation does not match")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.ChangePassword(ctx.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{OK: true}))
}

// ChangeEmail updates the caller's email address
// @Summary Change my email
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.ChangeEmailRequest true "New email address"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid email format"
// @Failure 409 {object} dto.ErrorResponse "Email already in use"
// @Router /users/change-email [post]
func (c *UserController) ChangeEmail(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.ChangeEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || req.Address() == "" {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "email is required")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	if err := c.userService.ChangeEmail(ctx.Request.Context(), userID, req.Address()); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{OK: true}))
}

// UsePoints spends reward points
// @Summary Spend my points
// @Description Debits the given amount when the balance covers it. On an insufficient balance the error carries the current balance.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UsePointsRequest true "Amount to spend"
// @Success 200 {object} dto.APIResponse{data=dto.UsePointsResponse}
// @Failure 400 {object} dto.ErrorResponse "Non-positive amount or insufficient balance"
// @Router /me/use-points [post]
func (c *UserController) UsePoints(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	var req dto.UsePointsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	remaining, err := c.userService.UsePoints(ctx.Request.Context(), userID, req.Points)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.UsePointsResponse{
		OK:              true,
		UsedPoints:      req.Points,
		RemainingPoints: remaining,
	}))
}

// ListMyEvents returns the events the caller created
// @Summary List events I posted
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /me/posts [get]
func (c *UserController) ListMyEvents(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	events, err := c.eventService.ListAuthored(ctx.Request.Context(), userID)
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

// ListJoinedEvents returns the events the caller checked in to
// @Summary List events I joined
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /me/joined [get]
func (c *UserController) ListJoinedEvents(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	events, err := c.eventService.ListJoined(ctx.Request.Context(), userID)
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
