// Package controllers handles HTTP request handling
package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/app/services"
	"github.com/koheitakada/machimeet/internal/middleware"
	"github.com/koheitakada/machimeet/internal/pkg/apperrors"
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

// AuthController handles registration, login and session probes
type AuthController struct {
	authService *services.AuthService
	jwtService  *auth.JWTService
	// devLoginEnabled exposes the test-session endpoint; never on in release.
	devLoginEnabled bool
	// devUserID is the fallback account dev-login uses when the request
	// does not name one.
	devUserID    int64
	cookieSecure bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, jwtService *auth.JWTService, devLoginEnabled bool, devUserID int64, cookieSecure bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:     authService,
		jwtService:      jwtService,
		devLoginEnabled: devLoginEnabled,
		devUserID:       devUserID,
		cookieSecure:    cookieSecure,
		logger:          logger,
	}
}

// Register handles account creation
// @Summary Register a new user
// @Description Creates an account and opens a session for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} dto.APIResponse{data=dto.LoginResponse} "Account created and logged in"
// @Failure 400 {object} dto.ErrorResponse "Invalid username or password format"
// @Failure 409 {object} dto.ErrorResponse "Username or email already exists"
// @Router /user_register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password, req.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.openSession(ctx, user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Points:   user.Points,
	}))
}

// Login opens a session
// @Summary Log in
// @Description Verifies the credentials and sets the session cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Logged in"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.HandleValidationError(err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	user, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.openSession(ctx, user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Points:   user.Points,
	}))
}

// Logout closes the session
// @Summary Log out
// @Description Clears the session cookie. Always succeeds.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse}
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie(middleware.SessionCookieName, "", -1, "/", "", c.cookieSecure, true)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SuccessResponse{OK: true}))
}

// Me reports who the session belongs to
// @Summary Current session
// @Description Returns the authenticated user's identity and points.
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.ErrorResponse "No valid session"
// @Router /me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrUnauthenticated)
		return
	}

	user, err := c.authService.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.MeResponse{
		ID:       user.ID,
		Username: user.Username,
		Points:   user.Points,
	}))
}

// DevLogin issues a session for an arbitrary user without credentials.
// Registered only outside release mode; useful for local frontend work.
func (c *AuthController) DevLogin(ctx *gin.Context) {
	if !c.devLoginEnabled {
		ctx.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Not found")))
		return
	}

	var req dto.DevLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err != io.EOF {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "userId must be a positive integer")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	userID := req.UserID
	if userID <= 0 {
		userID = c.devUserID
	}

	user, err := c.authService.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	if err := c.openSession(ctx, user.ID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Warn().Int64("userID", user.ID).Msg("Dev login session issued")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{
		ID:       user.ID,
		Username: user.Username,
		Points:   user.Points,
	}))
}

func (c *AuthController) openSession(ctx *gin.Context, userID int64) error {
	token, err := c.jwtService.GenerateToken(userID)
	if err != nil {
		return err
	}
	ctx.SetCookie(middleware.SessionCookieName, token, c.jwtService.TokenExpirySeconds(), "/", "", c.cookieSecure, true)
	return nil
}
