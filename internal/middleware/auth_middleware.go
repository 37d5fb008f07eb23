package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/koheitakada/machimeet/internal/app/models/dto"
	"github.com/koheitakada/machimeet/internal/pkg/auth"
)

// SessionCookieName is the httpOnly cookie carrying the session token.
const SessionCookieName = "token"

// ContextUserIDKey is where the authenticated user id lands in the gin context.
const ContextUserIDKey = "userID"

// AuthMiddleware authenticates requests from the session cookie
type AuthMiddleware struct {
	jwtService *auth.JWTService
	// devUserID, when non-zero, authenticates cookie-less requests as this
	// user. Only wired up outside release mode.
	devUserID int64
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, devUserID int64) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		devUserID:  devUserID,
	}
}

// RequireAuth validates the session and puts the user id into the context.
// The token normally travels in the session cookie; a Bearer header works
// too for API clients.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			if m.devUserID != 0 {
				c.Set(ContextUserIDKey, m.devUserID)
				c.Next()
				return
			}
			abortUnauthorized(c, "Authentication required")
			return
		}

		userID, err := m.jwtService.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, "Session expired")
			} else {
				abortUnauthorized(c, "Invalid session")
			}
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

func abortUnauthorized(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	errorDetail = errorDetail.WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

// UserIDFromContext reads the authenticated user id that RequireAuth stored
func UserIDFromContext(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}

// ParseDevUserID parses the DEV_ASSUME_USER_ID setting; empty means disabled
func ParseDevUserID(raw string) int64 {
	if raw == "" {
		return 0
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}
