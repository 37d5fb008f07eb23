package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/koheitakada/machimeet/internal/app/controllers"
	"github.com/koheitakada/machimeet/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	userController *controllers.UserController,
	searchController *controllers.SearchController,
	authMiddleware *middleware.AuthMiddleware,
	devLoginEnabled bool,
) {
	api := router.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// --- Public routes ---
	api.POST("/login", authController.Login)
	api.POST("/user_register", authController.Register)
	api.POST("/logout", authController.Logout)
	if devLoginEnabled {
		api.POST("/dev-login", authController.DevLogin)
	}

	api.GET("/events", eventController.ListInViewport)
	api.GET("/events/:id", eventController.GetDetail)
	api.GET("/events/:id/comments", eventController.ListComments)
	api.POST("/searchs", searchController.Search)

	// --- Authenticated routes ---
	authenticated := api.Group("")
	authenticated.Use(authMiddleware.RequireAuth())
	{
		authenticated.GET("/me", authController.Me)

		authenticated.POST("/events", eventController.Create)
		authenticated.POST("/events/:id/participate", eventController.Participate)
		authenticated.POST("/events/:id/comments", eventController.CreateComment)

		users := authenticated.Group("/users")
		{
			users.GET("/me", userController.GetProfile)
			users.PATCH("/me", userController.UpdateProfile)
			users.DELETE("/me", userController.DeleteAccount)
			users.POST("/change-password", userController.ChangePassword)
			users.POST("/change-email", userController.ChangeEmail)
		}

		me := authenticated.Group("/me")
		{
			me.GET("/posts", userController.ListMyEvents)
			me.GET("/joined", userController.ListJoinedEvents)
			me.POST("/use-points", userController.UsePoints)
		}
	}
}
