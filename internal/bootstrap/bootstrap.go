// Package bootstrap wires configuration, database, repositories, services
// and controllers together for the server.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/koheitakada/machimeet/internal/app/controllers"
	appMigrations "github.com/koheitakada/machimeet/internal/app/migrations"
	appRepos "github.com/koheitakada/machimeet/internal/app/repositories"
	appRoutes "github.com/koheitakada/machimeet/internal/app/routes"
	appServices "github.com/koheitakada/machimeet/internal/app/services"
	"github.com/koheitakada/machimeet/internal/config"
	"github.com/koheitakada/machimeet/internal/db"
	appMiddleware "github.com/koheitakada/machimeet/internal/middleware"
	pkgAuth "github.com/koheitakada/machimeet/internal/pkg/auth"
	"github.com/koheitakada/machimeet/internal/pkg/filestorage"
	"github.com/koheitakada/machimeet/internal/pkg/helpers"
	"github.com/koheitakada/machimeet/internal/pkg/logger"
	"github.com/koheitakada/machimeet/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	UserService          *appServices.UserService
	EventService         *appServices.EventService
	ParticipationService *appServices.ParticipationService
	CommentService       *appServices.CommentService
	SearchService        *appServices.SearchService
	AuthController       *appControllers.AuthController
	EventController      *appControllers.EventController
	UserController       *appControllers.UserController
	SearchController     *appControllers.SearchController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	FileStorage          *filestorage.LocalStorage
	Logger               zerolog.Logger
	// DevLoginEnabled is true only outside release mode with a
	// configured fallback user.
	DevLoginEnabled bool
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the demo data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := database.Pool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		database.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		database.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if !cfg.IsRelease() {
		if err := seed.CreateDemoData(context.Background(), database.Pool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to seed demo data, proceeding anyway...")
		}
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	baseURL := "http://localhost:" + cfg.Server.Port
	fileStorageBaseURL := baseURL + "/uploads"
	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 168*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})

	hasher := pkgAuth.NewPasswordHasher(cfg.Auth.PasswordHashing)

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, hasher, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.User, database, hasher, lgr)
	deps.EventService = appServices.NewEventService(deps.Repos.Event, deps.Repos.Participant, deps.FileStorage, lgr)
	deps.ParticipationService = appServices.NewParticipationService(
		deps.Repos.Event, deps.Repos.Participant, deps.Repos.User, database, lgr)
	deps.CommentService = appServices.NewCommentService(deps.Repos.Comment, deps.Repos.Event, lgr)
	deps.SearchService = appServices.NewSearchService(deps.Repos.Event, lgr)

	devUserID := appMiddleware.ParseDevUserID(cfg.Auth.DevFallbackUserID)
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, devUserID)

	cookieSecure := cfg.IsRelease()
	devLoginEnabled := devUserID != 0 && !cfg.IsRelease()
	deps.DevLoginEnabled = devLoginEnabled
	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.JWTService, devLoginEnabled, devUserID, cookieSecure, lgr)
	deps.EventController = appControllers.NewEventController(deps.EventService, deps.ParticipationService, deps.CommentService, lgr)
	deps.UserController = appControllers.NewUserController(deps.UserService, deps.EventService, cookieSecure, lgr)
	deps.SearchController = appControllers.NewSearchController(deps.SearchService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EventController,
		deps.UserController,
		deps.SearchController,
		deps.AuthMiddleware,
		deps.DevLoginEnabled,
	)

	return router
}
