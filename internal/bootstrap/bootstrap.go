// Package bootstrap assembles the application pieces at startup.
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

	appControllers "github.com/rahulm/classtrack/internal/app/controllers"
	appMigrations "github.com/rahulm/classtrack/internal/app/migrations"
	appRepos "github.com/rahulm/classtrack/internal/app/repositories"
	appRoutes "github.com/rahulm/classtrack/internal/app/routes"
	appServices "github.com/rahulm/classtrack/internal/app/services"
	"github.com/rahulm/classtrack/internal/config"
	"github.com/rahulm/classtrack/internal/db"
	appMiddleware "github.com/rahulm/classtrack/internal/middleware"
	pkgAuth "github.com/rahulm/classtrack/internal/pkg/auth"
	"github.com/rahulm/classtrack/internal/pkg/logger"
	"github.com/rahulm/classtrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService       appServices.AuthService
	StudentService    appServices.StudentService
	IngestService     appServices.IngestService
	AuthController    *appControllers.AuthController
	StudentController *appControllers.StudentController
	ImportController  *appControllers.ImportController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
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
// seeds the bootstrap admin login.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultAdmin(context.Background(), dbPool, cfg.Auth.AdminPassword, lgr); err != nil {
		// An unreachable admin login is recoverable; keep the server up.
		lgr.Error().Err(err).Msg("Failed to seed admin login, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExp(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		database,
		deps.JWTService,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		database,
		lgr,
	)
	deps.IngestService = appServices.NewIngestService(
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		database,
		cfg.Auth.DefaultStudentPassword,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, lgr)
	deps.ImportController = appControllers.NewImportController(deps.IngestService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.ImportController,
		deps.AuthMiddleware,
	)

	return router
}
