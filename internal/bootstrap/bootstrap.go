package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/campusleave/leavedesk/internal/app/controllers"
	appMigrations "github.com/campusleave/leavedesk/internal/app/migrations"
	appRepos "github.com/campusleave/leavedesk/internal/app/repositories"
	appRoutes "github.com/campusleave/leavedesk/internal/app/routes"
	appServices "github.com/campusleave/leavedesk/internal/app/services"
	"github.com/campusleave/leavedesk/internal/config"
	"github.com/campusleave/leavedesk/internal/db"
	appMiddleware "github.com/campusleave/leavedesk/internal/middleware"
	pkgAuth "github.com/campusleave/leavedesk/internal/pkg/auth"
	"github.com/campusleave/leavedesk/internal/pkg/cache"
	"github.com/campusleave/leavedesk/internal/pkg/helpers"
	"github.com/campusleave/leavedesk/internal/pkg/logger"
	"github.com/campusleave/leavedesk/internal/seed"
)

// DefaultConfigPath is used when CONFIG_PATH is unset
const DefaultConfigPath = "configs/config.yaml"

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService   appServices.AuthService
	LeaveService  appServices.LeaveService
	AdminService  appServices.AdminService
	CampusService appServices.CampusService
	ReportService appServices.ReportService

	Handlers       appRoutes.Handlers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Cache          cache.Cache
	Logger         zerolog.Logger

	closers []func() error
}

// Close releases resources opened by BuildDependencies
func (d *Dependencies) Close() {
	for _, c := range d.closers {
		if err := c(); err != nil {
			d.Logger.Warn().Err(err).Msg("Error releasing dependency")
		}
	}
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := config.GetEnv("CONFIG_PATH", DefaultConfigPath)
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	lgr := logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	if len(cfg.EnvOverrides) > 0 {
		lgr.Info().Strs("keys", cfg.EnvOverrides).Msg("Configuration overridden from environment")
	}
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	migrationsDir := config.GetEnv("MIGRATIONS_DIR", "migrations")
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrations"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	repos := appRepos.NewRepositories(database)
	admin := seed.AdminAccount{
		Name:     cfg.Seed.AdminName,
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
	}
	if err := seed.CreateDefaultData(ctx, repos.UserRepository, repos.CampusRepository, admin, pkgAuth.HashPassword, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// setupCache connects to Redis when enabled. A failed connection degrades
// to no caching rather than failing startup.
func setupCache(cfg *config.Config, lgr zerolog.Logger) (cache.Cache, func() error) {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis disabled, analytics are not cached")
		return cache.Nop{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rc, err := cache.NewRedisCache(ctx, cache.Options{
		Addr:      cfg.Redis.Addr,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		KeyPrefix: cfg.Redis.KeyPrefix,
	})
	if err != nil {
		lgr.Warn().Err(err).Msg("Redis unavailable, analytics are not cached")
		return cache.Nop{}, nil
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis analytics cache connected")
	return rc, rc.Close
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)

	var closeCache func() error
	deps.Cache, closeCache = setupCache(cfg, lgr)
	if closeCache != nil {
		deps.closers = append(deps.closers, closeCache)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.ActivityLogRepository,
		deps.JWTService,
		logger.Component("auth"),
	)
	deps.LeaveService = appServices.NewLeaveService(
		deps.Repos.LeaveRepository,
		deps.Repos.UserRepository,
		deps.Repos.ActivityLogRepository,
		logger.Component("leave"),
	)
	deps.AdminService = appServices.NewAdminService(
		deps.Repos.UserRepository,
		deps.Repos.LeaveRepository,
		deps.Repos.ActivityLogRepository,
		pkgAuth.HashPassword,
		logger.Component("admin"),
	)
	deps.CampusService = appServices.NewCampusService(
		deps.Repos.CampusRepository,
		deps.Repos.ActivityLogRepository,
		logger.Component("campus"),
	)
	deps.ReportService = appServices.NewReportService(
		deps.Repos.ReportRepository,
		deps.Cache,
		appServices.ReportConfig{
			DefaultMonths:    cfg.Analytics.DefaultMonths,
			DefaultReasons:   cfg.Analytics.DefaultReasons,
			AnomalyThreshold: cfg.Analytics.AnomalyThreshold,
			CacheTTL:         helpers.ParseDuration(cfg.Analytics.CacheTTL, 5*time.Minute),
		},
		logger.Component("report"),
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Handlers = appRoutes.Handlers{
		Auth:   appControllers.NewAuthController(deps.AuthService, logger.Component("auth")),
		Leave:  appControllers.NewLeaveController(deps.LeaveService, logger.Component("leave")),
		Admin:  appControllers.NewAdminController(deps.AdminService, deps.LeaveService, logger.Component("admin")),
		Campus: appControllers.NewCampusController(deps.CampusService),
		Report: appControllers.NewReportController(deps.ReportService),
		Health: appControllers.NewHealthController(database),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), appMiddleware.Recovery())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Handlers, deps.AuthMiddleware)

	return router, nil
}
