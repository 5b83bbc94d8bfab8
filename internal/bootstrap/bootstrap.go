package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/courseregistry/internal/app/controllers"
	appMigrations "github.com/yigit/courseregistry/internal/app/migrations"
	appRepos "github.com/yigit/courseregistry/internal/app/repositories"
	appRoutes "github.com/yigit/courseregistry/internal/app/routes"
	appServices "github.com/yigit/courseregistry/internal/app/services"
	"github.com/yigit/courseregistry/internal/config"
	"github.com/yigit/courseregistry/internal/db"
	appMiddleware "github.com/yigit/courseregistry/internal/middleware"
	pkgAuth "github.com/yigit/courseregistry/internal/pkg/auth"
	"github.com/yigit/courseregistry/internal/pkg/logger"
	"github.com/yigit/courseregistry/internal/pkg/metrics"
	"github.com/yigit/courseregistry/internal/pkg/validation"
	"github.com/yigit/courseregistry/internal/pkg/websocket"
	"github.com/yigit/courseregistry/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         appServices.AuthService
	CourseService       appServices.CourseService
	RegistrationService appServices.RegistrationService
	PrerequisiteService appServices.PrerequisiteService
	TimetableService    appServices.TimetableService
	ReportService       appServices.ReportService
	NotificationService appServices.NotificationService
	Controllers         appRoutes.Controllers
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	SessionService      *pkgAuth.SessionService
	Hub                 *websocket.Hub
	Relay               *websocket.Relay // nil without redis
	Metrics             *metrics.Metrics
	Logger              zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.FromSettings(cfg.Logging.Level, cfg.Logging.Format))

	lgr := logger.Get()
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
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

	lgr.Info().Msg("Running database migrations...")
	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		database.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	migrator := appMigrations.NewMigrator(database.Pool, logger.Component("migrator"))
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		err := seed.CreateDefaultData(ctx,
			appRepos.NewCourseRepository(database.Pool),
			appRepos.NewStudentRepository(database.Pool),
			appRepos.NewAdminRepository(database.Pool),
			seed.Options{AdminUsername: cfg.Seed.AdminUsername, AdminPassword: cfg.Seed.AdminPassword},
			logger.Component("seed"),
		)
		if err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return database, nil
}

// SetupRedis connects to redis when an address is configured. A nil client
// means notices are delivered to local sockets only.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis address not configured, seat notices stay on this instance")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established.")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisClient *redis.Client, lgr zerolog.Logger) *Dependencies {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database)
	deps.Metrics = metrics.New()

	deps.SessionService = pkgAuth.NewSessionService(pkgAuth.SessionConfig{
		SecretKey:   cfg.Session.Secret,
		TTL:         cfg.SessionTTL(),
		TokenIssuer: cfg.Session.Issuer,
	})

	// Seat-available notices
	deps.Hub = websocket.NewHub(logger.Component("hub"))
	var publisher appServices.NoticePublisher
	if redisClient != nil {
		deps.Relay = websocket.NewRelay(redisClient, cfg.Redis.Channel, deps.Hub, logger.Component("relay"))
		publisher = deps.Relay
	}
	deps.NotificationService = appServices.NewNotificationService(deps.Hub, publisher, deps.Metrics, logger.Component("notifications"))

	// Services
	courseRepo := deps.Repos.CourseRepository
	studentRepo := deps.Repos.StudentRepository
	txManager := deps.Repos.TxManager

	deps.AuthService = appServices.NewAuthService(studentRepo, deps.Repos.AdminRepository, deps.SessionService, logger.Component("auth"))
	deps.CourseService = appServices.NewCourseService(txManager, courseRepo, studentRepo, deps.NotificationService, logger.Component("courses"))
	deps.RegistrationService = appServices.NewRegistrationService(txManager, courseRepo, deps.NotificationService, deps.Metrics, logger.Component("registration"))
	deps.PrerequisiteService = appServices.NewPrerequisiteService(courseRepo, studentRepo, logger.Component("prerequisites"))
	deps.TimetableService = appServices.NewTimetableService(txManager, courseRepo, studentRepo, deps.Metrics, logger.Component("timetable"))
	deps.ReportService = appServices.NewReportService(courseRepo, studentRepo, logger.Component("reports"))

	adminCookie := cfg.Session.CookieName + "_admin"
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.SessionService, cfg.Session.CookieName, adminCookie)

	// Controllers
	cookies := appControllers.CookieSettings{
		StudentName: cfg.Session.CookieName,
		AdminName:   adminCookie,
		Secure:      cfg.Session.CookieSecure,
		TTL:         cfg.SessionTTL(),
	}
	deps.Controllers = appRoutes.Controllers{
		Auth:         appControllers.NewAuthController(deps.AuthService, cookies, logger.Component("auth")),
		Course:       appControllers.NewCourseController(deps.CourseService),
		Registration: appControllers.NewRegistrationController(deps.RegistrationService, deps.PrerequisiteService, deps.TimetableService),
		Admin:        appControllers.NewAdminController(deps.CourseService, deps.RegistrationService, deps.PrerequisiteService, deps.ReportService),
		Health:       appControllers.NewHealthController(database, logger.Component("health")),
		Notices:      websocket.NewHandler(deps.Hub, logger.Component("websocket")),
	}

	return deps
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := validation.RegisterBindings(); err != nil {
		return nil, fmt.Errorf("failed to register validation rules: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(logger.Component("http"), deps.Metrics))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware, deps.Metrics.Handler())

	return router, nil
}
