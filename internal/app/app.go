package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/culinaryai/culinaryai/internal/catalog"
	"github.com/culinaryai/culinaryai/internal/config"
	"github.com/culinaryai/culinaryai/internal/database"
	"github.com/culinaryai/culinaryai/internal/engine"
	"github.com/culinaryai/culinaryai/internal/handlers"
	"github.com/culinaryai/culinaryai/internal/middleware"
	"github.com/culinaryai/culinaryai/internal/services"
	"github.com/culinaryai/culinaryai/internal/validation"
	"github.com/culinaryai/culinaryai/pkg/models"
)

type App struct {
	config   *config.Config
	logger   *logrus.Logger
	db       *database.Database
	engine   *engine.Engine
	handlers *handlers.Handlers
	router   *gin.Engine
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	// Initialize backend connections (both optional)
	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	// Load the initial catalog and build the recommendation models
	store, err := loadCatalog(cfg, db, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	app.engine = engine.New(store, cfg.Engine, app.logger)

	// Initialize services
	authService := services.NewAuthService(cfg, app.logger)
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize schema validator: %w", err)
	}

	// Initialize handlers
	app.handlers = handlers.New(app.logger, cfg, app.engine, db, authService, validator)

	// Setup router
	app.setupRouter(authService)

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Logger() *logrus.Logger {
	return a.logger
}

// CatalogSize reports how many meals the engine currently serves.
func (a *App) CatalogSize() int {
	return a.engine.CatalogSize()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing backend connections")
		return err
	}

	return nil
}

// loadCatalog reads the initial meal catalog from MongoDB when attached,
// otherwise from the configured CSV file. A missing CSV is not fatal: the
// service starts with an empty catalog and datasets can be loaded over the
// API.
func loadCatalog(cfg *config.Config, db *database.Database, logger *logrus.Logger) (*catalog.Store, error) {
	var records []models.MealRecord
	var err error

	if db.Dishes != nil {
		records, err = catalog.NewMongoSource(db.Dishes, logger).Load(context.Background())
		if err != nil {
			return nil, err
		}
	} else {
		path := filepath.Join(cfg.Catalog.DataDir, cfg.Catalog.CSVFile)
		records, err = catalog.LoadCSV(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.WithField("path", path).Warn("Catalog CSV not found, starting with an empty catalog")
			records = nil
		} else if err != nil {
			return nil, err
		}
	}

	return catalog.NewStore(records, cfg.Catalog.FestivalDishes)
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter(authService *services.AuthService) {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.Metrics())
	router.Use(middleware.Cache(a.db.Redis, middleware.CacheConfig{
		TTL:       a.config.Redis.CacheTTL,
		KeyPrefix: "culinaryai",
	}, a.logger))

	// Health check endpoint (no auth required)
	router.GET("/health", a.handlers.Health.Check)

	// Prometheus metrics endpoint (no auth required)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Token minting endpoint (no auth required)
	router.POST("/auth/token", a.handlers.Auth.Token)

	// API routes
	api := router.Group("/api/v1")
	{
		if a.config.Auth.Enabled {
			api.Use(middleware.Auth(authService, a.logger))
		}

		// Recommendation routes
		recommendations := api.Group("/recommendations")
		{
			recommendations.POST("", a.handlers.Recommendation.Personalized)
			recommendations.POST("/occasion", a.handlers.Recommendation.Occasion)
			recommendations.POST("/similar", a.handlers.Recommendation.Similar)
			recommendations.GET("/time/:timeOfDay", a.handlers.Recommendation.ByTime)
			recommendations.GET("/tags", a.handlers.Recommendation.ByTags)
		}

		// Meal catalog routes
		meals := api.Group("/meals")
		{
			meals.GET("", a.handlers.Meal.List)
			meals.GET("/:id", a.handlers.Meal.Get)
		}

		// Dataset routes
		datasets := api.Group("/datasets")
		{
			datasets.GET("", a.handlers.Dataset.List)
			datasets.POST("/records", a.handlers.Dataset.AddRecords)
			datasets.POST("/:name/load", a.handlers.Dataset.Load)
		}

		// Admin routes
		admin := api.Group("/admin")
		{
			admin.POST("/catalog/reload", a.handlers.Dataset.Reload)
		}
	}

	a.router = router
}
