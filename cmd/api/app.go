package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"homeradar-properties/internal/handlers"
	"homeradar-properties/internal/ingestion"
	"homeradar-properties/internal/middleware"
	"homeradar-properties/internal/repositories"
	"homeradar-properties/internal/services"
	"homeradar-properties/internal/transformers"
	"homeradar-properties/internal/validators"
	"homeradar-properties/pkg/cache"
	"homeradar-properties/pkg/config"
	"homeradar-properties/pkg/database"
	"homeradar-properties/pkg/logger"
	"homeradar-properties/pkg/metrics"
)

// App represents the application structure
type App struct {
	Config           *config.Config
	Router           *gin.Engine
	PropertyHandler  *handlers.PropertyHandler
	IngestionHandler *handlers.IngestionHandler
	UserHandler      *handlers.UserHandler
	RateLimiter      *middleware.RateLimiter
	Server           *http.Server
}

// Create and initialize a new App instance
func NewApp(cfg *config.Config) *App {
	app := &App{Config: cfg}

	// Initialize infrastructure
	app.initializeDatabase()
	app.initializeCache()
	app.initializeMetrics()
	app.initializeRateLimiter()

	// Initialize business logic
	app.initializeDependencies()

	// Initialize web layer
	app.initializeRouter()

	return app
}

// initialize the database connection
func (a *App) initializeDatabase() {
	if err := database.InitDB(a.Config); err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize database: %v", err)
		os.Exit(1)
	}
}

// initialize the Redis cache
func (a *App) initializeCache() {
	if err := cache.InitRedis(a.Config); err != nil {
		logger.GlobalLogger.Errorf("Failed to initialize Redis: %v", err)
		os.Exit(1)
	}
}

// initialize Prometheus metrics
func (a *App) initializeMetrics() {
	metrics.Init()
}

// initialize the rate limiter
func (a *App) initializeRateLimiter() {
	a.RateLimiter = middleware.NewRateLimiter(rate.Limit(100/60.0), 10)
	go a.RateLimiter.Cleanup()
}

// initialize all dependencies
func (a *App) initializeDependencies() {
	// repositories
	propertyRepo := repositories.NewPropertyRepository()
	childRepo := repositories.NewChildRecordRepository()
	propertyCache := repositories.NewPropertyCache()
	userRepo := repositories.NewUserRepository()

	// transformers
	addrTrans := transformers.NewAddressTransformer()
	listingTrans := transformers.NewListingTransformer(addrTrans)

	// validators
	propertyValidator := validators.NewPropertyValidator()
	userValidator := validators.NewUserValidator()

	// services
	propertyService := services.NewPropertyService(propertyRepo, childRepo, propertyCache, addrTrans, propertyValidator, a.Config.Cache.PropertyTTL)
	searchService := services.NewGeoSearchService(propertyRepo, propertyValidator)
	userService := services.NewUserService(userRepo, userValidator, a.Config.JWT.Secret)

	// ingestion
	pipeline := ingestion.NewPipeline(propertyRepo, propertyService, listingTrans)

	// handlers
	a.PropertyHandler = handlers.NewPropertyHandler(propertyService, searchService)
	a.IngestionHandler = handlers.NewIngestionHandler(pipeline)
	a.UserHandler = handlers.NewUserHandler(userService)
}

// set up the Gin router with middleware and routes
func (a *App) initializeRouter() {
	a.Router = gin.New()
	a.setupMiddleware()
	a.setupRoutes()
}

// cleanup operations
func (a *App) cleanup() {
	database.CloseDB()
	cache.CloseRedis()
}
