package routes

import (
	"net/http"
	"time"

	"cinephoria/internal/availability"
	"cinephoria/internal/bookings"
	"cinephoria/internal/catalog"
	"cinephoria/internal/holds"
	"cinephoria/internal/payments"
	"cinephoria/internal/shared/config"
	"cinephoria/internal/shared/database"
	"cinephoria/pkg/cache"
	"cinephoria/pkg/metrics"

	_ "cinephoria/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Router holds all route dependencies. Every component shares the one *gorm.DB pool.
type Router struct {
	config    *config.Config
	db        *database.DB
	metrics   *metrics.Metrics
	gatherer  prometheus.Gatherer
	gateway   payments.Gateway
	publisher bookings.Publisher

	catalogService catalog.Service
	holdRepo       holds.Repository
	bookingRepo    bookings.Repository
	sweeper        *holds.Sweeper
}

// NewRouter creates a new router instance and builds the shared components
func NewRouter(cfg *config.Config, db *database.DB, m *metrics.Metrics, gatherer prometheus.Gatherer,
	gateway payments.Gateway, publisher bookings.Publisher) *Router {
	r := &Router{
		config:    cfg,
		db:        db,
		metrics:   m,
		gatherer:  gatherer,
		gateway:   gateway,
		publisher: publisher,
	}

	pg := db.PostgreSQL
	r.catalogService = catalog.NewService(catalog.NewRepository(pg), cache.NewService(db.Redis), cfg.Redis.CatalogTTL)
	r.holdRepo = holds.NewRepository(pg)
	r.bookingRepo = bookings.NewRepository(pg)
	r.sweeper = holds.NewSweeper(r.holdRepo, nil, m)

	return r
}

// Sweeper is shared with the background sweep job
func (r *Router) Sweeper() *holds.Sweeper {
	return r.sweeper
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(r.config.GetAPIBasePath())
	{
		r.setupCatalogRoutes(api)
		r.setupAvailabilityRoutes(api)
		r.setupCartRoutes(api)
		bookingService := r.setupBookingRoutes(api)
		r.setupPaymentRoutes(api, bookingService)
	}
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinephoria-reservations",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinephoria-reservations",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":           "operational",
			"api_version":      r.config.APIVersion,
			"payment_provider": r.config.Payment.Provider,
			"redis_cache":      r.db.Redis != nil,
			"timestamp":        time.Now(),
		})
	})

	if r.gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}
}

func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	catalog.SetupCatalogRoutes(rg, catalog.NewController(r.catalogService))
}

func (r *Router) setupAvailabilityRoutes(rg *gin.RouterGroup) {
	service := availability.NewService(r.catalogService, r.sweeper, r.holdRepo, r.bookingRepo, nil)
	availability.SetupAvailabilityRoutes(rg, availability.NewController(service))
}

func (r *Router) setupCartRoutes(rg *gin.RouterGroup) {
	service := holds.NewService(r.holdRepo, r.catalogService, r.sweeper,
		holds.WithTTL(r.config.Reservation.HoldTTL),
		holds.WithMetrics(r.metrics),
	)
	holds.SetupCartRoutes(rg, holds.NewController(service))
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) bookings.Service {
	service := bookings.NewService(r.bookingRepo, r.catalogService,
		bookings.WithPublisher(r.publisher),
		bookings.WithMetrics(r.metrics),
		bookings.WithTicketBaseURL(r.config.PublicBaseURL+r.config.GetAPIBasePath()),
	)
	bookings.SetupBookingRoutes(rg, bookings.NewController(service))
	return service
}

func (r *Router) setupPaymentRoutes(rg *gin.RouterGroup, finalizer payments.Finalizer) {
	service := payments.NewService(r.gateway, finalizer, r.config.Payment.Currency)
	payments.SetupPaymentRoutes(rg, payments.NewController(service))
}
