package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cinephoria/api/routes"
	"cinephoria/internal/bookings"
	"cinephoria/internal/holds"
	"cinephoria/internal/notifications"
	"cinephoria/internal/payments"
	"cinephoria/internal/shared/config"
	"cinephoria/internal/shared/database"
	"cinephoria/internal/shared/middleware"
	"cinephoria/pkg/logger"
	"cinephoria/pkg/metrics"
	"cinephoria/pkg/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := run(); err != nil {
		logger.GetDefault().Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

// run hands startup and serve errors back to main after its deferred cleanups ran.
func run() error {
	appLogger := logger.GetDefault()

	if err := godotenv.Load(); err != nil {
		if os.Getenv("GIN_MODE") == "release" || os.Getenv("DOCKER_CONTAINER") == "true" {
			appLogger.Info("Production environment: using container environment variables")
		} else {
			appLogger.Info("No .env file found, using system environment variables")
		}
	} else {
		appLogger.Info("Development environment: loaded .env file")
	}

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.New(registry)

	var rateLimiter *ratelimit.RateLimiter
	if cfg.RateLimit.Enabled && db.Redis != nil {
		rateLimiter = ratelimit.NewRateLimiter(db.Redis, &cfg.RateLimit)
		appLogger.Info("Rate limiter initialized",
			slog.Duration("window", cfg.RateLimit.WindowDuration),
			slog.Int("default_requests", cfg.RateLimit.DefaultRequests),
		)
	} else {
		appLogger.Info("Rate limiting disabled")
	}

	gateway, err := payments.NewGateway(cfg.Payment)
	if err != nil {
		return fmt.Errorf("configure payment provider: %w", err)
	}

	var publisher bookings.Publisher = notifications.NewLogPublisher()
	if cfg.Kafka.Enabled {
		producer, err := notifications.NewBookingEventProducer(cfg.Kafka)
		if err != nil {
			appLogger.Error("Failed to initialize Kafka producer, booking events go to the log only", slog.Any("error", err))
		} else {
			publisher = producer
			defer func() {
				if err := producer.Close(); err != nil {
					appLogger.Error("Error closing Kafka producer", slog.Any("error", err))
				}
			}()
		}
	}

	appRouter := routes.NewRouter(cfg, db, appMetrics, registry, gateway, publisher)
	engine := setupRouter(cfg, appRouter, appMetrics, rateLimiter)

	if cfg.Reservation.SweepInterval > 0 {
		scheduler, err := holds.StartSweepScheduler(appRouter.Sweeper(), cfg.Reservation.SweepInterval)
		if err != nil {
			appLogger.Error("Failed to start hold sweep scheduler", slog.Any("error", err))
		} else {
			defer func() {
				if err := scheduler.Shutdown(); err != nil {
					appLogger.Error("Error stopping hold sweep scheduler", slog.Any("error", err))
				}
			}()
		}
	}

	srv := &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        engine,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		appLogger.Info("Server running",
			slog.String("address", cfg.GetServerAddress()),
			slog.String("health_check", fmt.Sprintf("http://localhost:%s/health", cfg.Port)),
			slog.String("version", Version),
			slog.String("commit", GitCommit),
			slog.String("built", BuildTime),
			slog.Bool("redis_cache", db.Redis != nil),
			slog.Bool("rate_limiting", rateLimiter != nil),
			slog.String("payment_provider", cfg.Payment.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve http: %w", err)
	case <-quit:
	}
	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	appLogger.Info("Server exited gracefully")
	return nil
}

func setupRouter(cfg *config.Config, appRouter *routes.Router, m *metrics.Metrics, rateLimiter *ratelimit.RateLimiter) *gin.Engine {
	engine := gin.New()
	appLogger := logger.GetDefault()

	engine.Use(middleware.RequestID(), RequestLoggerMiddleware(appLogger), gin.Recovery())
	engine.Use(m.Middleware())

	engine.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.GuestHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if rateLimiter != nil {
		engine.Use(ratelimit.Middleware(rateLimiter))
	}

	// every route sees the caller as user, guest, or anonymous
	engine.Use(middleware.ResolvePrincipal(cfg.JWT.Secret))

	appRouter.SetupRoutes(engine)
	return engine
}

func RequestLoggerMiddleware(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.LogHTTPRequest(c, time.Since(start))
	}
}
