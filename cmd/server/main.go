package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	artworkapp "github.com/componentadmin/backend/internal/application/artwork"
	componentapp "github.com/componentadmin/backend/internal/application/component"
	"github.com/componentadmin/backend/internal/infrastructure/cache"
	"github.com/componentadmin/backend/internal/infrastructure/config"
	"github.com/componentadmin/backend/internal/infrastructure/logger"
	"github.com/componentadmin/backend/internal/infrastructure/shopify"
	"github.com/componentadmin/backend/internal/infrastructure/telemetry"
	"github.com/componentadmin/backend/internal/interfaces/http/handler"
	"github.com/componentadmin/backend/internal/interfaces/http/middleware"
	"github.com/componentadmin/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Component Admin Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Vendor platform client. Missing credentials do not block startup;
	// every vendor call then fails fast with a configuration error.
	vendorClient := shopify.NewClient(cfg.Vendor, nil, log)
	if !vendorClient.Configured() {
		log.Warn("Vendor platform credentials not configured; vendor calls will be rejected")
	}

	// Code index cache (Redis with in-memory fallback)
	codeIndexFactory := cache.NewCodeIndexFactory(cfg.Redis, cache.WithLogger(log))
	codeIndex, err := codeIndexFactory.CreateIndex()
	if err != nil {
		log.Fatal("Failed to create code index", zap.Error(err))
	}

	// Initialize application services
	componentService := componentapp.NewService(vendorClient, codeIndex)
	artworkService := artworkapp.NewService(vendorClient, vendorClient, cfg.Vendor.MaxUploadSize)

	// Initialize HTTP handlers
	componentHandler := handler.NewComponentHandler(componentService)
	fileHandler := handler.NewFileHandler(artworkService)
	systemHandler := handler.NewSystemHandler(vendorClient.Configured)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing - Create request spans
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		Enabled:     cfg.Telemetry.Enabled,
		ServiceName: cfg.Telemetry.ServiceName,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit. Must stay above the staged upload cap so multipart
	// uploads are rejected by the upload size check, not the body limiter.
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/healthz", healthHandler(vendorClient))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Catalog domain (component records)
	catalogRoutes := router.NewDomainGroup("catalog", "/catalog")
	catalogRoutes.POST("/components", componentHandler.Create)
	catalogRoutes.GET("/components", componentHandler.List)
	catalogRoutes.GET("/components/:id", componentHandler.GetByID)
	catalogRoutes.GET("/components/code/:code", componentHandler.GetByCode)
	catalogRoutes.PUT("/components/:id", componentHandler.Update)
	catalogRoutes.PUT("/components/:id/code", componentHandler.UpdateCode)
	catalogRoutes.PUT("/components/:id/metafields", componentHandler.UpdateMetafields)
	catalogRoutes.DELETE("/components/:id/metafields/:key", componentHandler.DeleteMetafield)
	catalogRoutes.PUT("/components/:id/price", componentHandler.UpdatePrice)
	catalogRoutes.PUT("/components/:id/price-bands", componentHandler.UpdatePriceBands)
	catalogRoutes.POST("/components/:id/price-bands/apply", componentHandler.ApplyPriceBands)

	// Artwork domain (vendor file uploads)
	artworkRoutes := router.NewDomainGroup("artwork", "/artwork")
	artworkRoutes.POST("/files", fileHandler.Upload)
	artworkRoutes.GET("/files", fileHandler.List)
	artworkRoutes.DELETE("/files/:id", fileHandler.Delete)
	artworkRoutes.GET("/files/:id/usage", fileHandler.Usage)
	artworkRoutes.POST("/files/suggest-name", fileHandler.SuggestName)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	r.Register(catalogRoutes).
		Register(artworkRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()
	log.Info("API routes registered",
		zap.Int("catalog", catalogRoutes.RouteCount()),
		zap.Int("artwork", artworkRoutes.RouteCount()),
		zap.Int("system", systemRoutes.RouteCount()),
	)

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	// Release index resources (Redis connection or the in-memory
	// cleanup goroutine) once no requests can reach them.
	if closer, ok := codeIndex.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			log.Error("Error closing code index", zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports process liveness plus the vendor configuration
// state. A missing vendor token does not make the process unhealthy; it
// is surfaced so operators can see why vendor calls are rejected.
func healthHandler(vendorClient *shopify.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendor := "configured"
		if !vendorClient.Configured() {
			vendor = "not_configured"
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"vendor": vendor,
		})
	}
}
