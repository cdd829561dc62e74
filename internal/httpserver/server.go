package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/PratikDhanave/lodging-intake-service/internal/address"
	"github.com/PratikDhanave/lodging-intake-service/internal/handlers"
	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
)

// ReadinessCheck is a dependency checked by /ready.
type ReadinessCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

// Deps are the collaborators of the router.
type Deps struct {
	Logger *zap.Logger
	Helper *address.Helper
	Intake *intake.Service

	// MaxMemory bounds the in-memory part of a parsed multipart form.
	MaxMemory int64
	// MaxBody bounds the size of a posted listing.
	MaxBody int64
	// UploadDir is served under /uploads when uploads are stored locally.
	UploadDir string
	Checks    []ReadinessCheck
}

// NewRouter wires the public endpoints.
// Service: /health, /ready, /metrics
// Form: /, /app.js, /style.css, /uploads/*
// API: /api/listings, /api/listings/preview, /api/postal-codes/:code,
// /api/cities/:name/postal-codes
func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the configured backing services are reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		for _, check := range d.Checks {
			if err := check.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", zap.String("check", check.Name), zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status": "not_ready",
					"check":  check.Name,
					"error":  err.Error(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	handlers.RegisterMetricRoutes(r)
	registerWebRoutes(r)

	if d.UploadDir != "" {
		r.StaticFS("/uploads", gin.Dir(d.UploadDir, false))
	}

	maxMemory := d.MaxMemory
	if maxMemory <= 0 {
		maxMemory = 32 << 20
	}

	maxBody := d.MaxBody
	if maxBody <= 0 {
		maxBody = 64 << 20
	}

	handlers.RegisterListingRoutes(r, d.Intake, maxMemory, maxBody, logger)
	handlers.RegisterLookupRoutes(r, d.Helper)

	return r
}

// NewServer wraps handler with CORS for the given origins.
func NewServer(addr string, handler http.Handler, origins []string) *http.Server {
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})

	return &http.Server{
		Addr:              addr,
		Handler:           corsHandler(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
