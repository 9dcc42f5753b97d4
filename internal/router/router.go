package router

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/unireg/registrar/internal/config"
	"github.com/unireg/registrar/internal/handler"
	"github.com/unireg/registrar/internal/middleware"
	"github.com/unireg/registrar/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Catalog      *handler.CatalogHandler
	Registration *handler.RegistrationHandler
	Report       *handler.ReportHandler
	Health       *handler.HealthHandler
	Feed         *handler.FeedHandler // nil when the feed is disabled
	Metrics      http.Handler
}

// Deps carries the cross-cutting collaborators of the router.
type Deps struct {
	Responder *response.Responder
	Tokens    middleware.TokenValidator // nil leaves staff routes open
	Observer  middleware.HTTPObserver
	Log       zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work started by middlewares.
func SetupRouter(ctx context.Context, handlers *Handlers, deps Deps, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if origins := cfg.Origins(); len(origins) > 0 {
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(
		response.RequestIDMiddleware(deps.Log),
		middleware.RequestLogger(),
		middleware.Metrics(deps.Observer),
		middleware.Compress(),
	)

	router.GET("/health", handlers.Health.Health)
	router.GET("/metrics", gin.WrapH(handlers.Metrics))

	// ─── Frontend ──────────────────────────────────────────────────────
	if cfg.StaticDir != "" {
		static := router.Group("/static", middleware.CacheControl(3600))
		static.Static("/", cfg.StaticDir)
		router.GET("/", func(c *gin.Context) {
			c.File(filepath.Join(cfg.StaticDir, "index.html"))
		})
	}

	resp := deps.Responder

	// Rate limiter for the write routes, when configured.
	writeGuard := gin.HandlerFunc(func(c *gin.Context) { c.Next() })
	if cfg.RateLimitPerMinute > 0 {
		writeGuard = middleware.NewRateLimiter(ctx, cfg.RateLimitPerMinute, time.Minute, resp).Middleware()
	}

	api := router.Group("/api", middleware.NoStore())

	// ─── 1. Student-facing routes (open) ───────────────────────────────
	{
		api.GET("/students", handlers.Catalog.ListStudents)
		api.GET("/instructors", handlers.Catalog.ListInstructors)
		api.GET("/student/:id", handlers.Catalog.GetStudent)
		api.GET("/instructor/:id", handlers.Catalog.GetInstructor)
		api.GET("/student/:id/registrations", handlers.Registration.StudentRegistrations)
		api.GET("/available-courses/:id", handlers.Catalog.AvailableCourses)

		api.POST("/register-course", writeGuard, handlers.Registration.RegisterCourse)
		api.POST("/drop-course", writeGuard, handlers.Registration.DropCourse)
		api.POST("/check-prerequisite", writeGuard, handlers.Catalog.CheckPrerequisite)
	}

	// ─── 2. Staff routes (bearer token when JWT_SECRET is set) ─────────
	staff := api.Group("", middleware.RequireStaff(deps.Tokens, resp))
	{
		staff.GET("/instructor/:id/registrations",
			middleware.RequireOwnInstructor("id", resp),
			handlers.Registration.InstructorRegistrations)
		staff.GET("/all-registrations", handlers.Registration.AllRegistrations)
		staff.POST("/update-grade", writeGuard, handlers.Registration.UpdateGrade)
		staff.GET("/audit-log", handlers.Report.AuditLog)

		query := staff.Group("/query")
		query.GET("/join", handlers.Report.QueryJoin)
		query.GET("/nested", handlers.Report.QueryNested)
		query.GET("/aggregate", handlers.Report.QueryAggregate)
	}

	// ─── 3. Registration feed ──────────────────────────────────────────
	if handlers.Feed != nil {
		router.GET("/ws/registrations", handlers.Feed.Stream)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.Result{
			Success: false,
			Message: "Route not found",
			Code:    response.ErrNotFound,
		})
	})

	return router
}
