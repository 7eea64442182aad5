// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/go-mentorship-backend/docs"
	"github.com/tbourn/go-mentorship-backend/internal/cache"
	"github.com/tbourn/go-mentorship-backend/internal/config"
	"github.com/tbourn/go-mentorship-backend/internal/http/handlers"
	"github.com/tbourn/go-mentorship-backend/internal/http/middleware"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
	"github.com/tbourn/go-mentorship-backend/internal/services"
)

// idempotencyShim adapts the repository idempotency functions to both the
// handlers.IdempotencyStore interface and the middleware lookup.
type idempotencyShim struct {
	db  *gorm.DB
	ttl time.Duration
}

// Lookup proxies repo.GetIdempotency, folding not-found into found=false.
func (s idempotencyShim) Lookup(ctx context.Context, actor, scope, key string, now time.Time) (int64, bool, error) {
	rec, err := repo.GetIdempotency(ctx, s.db, actor, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return rec.ResourceID, true, nil
}

// Remember proxies repo.CreateIdempotency. A concurrent duplicate is not an
// error: the first writer's record stands.
func (s idempotencyShim) Remember(ctx context.Context, actor, scope, key string, resourceID int64, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.db, actor, scope, key, resourceID, status, s.ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// exists is the middleware.IdempotencyLookup view of the shim.
func (s idempotencyShim) exists(ctx context.Context, actor, scope, key string, now time.Time) (bool, error) {
	_, found, err := s.Lookup(ctx, actor, scope, key, now)
	return found, err
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*. loader may be nil, in which
// case subject listings always read the store.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Actor: resolve X-Chat-ID before anything keys on it
//  4. RedactingLogger: structured logs with PII scrubbing
//  5. Recovery: capture panics after logger
//  6. Body size limiter
//  7. Metrics
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per chat/IP, bypass on replay)
//  10. CORS, security headers and gzip
func RegisterRoutes(r *gin.Engine, db *gorm.DB, loader *cache.Loader, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Acting chat
	r.Use(middleware.Actor())

	// 4) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
		MaskHeaders: []string{
			"X-API-Key",
		},
	}))

	// 5) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 6) Global body size limit (1 MiB)
	r.Use(limitBody(1 << 20))

	// 7) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 8) Idempotency validation (before rate limiting)
	idem := idempotencyShim{db: db, ttl: cfg.IdempotencyTTL}
	r.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{
			MaxLen: 200,
		},
		idem.exists,
	))

	// 9) Token-bucket rate limiter per chat/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByActorOrIP())
	r.Use(rl.Handler())

	// 10) CORS posture (safe defaults: allow all if none configured)
	allowHeaders := []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderChatID, middleware.HeaderIdempotencyKey}
	exposeHeaders := []string{"X-Request-ID", "Content-Length", middleware.HeaderIdempotencyReplayed}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     allowHeaders,
			ExposeHeaders:    exposeHeaders,
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		NoStore:      false,
		EnablePolicy: true,
	}))

	// Compress JSON listings; /metrics negotiates its own encoding.
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/cache
	catalog := services.NewCatalogService(db, loader)
	work := services.NewWorkService(db, catalog, cfg.RejectDecrementsLoad)
	h := handlers.New(handlers.Services{
		Catalog:     catalog,
		Party:       services.NewPartyService(db, catalog, work),
		Work:        work,
		Ideas:       services.NewIdeaService(db, catalog),
		Support:     services.NewSupportService(db),
		Census:      &services.CensusService{DB: db},
		Idempotency: idem,
	})

	// Public API
	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	api := groupWithPrefix(r, apiBase)
	{
		// Subjects
		api.POST("/subjects", h.AddSubject)
		api.GET("/subjects", h.ListSubjects)
		api.GET("/subjects/suggest", h.SuggestSubjects)
		api.POST("/subjects/:id/archive", h.ArchiveSubject)
		api.POST("/subjects/:id/unarchive", h.UnarchiveSubject)
		api.DELETE("/subjects/:id", h.RemoveSubject)

		// Mentors
		api.POST("/mentors", h.AddMentor)
		api.GET("/mentors", h.ListMentors)
		api.GET("/mentors/suggest", h.SuggestMentors)
		api.GET("/mentors/:id", h.GetMentor)
		api.DELETE("/mentors/:id", h.RemoveMentor)
		api.POST("/mentors/:id/subjects", h.AddMentorSubjects)
		api.DELETE("/mentors/:id/subjects", h.RemoveMentorSubjects)
		api.POST("/mentors/:id/archive", h.ArchiveMentor)
		api.POST("/mentors/:id/unarchive", h.UnarchiveMentor)
		api.POST("/mentors/:id/students/:student_id/reject", h.RejectStudent)

		// Students
		api.GET("/students", h.ListStudents)
		api.GET("/students/:id", h.GetStudent)
		api.DELETE("/students/:id", h.RemoveStudent)

		// Works
		api.POST("/works", h.CreateWork)
		api.GET("/works/:id", h.GetWork)
		api.PUT("/works/:id", h.ModifyWork)
		api.DELETE("/works/:id", h.RemoveWork)
		api.POST("/works/:id/accept", h.AcceptWork)
		api.POST("/works/:id/readmit", h.ReadmitWork)

		// Ideas
		api.POST("/ideas", h.CreateIdea)
		api.GET("/ideas", h.ListIdeas)
		api.DELETE("/ideas/:id", h.RemoveIdea)

		// Support
		api.POST("/support/requests", h.FileSupportRequest)
		api.GET("/support/requests", h.ListSupportRequests)
		api.POST("/support/requests/:id/assign", h.AssignSupportRequest)
		api.DELETE("/support/requests/:id", h.ResolveSupportRequest)
		api.POST("/support/agents", h.AddSupportAgent)
		api.GET("/support/agents", h.ListSupportAgents)
		api.DELETE("/support/agents/:id", h.RemoveSupportAgent)

		// Admin
		api.POST("/admins", h.AddAdmin)
		api.GET("/admins", h.ListAdmins)
		api.DELETE("/admins/:chat_id", h.RemoveAdmin)
		api.GET("/whois/:chat_id", h.WhoIs)
		api.GET("/stats", h.Stats)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
