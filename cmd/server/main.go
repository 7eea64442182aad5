// Command server runs the mentorship backend: the subject catalog, party
// directory, work lifecycle engine and support queue behind a JSON API that
// a conversational front end calls on behalf of its chats.
//
// Start-up order: .env → config → logger → store (+ migrations) → tracing →
// cache → seed → HTTP server. SIGINT/SIGTERM drain in-flight requests for
// SHUTDOWN_TIMEOUT before the store is closed.
//
// @title                      Mentorship Backend API
// @version                    1.0
// @description                Matches students' work requests to mentors and tracks the request → accepted → readmitted → closed lifecycle.
// @BasePath                   /api/v1
// @securityDefinitions.apikey ChatID
// @in                         header
// @name                       X-Chat-ID
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tbourn/go-mentorship-backend/internal/cache"
	"github.com/tbourn/go-mentorship-backend/internal/config"
	httpapi "github.com/tbourn/go-mentorship-backend/internal/http"
	"github.com/tbourn/go-mentorship-backend/internal/observability"
	"github.com/tbourn/go-mentorship-backend/internal/repo"
	"github.com/tbourn/go-mentorship-backend/internal/seed"
	"github.com/tbourn/go-mentorship-backend/internal/services"
	"github.com/tbourn/go-mentorship-backend/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version string

const idempotencySweep = 10 * time.Minute

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("fatal error")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 1) Configuration
	if err := config.LoadDotEnv(); err != nil {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2) Logging
	setupLogger(cfg)
	ver := sysutil.FirstNonEmpty(version, os.Getenv("APP_VERSION"), "dev")
	ctx = log.Logger.WithContext(ctx)
	log.Info().
		Str("version", ver).
		Str("db_driver", cfg.DB.Driver).
		Bool("cache", cfg.CacheEnabled()).
		Msg("starting mentorship backend")

	// 3) Store
	db, err := repo.Open(cfg.DB.Driver, cfg.DB.Path, cfg.DB.DSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := repo.Close(db); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()
	if err := repo.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	// 4) Tracing
	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, ver)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			log.Warn().Err(err).Msg("otel shutdown")
		}
	}()
	if cfg.OTEL.Enabled {
		if err := repo.EnableTracing(db); err != nil {
			return fmt.Errorf("store tracing: %w", err)
		}
	}

	// 5) Cache (optional)
	loader, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	// 6) Bootstrap data
	if cfg.SeedPath != "" {
		if err := applySeed(ctx, db, loader, cfg); err != nil {
			return err
		}
	}

	// 7) HTTP
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, db, loader, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("base_path", cfg.APIBasePath).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		purgeIdempotency(gctx, db)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Dur("timeout", cfg.ShutdownTimeout).Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}

func setupLogger(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	sysutil.SetLogLevel(cfg.LogLevel)
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    sysutil.IsTruthy(os.Getenv("NO_COLOR")),
		})
		zerolog.DefaultContextLogger = &log.Logger
		return
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.OTEL.ServiceName).Logger()
	zerolog.DefaultContextLogger = &log.Logger
}

// openCache connects to Redis when REDIS_ADDR is set. An unreachable Redis
// is logged and the server runs uncached.
func openCache(ctx context.Context, cfg config.Config) (*cache.Loader, func(), error) {
	noop := func() {}
	if !cfg.CacheEnabled() {
		return nil, noop, nil
	}
	store := cache.NewRedis(&redis.Options{
		Addr:     cfg.Cache.Addr,
		Password: cfg.Cache.Password,
		DB:       cfg.Cache.DB,
	}, "mentorship:")

	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := store.Ping(pctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Cache.Addr).Msg("redis unavailable, running without cache")
		_ = store.Close()
		return nil, noop, nil
	}

	loader := &cache.Loader{
		Store: store,
		TTL:   cfg.Cache.TTL,
		OnError: func(op string, err error) {
			log.Warn().Err(err).Str("op", op).Msg("cache error")
		},
	}
	return loader, func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("close redis")
		}
	}, nil
}

func applySeed(ctx context.Context, db *gorm.DB, loader *cache.Loader, cfg config.Config) error {
	f, err := seed.LoadFile(cfg.SeedPath)
	if err != nil {
		return err
	}
	catalog := services.NewCatalogService(db, loader)
	party := services.NewPartyService(db, catalog, services.NewWorkService(db, catalog, cfg.RejectDecrementsLoad))
	_, err = seed.Apply(ctx, f, catalog, party)
	return err
}

// purgeIdempotency deletes expired idempotency records until ctx ends.
func purgeIdempotency(ctx context.Context, db *gorm.DB) {
	t := time.NewTicker(idempotencySweep)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := repo.PurgeExpiredIdempotency(ctx, db, now.UTC())
			if err != nil {
				log.Warn().Err(err).Msg("purge idempotency")
				continue
			}
			if n > 0 {
				log.Debug().Int64("deleted", n).Msg("purged idempotency records")
			}
		}
	}
}
