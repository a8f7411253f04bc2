/*
main.go - Application entry point

PURPOSE:
  Starts the PVF calculator API. Handles configuration, dependency
  injection, the optional refresh scheduler and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and PVF_* environment, then apply flags
  2. Build the feed source, the in-process cache and the calculator
  3. Refresh once (a failure is logged; the API answers 404 until a
     refresh succeeds)
  4. Run the HTTP server and the scheduler under one errgroup

COMMAND-LINE FLAGS:
  -port    HTTP server port (overrides PVF_PORT)
  -source  Feed URL or file path (overrides PVF_SOURCE_URL/PVF_SOURCE_FILE)
  -cache   memory | sqlite (overrides PVF_CACHE)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the cache

EXAMPLES:
  ./server -source=https://hr.example.com/employees
  PVF_CACHE=sqlite PVF_REFRESH_INTERVAL=24h ./server

SEE ALSO:
  - config/config.go: All PVF_* keys
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warp/pvf-engine/api"
	"github.com/warp/pvf-engine/config"
	"github.com/warp/pvf-engine/roster"
	"github.com/warp/pvf-engine/source"
	"github.com/warp/pvf-engine/store"
	"github.com/warp/pvf-engine/store/sqlite"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 30 * time.Second

func main() {
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid flags")
	}

	setupLogging(cfg.LogLevel)

	if err := run(rootCtx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func applyFlags(cfg *config.Config) {
	port := flag.Int("port", cfg.Port, "HTTP server port")
	src := flag.String("source", "", "employee feed URL or file path")
	cache := flag.String("cache", cfg.Cache, "roster cache: memory or sqlite")
	flag.Parse()

	cfg.Port = *port
	cfg.Cache = *cache
	cfg.SetSource(*src)
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("unknown log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func run(ctx context.Context, cfg config.Config) error {
	src, err := source.New(cfg)
	if err != nil {
		return fmt.Errorf("build source: %w", err)
	}

	cache, closeCache, err := newStore(cfg.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	calc, err := cfg.Calculator()
	if err != nil {
		return err
	}

	svc := roster.NewService(src, cache, calc, log.Logger)
	if _, err := svc.Refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("initial refresh failed; serving without a run")
	}

	router := api.NewRouter(api.NewHandler(svc), log.Logger.With().Str("component", "http").Logger())
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	group, gctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		log.Info().Int("port", cfg.Port).Str("cache", cfg.Cache).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return roster.NewScheduler(svc, cfg.RefreshInterval).Run(gctx)
	})

	group.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return group.Wait()
}

func newStore(kind string) (roster.Store, func(), error) {
	switch kind {
	case config.CacheSQLite:
		s, err := sqlite.New()
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite cache: %w", err)
		}
		return s, func() {
			if err := s.Close(); err != nil {
				log.Error().Err(err).Msg("close sqlite cache")
			}
		}, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}
