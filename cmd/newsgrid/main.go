package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/newsgrid/newsgrid/internal/config"
	"github.com/newsgrid/newsgrid/internal/homepage"
	"github.com/newsgrid/newsgrid/internal/resolver"
	"github.com/newsgrid/newsgrid/internal/server"
	"github.com/newsgrid/newsgrid/internal/store/postgres"
	redisstore "github.com/newsgrid/newsgrid/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("NEWSGRID_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("NEWSGRID_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Database.MaxConns < 0 || cfg.Database.MaxConns > math.MaxInt32 {
		return fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
	}

	// Connect to PostgreSQL.
	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
	if err != nil {
		return err
	}
	defer store.Close()

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Domain resolution cache, with a Redis purge relay when configured.
	resolverOpts := []resolver.Option{
		resolver.WithTTL(cfg.Cache.DomainTTL),
		resolver.WithDevFallback(cfg.Cache.DevFallback),
	}

	var bus *redisstore.InvalidationBus
	if cfg.Redis.Addr != "" {
		bus, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		defer bus.Close()
		resolverOpts = append(resolverOpts, resolver.WithBus(bus))
	} else {
		log.Warn().Msg("NEWSGRID_REDIS_ADDR is unset; cache purges stay local to this instance")
	}

	sites := resolver.NewService(store.Tenants(), store.Domains(), resolverOpts...)

	if bus != nil {
		purges, cleanup, listenErr := bus.Listen(ctx)
		if listenErr != nil {
			return listenErr
		}
		defer cleanup()
		go sites.ConsumeInvalidations(ctx, purges)
	}

	composer := homepage.NewComposer(store.Articles(), store.Categories(), store.Domains(), store.Pages(), store.Ads())

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, store, sites, composer)

	// Start server in background goroutine.
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}
