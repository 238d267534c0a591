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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/storefront/catalog-api/internal/api"
	"github.com/storefront/catalog-api/internal/core/ports"
	"github.com/storefront/catalog-api/internal/core/service"
	"github.com/storefront/catalog-api/internal/infrastructure/config"
	redisstore "github.com/storefront/catalog-api/internal/infrastructure/db/redis"
	"github.com/storefront/catalog-api/internal/infrastructure/messaging"
	"github.com/storefront/catalog-api/internal/infrastructure/queue"
	"github.com/storefront/catalog-api/pkg/logger"
)

// @title                       Catalog API
// @version                     1.0
// @description                 Product catalog with JWT accounts.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "catalog-api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "catalog-api",
		Env:     cfg.Env,
	})

	// --- Stores ---
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	// Lockout is optional: without Redis, sign-in works but failures are not counted.
	var lockout ports.LockoutStore
	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, sign-in lockout disabled")
	} else {
		defer rdb.Close()
		st.checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		lockout = redisstore.NewLockoutStore(rdb, cfg.Lockout.MaxAttempts, cfg.Lockout.Duration)
	}

	// --- Events ---
	var publisher ports.EventPublisher
	if len(cfg.Events.KafkaBrokers) > 0 {
		kp := messaging.NewKafkaPublisher(cfg.Events.KafkaBrokers, cfg.Events.KafkaTopic)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Warn().Err(err).Msg("kafka writer close failed")
			}
		}()
		publisher = kp
	} else {
		log.Info().Msg("no kafka brokers configured, product events are logged only")
		publisher = messaging.NewLogPublisher(logger.Component("events"))
	}
	dispatcher := queue.NewDispatcher(cfg.Events.Workers, publisher, logger.Component("dispatcher"))

	// --- Services ---
	tokens := service.NewTokenService(service.TokenConfig{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		TTL:      cfg.JWT.TTL(),
	})
	accounts := service.NewAccountService(st.users, tokens, lockout, logger.Component("accounts"))
	products := service.NewProductService(st.products, dispatcher, logger.Component("products"))

	if cfg.Admin.Email != "" {
		if err := accounts.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Accounts:   accounts,
		Products:   products,
		Tokens:     tokens,
		Checks:     st.checks,
		Logger:     logger.Component("http"),
		RateLimit:  cfg.HTTP.RateLimitPerMinute,
		Production: cfg.Env == "production",
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The dispatcher outlives the server so events from in-flight requests
	// are still published.
	dispatchCtx, stopDispatch := context.WithCancel(context.Background())
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(dispatchCtx)
	})
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("store", cfg.Store.Driver).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		stopDispatch()
		return err
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("stopped")
	return nil
}
