package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/angelmondragon/discswap-backend/api/routes"
	"github.com/angelmondragon/discswap-backend/internal/listings"
	"github.com/angelmondragon/discswap-backend/internal/search"
	"github.com/angelmondragon/discswap-backend/pkg/config"
	"github.com/angelmondragon/discswap-backend/pkg/db"
	"github.com/angelmondragon/discswap-backend/pkg/fuzzy"
	"github.com/angelmondragon/discswap-backend/pkg/logger"
	"github.com/angelmondragon/discswap-backend/pkg/metrics"
	"github.com/angelmondragon/discswap-backend/pkg/migrate"
	"github.com/angelmondragon/discswap-backend/pkg/redis"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

func main() {
	os.Exit(run())
}

func run() int {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		return 1
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			_ = dbClient.Close()
			return 1
		}
	} else {
		logg.Warn(ctx, "redis not configured, idempotency and rate limiting disabled")
	}

	defer func() {
		closeErr := dbClient.Close()
		if redisClient != nil {
			closeErr = multierr.Append(closeErr, redisClient.Close())
		}
		if closeErr != nil {
			logg.Error(context.Background(), "error releasing resources", closeErr)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		return 1
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scorer, err := fuzzy.ParseScorer(cfg.Search.Scorer)
	if err != nil {
		logg.Error(ctx, "invalid search scorer", err)
		return 1
	}

	repo := listings.NewRepository(dbClient.DB())
	listingsService, err := listings.NewService(listings.ServiceParams{
		Repo:             repo,
		Tx:               dbClient,
		PermissiveStatus: cfg.FeatureFlags.PermissiveStatus,
	})
	if err != nil {
		logg.Error(ctx, "failed to create listings service", err)
		return 1
	}

	searchService, err := search.NewService(search.ServiceParams{
		Listings:   repo,
		Scorer:     scorer,
		ScorerName: cfg.Search.Scorer,
		Metrics:    metrics.NewSearchMetrics(registry),
	})
	if err != nil {
		logg.Error(ctx, "failed to create search service", err)
		return 1
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": dbClient.Driver(),
		"scorer": cfg.Search.Scorer,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			metrics.NewHTTPMetrics(registry),
			listingsService,
			searchService,
		),
		ReadTimeout:  cfg.App.ReadTimeout,
		WriteTimeout: cfg.App.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		return 1
	}
	return 0
}
