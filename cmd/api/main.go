package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"palavaproof-api/internal/api"
	"palavaproof-api/internal/api/handlers"
	"palavaproof-api/internal/config"
	"palavaproof-api/internal/domain/services"
	"palavaproof-api/internal/infrastructure/cache"
	"palavaproof-api/internal/infrastructure/database"
	"palavaproof-api/internal/infrastructure/database/repository"
	"palavaproof-api/internal/infrastructure/memstore"
	"palavaproof-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting Palava Proof API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize infrastructure
	db, redisCache, err := initInfrastructure(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize infrastructure")
	}
	defer func() {
		if db != nil {
			db.Close()
		}
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Pick the report store: Postgres when available, otherwise an
	// in-memory fallback so the API stays usable in development.
	var (
		store services.ReportStore
		repos *repository.Repositories
	)
	matcher := services.PrefixMatcher{Window: cfg.Scoring.SimilarityWindow}
	if db != nil {
		repos = repository.NewRepositories(db)
		store = repos.Scams
		log.Info().Msg("repositories initialized with database")
	} else {
		store = memstore.New(matcher)
		log.Warn().Msg("running without database, reports held in memory only")
	}

	// Build the pattern rule set: built-in rules plus any stored in the
	// database.
	patternRules := services.DefaultPatternRules(cfg.Scoring.RuleWeight)
	if repos != nil {
		stored, err := repos.Patterns.ListAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("failed to load stored patterns, using built-in rules only")
		} else {
			patternRules = append(patternRules, stored...)
		}
	}

	rules, err := services.NewRuleSet(patternRules)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to compile pattern rules")
	}
	log.Info().Int("rules", rules.Len()).Msg("pattern rules compiled")

	// Initialize services
	scorer := services.NewScorer(rules, store, redisCache, cfg.Scoring, log)
	resolver := services.NewResolver(store, cfg.Scoring, log)

	// Initialize handlers
	deps := handlers.Dependencies{
		Scorer:   scorer,
		Resolver: resolver,
		Store:    store,
		DB:       db,
		Cache:    redisCache,
		Config:   cfg.Scoring,
		Logger:   log,
	}
	h := handlers.NewHandlers(deps)

	// Create router
	router := api.NewRouter(*cfg, h, redisCache, log)
	httpHandler := router.Setup()

	// Start HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      httpHandler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().
			Str("addr", httpServer.Addr).
			Msg("starting HTTP server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}

// initInfrastructure initializes database and cache connections
func initInfrastructure(ctx context.Context, cfg *config.Config, log *logger.Logger) (*database.PostgresDB, *cache.RedisCache, error) {
	// Connect to PostgreSQL
	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to PostgreSQL, continuing without database")
		db = nil
	}

	// Connect to Redis
	redisCache, err := cache.NewRedis(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn().Err(err).Msg("failed to connect to Redis, continuing without cache")
		redisCache = nil
	}

	return db, redisCache, nil
}
