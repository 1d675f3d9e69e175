// Package server wires the application together and serves the HTTP API.
package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/mojtabanasehzadeh/music-distribution-service/cache"
	"github.com/mojtabanasehzadeh/music-distribution-service/clock"
	"github.com/mojtabanasehzadeh/music-distribution-service/command"
	"github.com/mojtabanasehzadeh/music-distribution-service/config"
	"github.com/mojtabanasehzadeh/music-distribution-service/db"
	"github.com/mojtabanasehzadeh/music-distribution-service/eventstore"
	"github.com/mojtabanasehzadeh/music-distribution-service/job"
	"github.com/mojtabanasehzadeh/music-distribution-service/logger"
	"github.com/mojtabanasehzadeh/music-distribution-service/model"
	"github.com/mojtabanasehzadeh/music-distribution-service/projection"
	"github.com/mojtabanasehzadeh/music-distribution-service/repository"
	"github.com/mojtabanasehzadeh/music-distribution-service/storage"
)

// Start initializes all components and runs the HTTP server until a
// shutdown signal arrives.
func Start() {
	cfg := config.Load()

	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAgeDays,
	})

	// Runtime-tunable settings pick up .env edits without a restart.
	if _, err := os.Stat(".env"); err == nil {
		stopWatch, err := config.Watch(".env", func(fresh *config.Config) {
			cfg.CacheTTL = fresh.CacheTTL
			cfg.PublishCheckInterval = fresh.PublishCheckInterval
			logger.Info("configuration reloaded",
				logger.Duration("cacheTTL", fresh.CacheTTL),
				logger.Duration("publishCheckInterval", fresh.PublishCheckInterval),
			)
		})
		if err != nil {
			logger.Warn("config watcher unavailable", logger.ErrorField(err))
		} else {
			defer stopWatch()
		}
	}

	repos, cleanup := buildRepositories(cfg)
	defer cleanup()

	if cfg.RedisHost != "" {
		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Fatal("failed to connect to Redis", logger.ErrorField(err))
		}
		defer cache.CloseRedis()
		logger.Info("connected to Redis")
	}

	if cfg.MinioEndpoint != "" {
		if err := storage.InitMinio(cfg); err != nil {
			logger.Fatal("failed to initialize MinIO", logger.ErrorField(err))
		}
		logger.Info("connected to MinIO")
	}

	clk := clock.System()
	store := eventstore.NewStore()

	search := projection.NewSongSearchProjection(repos.Songs)
	search.Register(store)
	artistStreams := projection.NewArtistStreamProjection(repos.Artists, repos.Songs, repos.Streams)
	artistStreams.Register(store)
	payments := projection.NewPaymentReportProjection(repos.Artists, repos.Songs, repos.Streams, clk)
	payments.Register(store)
	monetization := projection.NewMonetizationProjection()
	monetization.Register(store)
	stats := projection.NewStreamStatsProjection()
	stats.Register(store)

	// Publishing or withdrawing a release changes which songs are
	// searchable, so cached search results go stale immediately.
	invalidateSearch := func(event model.Event) error {
		return cache.InvalidateSearch(context.Background())
	}
	store.Subscribe(model.EventReleasePublished, invalidateSearch)
	store.Subscribe(model.EventReleaseWithdrawn, invalidateSearch)

	dispatcher := command.NewDispatcher(repos, store, clk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	publisher := job.NewPublisher(repos.Releases, dispatcher, clk, cfg.PublishCheckInterval)
	go publisher.Run(ctx)

	feed := NewEventFeed(store)
	go feed.Run(ctx)

	apiHandler := NewAPIHandler(cfg, repos, dispatcher, store, clk, search, artistStreams, payments, monetization, stats)

	router := mux.NewRouter()
	router.Use(corsMiddleware)
	apiHandler.RegisterRoutes(router)
	router.HandleFunc("/ws/events", feed.Handle)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", logger.String("addr", cfg.HTTPAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", logger.ErrorField(err))
	}
}

// buildRepositories creates the repository set for the configured storage
// backend and returns a cleanup function.
func buildRepositories(cfg *config.Config) (repository.Repositories, func()) {
	if cfg.StorageBackend != "mysql" {
		logger.Info("using in-memory storage")
		return repository.NewMemoryRepositories(), func() {}
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("failed to connect to database", logger.ErrorField(err))
	}
	if err := db.InitDB(); err != nil {
		logger.Fatal("failed to initialize database schema", logger.ErrorField(err))
	}
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("failed to connect GORM", logger.ErrorField(err))
	}
	if err := db.MigrateGorm(repository.StreamMigration()); err != nil {
		logger.Fatal("failed to migrate stream schema", logger.ErrorField(err))
	}
	logger.Info("connected to MySQL")

	songs := repository.NewMySQLSongRepository(db.DB)
	repos := repository.Repositories{
		Artists:  repository.NewMySQLArtistRepository(db.DB),
		Labels:   repository.NewMySQLLabelRepository(db.DB),
		Songs:    songs,
		Releases: repository.NewMySQLReleaseRepository(db.DB),
		Streams:  repository.NewGormStreamRepository(db.GormDB),
	}
	return repos, func() {
		if err := db.DB.Close(); err != nil {
			logger.Error("failed to close database", logger.ErrorField(err))
		}
	}
}

// corsMiddleware allows cross-origin API access.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
