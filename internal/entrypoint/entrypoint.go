package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/discovery"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/history"
	http_controllers "github.com/mrlokans/bookfinder/internal/http"
	"github.com/mrlokans/bookfinder/internal/metrics"
	"github.com/mrlokans/bookfinder/internal/preferences"
	"github.com/mrlokans/bookfinder/internal/scheduler"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		fmt.Printf("Starting server at %s:%d\n", cfg.HTTP.Host, cfg.HTTP.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// kill (no param) sends SIGTERM, kill -2 is SIGINT. SIGKILL can't be caught.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Printf("Shutdown Server, waiting %v before killing\n", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Stop background work before the server stops accepting requests
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}

	log.Println("Server exiting")
}

// coversDir returns the configured thumbnail directory, or a "covers"
// directory next to the database.
func coversDir(cfg *config.Config) string {
	if cfg.Covers.Dir != "" {
		return cfg.Covers.Dir
	}
	return filepath.Join(filepath.Dir(cfg.Database.Path), "covers")
}

func Run(cfg *config.Config, version string) {
	log.Printf("Starting Bookfinder v%s", version)

	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}()

	appMetrics := metrics.New()

	catalogClient := catalog.NewClient(catalog.Options{
		BaseURL:         cfg.Catalog.BaseURL,
		APIKey:          cfg.Catalog.APIKey,
		Timeout:         cfg.Catalog.Timeout,
		MaxResults:      cfg.Catalog.MaxResults,
		RequestInterval: cfg.Catalog.RequestInterval,
		Observer:        appMetrics,
	})
	log.Printf("Catalog client targeting %s", cfg.Catalog.BaseURL)

	// All three stores persist through the same key/value table
	favoritesStore := favorites.NewStore(db)
	historyStore := history.NewStore(db)
	preferenceStore := preferences.NewStore(db)
	log.Printf("Loaded %d favorites, %d recent searches, theme %s",
		favoritesStore.Count(), len(historyStore.List()), preferenceStore.Theme())

	feed := discovery.NewFeed(catalogClient, cfg.Feed.Categories)

	// Interface values stay nil unless the cache initializes, so the router
	// and tasks see "not configured" rather than a nil *covers.Cache.
	var thumbnails http_controllers.ThumbnailCache
	var thumbnailFetcher tasks.ThumbnailFetcher
	coverCacheDir := coversDir(cfg)
	coverCache, err := covers.NewCache(coverCacheDir)
	if err != nil {
		log.Printf("WARNING: Failed to initialize thumbnail cache: %v", err)
	} else {
		log.Printf("Thumbnail cache initialized at %s", coverCacheDir)
		thumbnails = coverCache
		thumbnailFetcher = coverCache
	}

	// Initialize task queue if enabled
	var taskClient *tasks.Client
	var taskQueue http_controllers.TaskQueue
	var enqueuer scheduler.Enqueuer
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, tasks.Queues(tasks.Dependencies{
			Feed:       feed,
			Observer:   appMetrics,
			Favorites:  favoritesStore,
			Thumbnails: thumbnailFetcher,
		})...)
		if err != nil {
			log.Fatalf("Failed to initialize task queue: %v", err)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				log.Printf("Error closing task client: %v", err)
			}
		}()

		go taskClient.Start(context.Background())

		taskQueue = taskClient
		enqueuer = taskClient
	} else {
		log.Printf("Task queue disabled, feed refreshes will run inline")
	}

	feedScheduler := scheduler.NewFeedRefreshScheduler(cfg.Feed, enqueuer, feed, appMetrics)
	if err := feedScheduler.Start(context.Background()); err != nil {
		log.Printf("WARNING: Failed to start feed refresh scheduler: %v", err)
	} else if feedScheduler.IsRunning() {
		// Warm the feed so the first home request is served from a snapshot
		feedScheduler.RunNow()
	}

	routerCfg := http_controllers.RouterConfig{
		Catalog:     catalogClient,
		Favorites:   favoritesStore,
		History:     historyStore,
		Preferences: preferenceStore,
		Feed:        feed,
		Thumbnails:  thumbnails,
		Tasks:       taskQueue,
		Database:    db,
		Metrics:     appMetrics,
		Version:     version,
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		feedScheduler.Stop()
		if taskClient != nil {
			taskClient.Stop(ctx)
		}
	}

	Serve(router, cfg, onShutdown)
}
