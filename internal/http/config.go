package http

import "github.com/mrlokans/bookfinder/internal/metrics"

// RouterConfig contains all dependencies needed to create the HTTP router.
// Optional dependencies left nil disable their routes.
type RouterConfig struct {
	// Core dependencies
	Catalog     Catalog
	Favorites   FavoritesStore
	History     HistoryStore
	Preferences PreferenceStore

	// Home feed
	Feed HomeFeed

	// Thumbnail caching
	Thumbnails ThumbnailCache

	// Background tasks
	Tasks TaskQueue

	// Health checks
	Database HealthChecker

	// Prometheus collectors, served at /metrics
	Metrics *metrics.Metrics

	// Application info
	Version string
}
