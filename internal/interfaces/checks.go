package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/database"
	"github.com/mrlokans/bookfinder/internal/discovery"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/history"
	"github.com/mrlokans/bookfinder/internal/http"
	"github.com/mrlokans/bookfinder/internal/kvstore"
	"github.com/mrlokans/bookfinder/internal/metrics"
	"github.com/mrlokans/bookfinder/internal/preferences"
	"github.com/mrlokans/bookfinder/internal/scheduler"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// =============================================================================
// Key/Value Storage
// =============================================================================

var _ kvstore.Store = (*database.Database)(nil)
var _ kvstore.Store = (*kvstore.Memory)(nil)

// =============================================================================
// HTTP Dependencies
// =============================================================================

var _ http.Catalog = (*catalog.Client)(nil)
var _ http.FavoritesStore = (*favorites.Store)(nil)
var _ http.HistoryStore = (*history.Store)(nil)
var _ http.PreferenceStore = (*preferences.Store)(nil)
var _ http.HomeFeed = (*discovery.Feed)(nil)
var _ http.ThumbnailCache = (*covers.Cache)(nil)
var _ http.TaskQueue = (*tasks.Client)(nil)
var _ http.HealthChecker = (*database.Database)(nil)

// =============================================================================
// Home Feed and Background Work
// =============================================================================

var _ discovery.Searcher = (*catalog.Client)(nil)
var _ tasks.FeedRefresher = (*discovery.Feed)(nil)
var _ tasks.FavoritesLister = (*favorites.Store)(nil)
var _ tasks.ThumbnailFetcher = (*covers.Cache)(nil)
var _ scheduler.Enqueuer = (*tasks.Client)(nil)

// =============================================================================
// Metrics
// =============================================================================

var _ catalog.Observer = (*metrics.Metrics)(nil)
var _ tasks.RefreshObserver = (*metrics.Metrics)(nil)
