// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Storage
//
//   - kvstore.Store: durable string key/value store (internal/kvstore/kvstore.go).
//     Implemented by database.Database (SQLite via gorm) and kvstore.Memory.
//     Each key has exactly one owning store:
//     favorites.Store owns "favorites", history.Store owns "searchHistory",
//     preferences.Store owns "darkMode" and "theme".
//
// ## HTTP Dependencies
//
// The router depends only on the interfaces in internal/http/stores.go:
//
//   - Catalog: remote catalog queries
//   - FavoritesStore, HistoryStore, PreferenceStore: local state
//   - HomeFeed: feed snapshot and refresh
//   - ThumbnailCache: local thumbnail files
//   - TaskQueue: background task enqueue and status
//   - HealthChecker: database ping
//
// ## Background Work
//
//   - discovery.Searcher: what the home feed needs from the catalog
//   - tasks.FeedRefresher, tasks.FavoritesLister, tasks.ThumbnailFetcher:
//     what task processors drive
//   - scheduler.Enqueuer: how the scheduler hands work to the task queue
//
// ## Metrics
//
//   - catalog.Observer and tasks.RefreshObserver, both implemented by metrics.Metrics
//
// # Adding a New Home Feed Source
//
// The feed only needs a Searcher. To feed categories from another catalog:
//
//  1. Implement Searcher:
//
//     type OpenLibraryClient struct {
//         httpClient *http.Client
//     }
//
//     func (c *OpenLibraryClient) Search(ctx context.Context, query string) ([]entities.Book, error)
//
//     var _ discovery.Searcher = (*OpenLibraryClient)(nil)
//
//  2. Pass it to discovery.NewFeed in entrypoint.go
//
// # Adding a New Task
//
//  1. Define the task and its queue config in internal/tasks/
//
//  2. Write a processor and a NewXxxQueue constructor
//
//  3. Add it to tasks.Types and tasks.NewTask so it can be run over HTTP
//
//  4. Add the queue to tasks.Queues, with any new component in tasks.Dependencies
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for the full list.
package interfaces
