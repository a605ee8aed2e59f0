package http

import (
	"context"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookfinder/internal/discovery"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/preferences"
)

// Catalog defines the remote catalog queries used by the API.
type Catalog interface {
	Search(ctx context.Context, query string) ([]entities.Book, error)
	GetByID(ctx context.Context, id string) (*entities.Book, error)
}

// FavoritesStore defines favorites management.
type FavoritesStore interface {
	Add(book entities.Book) error
	Remove(id string) error
	List() []entities.Favorite
	Contains(id string) bool
	Get(id string) (entities.Favorite, bool)
	Count() int
}

// HistoryStore defines search history operations.
type HistoryStore interface {
	Record(query string) ([]string, error)
	List() []string
	Clear() error
	Suggestions(partial string) []string
}

// PreferenceStore defines display preference operations.
type PreferenceStore interface {
	DarkMode() bool
	Theme() string
	SetDarkMode(value bool) error
	Toggle() (bool, error)
	Subscribe(l preferences.Listener) func()
}

// HomeFeed defines the home feed snapshot operations.
type HomeFeed interface {
	Snapshot() (discovery.Snapshot, bool)
	Refresh(ctx context.Context) (discovery.Snapshot, bool)
}

// ThumbnailCache defines thumbnail caching.
type ThumbnailCache interface {
	GetThumbnail(ctx context.Context, bookID, thumbnailURL string) (string, error)
}

// TaskQueue defines the task queue operations exposed over HTTP.
type TaskQueue interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
	Status(ctx context.Context, taskID string) (backlite.TaskStatus, error)
}

// HealthChecker reports whether a dependency is reachable.
type HealthChecker interface {
	Ping() error
}
