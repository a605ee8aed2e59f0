package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// PrefetchThumbnailsTask downloads thumbnails for every favorite so the
// favorites list renders from the local cache.
type PrefetchThumbnailsTask struct{}

// Config returns the queue configuration for thumbnail prefetch tasks.
func (t PrefetchThumbnailsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "prefetch_thumbnails",
		MaxAttempts: 2,
		Backoff:     time.Minute,
		Timeout:     10 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FavoritesLister lists saved books.
type FavoritesLister interface {
	List() []entities.Favorite
}

// ThumbnailFetcher caches a thumbnail and returns its local path.
type ThumbnailFetcher interface {
	GetThumbnail(ctx context.Context, bookID, thumbnailURL string) (string, error)
}

// PrefetchThumbnailsProcessor creates a processor function for PrefetchThumbnailsTask.
// Individual download failures are logged and skipped.
func PrefetchThumbnailsProcessor(favorites FavoritesLister, cache ThumbnailFetcher) backlite.QueueProcessor[PrefetchThumbnailsTask] {
	return func(ctx context.Context, task PrefetchThumbnailsTask) error {
		if favorites == nil || cache == nil {
			return errors.New("thumbnail prefetch not configured")
		}

		var fetched, failed int
		for _, fav := range favorites.List() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if fav.ThumbnailURL == "" {
				continue
			}
			if _, err := cache.GetThumbnail(ctx, fav.ID, fav.ThumbnailURL); err != nil {
				log.Printf("[TASK] Thumbnail for %s failed: %v", fav.ID, err)
				failed++
				continue
			}
			fetched++
		}

		log.Printf("[TASK] Prefetched %d thumbnails, %d failed", fetched, failed)
		return nil
	}
}

// NewPrefetchThumbnailsQueue creates a backlite queue for thumbnail prefetch tasks.
func NewPrefetchThumbnailsQueue(favorites FavoritesLister, cache ThumbnailFetcher) backlite.Queue {
	return backlite.NewQueue(PrefetchThumbnailsProcessor(favorites, cache))
}
