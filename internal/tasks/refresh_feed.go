package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/bookfinder/internal/discovery"
)

// RefreshHomeFeedTask re-fetches every home feed category and stores the result.
type RefreshHomeFeedTask struct {
	// Reason is informational only ("schedule", "manual").
	Reason string `json:"reason,omitempty"`
}

// Config returns the queue configuration for feed refresh tasks.
func (t RefreshHomeFeedTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "refresh_home_feed",
		MaxAttempts: 1,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// FeedRefresher is the part of discovery.Feed the task drives.
type FeedRefresher interface {
	Refresh(ctx context.Context) (discovery.Snapshot, bool)
}

// RefreshObserver is notified after every processed refresh.
type RefreshObserver interface {
	ObserveFeedRefresh(stored bool)
}

var errAllSectionsFailed = errors.New("every feed section failed")

// RefreshHomeFeedProcessor creates a processor function for RefreshHomeFeedTask.
// The task fails only when every section failed; partial failures are kept
// in the snapshot so the rest of the feed stays visible.
func RefreshHomeFeedProcessor(feed FeedRefresher, observer RefreshObserver) backlite.QueueProcessor[RefreshHomeFeedTask] {
	return func(ctx context.Context, task RefreshHomeFeedTask) error {
		if feed == nil {
			return errors.New("feed not configured")
		}

		snapshot, stored := feed.Refresh(ctx)
		if observer != nil {
			observer.ObserveFeedRefresh(stored)
		}
		if !stored {
			log.Printf("[TASK] Feed refresh (%s) produced no stored snapshot", task.Reason)
			return ctx.Err()
		}

		failed := 0
		for _, section := range snapshot.Sections {
			if section.Err != nil {
				failed++
			}
		}
		if len(snapshot.Sections) > 0 && failed == len(snapshot.Sections) {
			return errAllSectionsFailed
		}
		return nil
	}
}

// NewRefreshHomeFeedQueue creates a backlite queue for feed refresh tasks.
func NewRefreshHomeFeedQueue(feed FeedRefresher, observer RefreshObserver) backlite.Queue {
	return backlite.NewQueue(RefreshHomeFeedProcessor(feed, observer))
}
