package tasks

import "github.com/mikestefanello/backlite"

// TypeInfo describes a task type that can be triggered manually.
type TypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

// Types lists the task types registered by the server.
func Types() []TypeInfo {
	return []TypeInfo{
		{
			Type:        RefreshHomeFeedTask{}.Config().Name,
			Description: "Re-fetch every home feed category from the catalog",
			Queue:       RefreshHomeFeedTask{}.Config().Name,
		},
		{
			Type:        PrefetchThumbnailsTask{}.Config().Name,
			Description: "Download thumbnails for all favorites into the local cache",
			Queue:       PrefetchThumbnailsTask{}.Config().Name,
		},
	}
}

// NewTask builds a task for a type name returned by Types.
func NewTask(taskType, reason string) (backlite.Task, bool) {
	switch taskType {
	case RefreshHomeFeedTask{}.Config().Name:
		return RefreshHomeFeedTask{Reason: reason}, true
	case PrefetchThumbnailsTask{}.Config().Name:
		return PrefetchThumbnailsTask{}, true
	default:
		return nil, false
	}
}

// Dependencies are the components the background queues work on. A nil
// field makes the matching task fail with "not configured".
type Dependencies struct {
	Feed       FeedRefresher
	Observer   RefreshObserver
	Favorites  FavoritesLister
	Thumbnails ThumbnailFetcher
}

// Queues builds one queue per entry of Types, in the same order.
func Queues(deps Dependencies) []backlite.Queue {
	return []backlite.Queue{
		NewRefreshHomeFeedQueue(deps.Feed, deps.Observer),
		NewPrefetchThumbnailsQueue(deps.Favorites, deps.Thumbnails),
	}
}
