package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/tasks"
)

// refreshTimeout bounds an inline refresh when no task queue is available.
const refreshTimeout = 2 * time.Minute

// Enqueuer hands work to the background task queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, task backlite.Task) (string, error)
}

// FeedRefreshScheduler periodically refreshes the home feed. With a task
// queue it enqueues refresh_home_feed; without one it refreshes inline.
type FeedRefreshScheduler struct {
	enabled  bool
	schedule string
	enqueuer Enqueuer
	feed     tasks.FeedRefresher
	observer tasks.RefreshObserver

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// refreshing is held for the duration of an inline refresh. It is
	// separate from mu because Stop waits for running jobs while holding mu.
	refreshing sync.Mutex
}

// NewFeedRefreshScheduler creates a new scheduler instance. enqueuer may be nil.
func NewFeedRefreshScheduler(cfg config.Feed, enqueuer Enqueuer, feed tasks.FeedRefresher, observer tasks.RefreshObserver) *FeedRefreshScheduler {
	return &FeedRefreshScheduler{
		enabled:  cfg.RefreshEnabled,
		schedule: cfg.RefreshSchedule,
		enqueuer: enqueuer,
		feed:     feed,
		observer: observer,
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler if refresh is enabled
func (s *FeedRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.enabled {
		log.Printf("Feed refresh scheduler: disabled")
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, s.runRefresh)
	if err != nil {
		return fmt.Errorf("failed to schedule refresh job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	nextRun, _ := GetNextRunTime(s.schedule, time.Now())
	log.Printf("Feed refresh scheduler: started with schedule '%s' (%s). Next run: %v",
		s.schedule,
		GetCronDescription(s.schedule),
		nextRun)

	// Monitor for context cancellation
	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish.
func (s *FeedRefreshScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Feed refresh scheduler: stopped")
}

// RunNow triggers an immediate refresh in the background.
func (s *FeedRefreshScheduler) RunNow() {
	go s.runRefresh()
}

// IsRunning returns whether the scheduler is active
func (s *FeedRefreshScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the next refresh will occur, or nil when stopped.
func (s *FeedRefreshScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

func (s *FeedRefreshScheduler) runRefresh() {
	if s.enqueuer != nil {
		id, err := s.enqueuer.Enqueue(context.Background(), tasks.RefreshHomeFeedTask{Reason: "schedule"})
		if err != nil {
			log.Printf("Feed refresh: failed to enqueue: %v", err)
			return
		}
		log.Printf("Feed refresh: enqueued task %s", id)
		return
	}

	if !s.refreshing.TryLock() {
		log.Printf("Feed refresh: skipped (already refreshing)")
		return
	}
	defer s.refreshing.Unlock()

	if s.feed == nil {
		log.Printf("Feed refresh: skipped (feed not configured)")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	_, stored := s.feed.Refresh(ctx)
	if s.observer != nil {
		s.observer.ObserveFeedRefresh(stored)
	}
}
