// Package discovery builds the home feed: one independently fetched section
// per configured category.
package discovery

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sourcegraph/conc/iter"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/entities"
)

// Searcher is the catalog capability the feed needs.
type Searcher interface {
	Search(ctx context.Context, query string) ([]entities.Book, error)
}

// Section is the outcome of one category fetch. Exactly one of Books or Err
// is meaningful; a failed section never affects its siblings.
type Section struct {
	Title string
	Query string
	Books []entities.Book
	Err   error
}

// Snapshot is a stored feed.
type Snapshot struct {
	Sections  []Section
	FetchedAt time.Time
}

// Feed fetches categories concurrently and keeps the latest completed snapshot.
type Feed struct {
	searcher   Searcher
	categories []config.Category
	now        func() time.Time

	mu        sync.RWMutex
	started   uint64 // generation of the most recent Refresh call
	stored    uint64 // generation of the snapshot currently held
	snapshot  Snapshot
	hasResult bool
}

func NewFeed(searcher Searcher, categories []config.Category) *Feed {
	return &Feed{
		searcher:   searcher,
		categories: append([]config.Category(nil), categories...),
		now:        time.Now,
	}
}

// Categories returns the configured categories.
func (f *Feed) Categories() []config.Category {
	return append([]config.Category(nil), f.categories...)
}

// Fetch runs every category search concurrently and returns the sections in
// category order. It does not touch the stored snapshot.
func (f *Feed) Fetch(ctx context.Context) []Section {
	return iter.Map(f.categories, func(c *config.Category) Section {
		books, err := f.searcher.Search(ctx, c.Query)
		if err != nil {
			return Section{Title: c.Title, Query: c.Query, Err: err}
		}
		return Section{Title: c.Title, Query: c.Query, Books: books}
	})
}

// Refresh fetches the feed and stores it. The result is dropped without
// error if ctx was canceled before the fetch completed or if a newer
// Refresh already stored its result. The boolean reports whether the
// snapshot was stored.
func (f *Feed) Refresh(ctx context.Context) (Snapshot, bool) {
	f.mu.Lock()
	f.started++
	gen := f.started
	f.mu.Unlock()

	sections := f.Fetch(ctx)

	if ctx.Err() != nil {
		log.Printf("[FEED] Dropping refresh #%d: %v", gen, ctx.Err())
		return Snapshot{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if gen < f.stored {
		log.Printf("[FEED] Dropping stale refresh #%d, #%d already stored", gen, f.stored)
		return Snapshot{}, false
	}

	f.snapshot = Snapshot{Sections: sections, FetchedAt: f.now().UTC()}
	f.stored = gen
	f.hasResult = true

	failed := 0
	for _, s := range sections {
		if s.Err != nil {
			failed++
		}
	}
	log.Printf("[FEED] Stored refresh #%d: %d sections, %d failed", gen, len(sections), failed)

	return f.snapshot, true
}

// Snapshot returns the most recently stored feed.
func (f *Feed) Snapshot() (Snapshot, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.snapshot, f.hasResult
}
