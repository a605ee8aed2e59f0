package discovery

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/entities"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]entities.Book
	errs    map[string]error
	calls   []string
	block   chan struct{} // when set, every call waits for it to close
}

func (f *fakeSearcher) Search(ctx context.Context, query string) ([]entities.Book, error) {
	f.mu.Lock()
	f.calls = append(f.calls, query)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

var testCategories = []config.Category{
	{Title: "Trending Books", Query: "bestsellers"},
	{Title: "New Releases", Query: "new releases"},
	{Title: "Top Rated", Query: "top rated"},
}

func TestFeed_Fetch(t *testing.T) {
	searcher := &fakeSearcher{
		results: map[string][]entities.Book{
			"bestsellers": {{ID: "b1"}},
			"top rated":   {{ID: "t1"}, {ID: "t2"}},
		},
		errs: map[string]error{
			"new releases": errors.New("catalog down"),
		},
	}
	feed := NewFeed(searcher, testCategories)

	sections := feed.Fetch(context.Background())

	require.Len(t, sections, 3)
	assert.Equal(t, "Trending Books", sections[0].Title)
	assert.NoError(t, sections[0].Err)
	assert.Len(t, sections[0].Books, 1)

	// One failure does not mask the others
	assert.Equal(t, "New Releases", sections[1].Title)
	assert.EqualError(t, sections[1].Err, "catalog down")
	assert.Empty(t, sections[1].Books)

	assert.Equal(t, "Top Rated", sections[2].Title)
	assert.NoError(t, sections[2].Err)
	assert.Len(t, sections[2].Books, 2)

	assert.ElementsMatch(t, []string{"bestsellers", "new releases", "top rated"}, searcher.calls)
}

func TestFeed_FetchRunsConcurrently(t *testing.T) {
	var started sync.WaitGroup
	started.Add(len(testCategories))
	release := make(chan struct{})

	searcher := &blockingSearcher{started: &started, release: release}
	feed := NewFeed(searcher, testCategories)

	done := make(chan []Section)
	go func() { done <- feed.Fetch(context.Background()) }()

	// All searches must be in flight at once before any is allowed to finish
	waitCh := make(chan struct{})
	go func() { started.Wait(); close(waitCh) }()
	select {
	case <-waitCh:
	case <-time.After(2 * time.Second):
		t.Fatal("category fetches did not run concurrently")
	}
	close(release)

	sections := <-done
	assert.Len(t, sections, len(testCategories))
}

type blockingSearcher struct {
	started *sync.WaitGroup
	release chan struct{}
}

func (b *blockingSearcher) Search(ctx context.Context, query string) ([]entities.Book, error) {
	b.started.Done()
	<-b.release
	return []entities.Book{{ID: query}}, nil
}

func TestFeed_Refresh(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]entities.Book{"bestsellers": {{ID: "b1"}}}}
	feed := NewFeed(searcher, testCategories)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	feed.now = func() time.Time { return fixed }

	_, ok := feed.Snapshot()
	assert.False(t, ok, "no snapshot before first refresh")

	snap, stored := feed.Refresh(context.Background())
	require.True(t, stored)
	assert.Equal(t, fixed, snap.FetchedAt)
	assert.Len(t, snap.Sections, 3)

	current, ok := feed.Snapshot()
	require.True(t, ok)
	assert.Equal(t, snap, current)
}

func TestFeed_RefreshCanceledIsDropped(t *testing.T) {
	searcher := &fakeSearcher{results: map[string][]entities.Book{"bestsellers": {{ID: "old"}}}}
	feed := NewFeed(searcher, testCategories)

	_, stored := feed.Refresh(context.Background())
	require.True(t, stored)

	searcher.block = make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool)
	go func() {
		_, ok := feed.Refresh(ctx)
		done <- ok
	}()
	cancel()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("canceled refresh did not return")
	}

	// Previous snapshot untouched
	snap, ok := feed.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "old", snap.Sections[0].Books[0].ID)
	assert.NoError(t, snap.Sections[0].Err)
}

func TestFeed_StaleRefreshIsDropped(t *testing.T) {
	slow := &gatedSearcher{gate: make(chan struct{})}
	feed := NewFeed(slow, testCategories[:1])

	slowDone := make(chan bool)
	go func() {
		_, ok := feed.Refresh(context.Background())
		slowDone <- ok
	}()

	// Wait until the first refresh is in flight
	require.Eventually(t, slow.inFlight, time.Second, 5*time.Millisecond)

	// A newer refresh completes first
	_, ok := feed.Refresh(context.Background())
	require.True(t, ok)

	close(slow.gate)
	assert.False(t, <-slowDone, "older refresh must not overwrite newer snapshot")

	snap, _ := feed.Snapshot()
	assert.Equal(t, "fast", snap.Sections[0].Books[0].ID)
}

// gatedSearcher blocks its first call on gate and answers "slow";
// later calls answer "fast" immediately.
type gatedSearcher struct {
	mu      sync.Mutex
	gate    chan struct{}
	calls   int
	blocked bool
}

func (g *gatedSearcher) inFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.blocked
}

func (g *gatedSearcher) Search(ctx context.Context, query string) ([]entities.Book, error) {
	g.mu.Lock()
	g.calls++
	first := g.calls == 1
	if first {
		g.blocked = true
	}
	g.mu.Unlock()

	if first {
		<-g.gate
		return []entities.Book{{ID: "slow"}}, nil
	}
	return []entities.Book{{ID: "fast"}}, nil
}

func TestFeed_Categories(t *testing.T) {
	feed := NewFeed(&fakeSearcher{}, testCategories)

	cats := feed.Categories()
	cats[0].Title = "changed"

	assert.Equal(t, "Trending Books", feed.Categories()[0].Title)
}
