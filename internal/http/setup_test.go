package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/config"
	"github.com/mrlokans/bookfinder/internal/covers"
	"github.com/mrlokans/bookfinder/internal/discovery"
	"github.com/mrlokans/bookfinder/internal/favorites"
	"github.com/mrlokans/bookfinder/internal/history"
	"github.com/mrlokans/bookfinder/internal/kvstore"
	"github.com/mrlokans/bookfinder/internal/metrics"
	"github.com/mrlokans/bookfinder/internal/preferences"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const thumbnailBytes = "fake image data"

// fakeQueue records enqueued tasks instead of running them.
type fakeQueue struct {
	mu       sync.Mutex
	enqueued []backlite.Task
	statuses map[string]backlite.TaskStatus
}

func (q *fakeQueue) Enqueue(ctx context.Context, task backlite.Task) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueued = append(q.enqueued, task)
	return fmt.Sprintf("task-%d", len(q.enqueued)), nil
}

func (q *fakeQueue) Status(ctx context.Context, taskID string) (backlite.TaskStatus, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if status, ok := q.statuses[taskID]; ok {
		return status, nil
	}
	return backlite.TaskStatusNotFound, nil
}

// testEnv wires the real stores over an in-memory key/value store and a
// real catalog client pointed at a fake catalog server.
type testEnv struct {
	router    *gin.Engine
	catalog   *httptest.Server
	kv        *kvstore.Memory
	favorites *favorites.Store
	history   *history.Store
	prefs     *preferences.Store
	feed      *discovery.Feed
	queue     *fakeQueue
	metrics   *metrics.Metrics

	searches    atomic.Int32
	lookups     atomic.Int32
	catalogDown atomic.Bool
}

func volumeJSON(base, id, title string, rating string, withThumbnail bool) string {
	thumb := ""
	if withThumbnail {
		thumb = fmt.Sprintf(`, "imageLinks": {"thumbnail": "%s/img/%s"}`, base, id)
	}
	ratingField := ""
	if rating != "" {
		ratingField = `, "averageRating": ` + rating
	}
	return fmt.Sprintf(`{"id": %q, "volumeInfo": {"title": %q, "authors": ["Frank Herbert"]%s%s}}`,
		id, title, ratingField, thumb)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		kv:    kvstore.NewMemory(),
		queue: &fakeQueue{statuses: map[string]backlite.TaskStatus{}},
	}

	var base string
	env.catalog = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.catalogDown.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		switch {
		case r.URL.Path == "/volumes":
			env.searches.Add(1)
			switch r.URL.Query().Get("q") {
			case "fail":
				w.WriteHeader(http.StatusInternalServerError)
			case "nothing":
				_, _ = w.Write([]byte(`{"totalItems": 0}`))
			default:
				_, _ = fmt.Fprintf(w, `{"items": [%s, %s]}`,
					volumeJSON(base, "dune-1", "Dune", "3.5", true),
					volumeJSON(base, "messiah-2", "Dune Messiah", "", false))
			}

		case strings.HasPrefix(r.URL.Path, "/volumes/"):
			env.lookups.Add(1)
			switch id := strings.TrimPrefix(r.URL.Path, "/volumes/"); id {
			case "dune-1":
				_, _ = w.Write([]byte(volumeJSON(base, "dune-1", "Dune", "4.5", true)))
			case "messiah-2":
				_, _ = w.Write([]byte(volumeJSON(base, "messiah-2", "Dune Messiah", "", false)))
			default:
				w.WriteHeader(http.StatusNotFound)
			}

		case strings.HasPrefix(r.URL.Path, "/img/"):
			_, _ = io.WriteString(w, thumbnailBytes)

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	base = env.catalog.URL
	t.Cleanup(env.catalog.Close)

	client := catalog.NewClient(catalog.Options{BaseURL: base})
	env.favorites = favorites.NewStore(env.kv)
	env.history = history.NewStore(env.kv)
	env.prefs = preferences.NewStore(env.kv)
	env.feed = discovery.NewFeed(client, []config.Category{
		{Title: "Trending Books", Query: "bestsellers"},
		{Title: "Broken", Query: "fail"},
	})
	env.metrics = metrics.New()

	thumbnails, err := covers.NewCache(t.TempDir())
	require.NoError(t, err)

	env.router = NewRouter(RouterConfig{
		Catalog:     client,
		Favorites:   env.favorites,
		History:     env.history,
		Preferences: env.prefs,
		Feed:        env.feed,
		Thumbnails:  thumbnails,
		Tasks:       env.queue,
		Metrics:     env.metrics,
		Version:     "test",
	})
	return env
}

func (e *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func urlEscape(s string) string {
	return url.QueryEscape(s)
}

func compact(t *testing.T, raw string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, json.Compact(&buf, []byte(raw)))
	return buf.String()
}
