package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPayload = `{
  "kind": "books#volumes",
  "totalItems": 2,
  "items": [
    {
      "id": "dune-1",
      "volumeInfo": {
        "title": "Dune",
        "authors": ["Frank Herbert"],
        "description": "Desert planet.",
        "averageRating": 4.5,
        "imageLinks": {"smallThumbnail": "http://img/small", "thumbnail": "http://img/dune"},
        "previewLink": "http://preview/dune",
        "infoLink": "http://info/dune"
      }
    },
    {
      "id": "anon-2",
      "volumeInfo": {"title": "Anonymous Work"}
    }
  ]
}`

func newTestClient(url string) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: 5 * time.Second},
		baseURL:     url,
		rateLimiter: newRateLimiter(0), // No rate limiting for tests
	}
}

func TestSearch(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/volumes" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchPayload))
	}))
	defer server.Close()

	client := newTestClient(server.URL)

	books, err := client.Search(context.Background(), "  dune messiah ")
	require.NoError(t, err)

	assert.Equal(t, "dune messiah", gotQuery)
	assert.Equal(t, userAgent, gotAgent)
	require.Len(t, books, 2)

	// Order is preserved as returned by the catalog
	assert.Equal(t, "dune-1", books[0].ID)
	assert.Equal(t, "anon-2", books[1].ID)

	dune := books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, []string{"Frank Herbert"}, dune.Authors)
	assert.Equal(t, "http://img/dune", dune.ThumbnailURL)
	assert.Equal(t, "Desert planet.", dune.Description)
	require.NotNil(t, dune.AverageRating)
	assert.InDelta(t, 4.5, *dune.AverageRating, 0.0001)
	assert.Equal(t, "http://preview/dune", dune.PreviewURL)
	assert.Equal(t, "http://info/dune", dune.InfoURL)

	anon := books[1]
	assert.Empty(t, anon.Authors)
	assert.NotNil(t, anon.Authors)
	assert.Nil(t, anon.AverageRating)
	assert.Empty(t, anon.ThumbnailURL)
}

func TestSearch_MissingItemsIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind":"books#volumes","totalItems":0}`))
	}))
	defer server.Close()

	books, err := newTestClient(server.URL).Search(context.Background(), "zzzz")
	require.NoError(t, err)
	assert.Empty(t, books)
}

func TestSearch_EmptyQuery(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, 0, calls, "no request should be made for an empty query")
}

func TestSearch_MaxResultsAndAPIKey(t *testing.T) {
	var gotMax, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMax = r.URL.Query().Get("maxResults")
		gotKey = r.URL.Query().Get("key")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(Options{BaseURL: server.URL + "/", APIKey: "secret", MaxResults: 20})
	_, err := client.Search(context.Background(), "go")
	require.NoError(t, err)

	assert.Equal(t, "20", gotMax)
	assert.Equal(t, "secret", gotKey)
}

func TestSearch_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name: "missing endpoint",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
		{
			name: "malformed payload",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"items": [`))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			_, err := newTestClient(server.URL).Search(context.Background(), "dune")
			require.Error(t, err)

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, "search", te.Op)
			assert.Equal(t, tt.wantStatus, te.StatusCode)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestSearch_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient(url).Search(context.Background(), "dune")
	assert.True(t, IsTransport(err))
}

func TestSearch_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL)
	client.httpClient.Timeout = 50 * time.Millisecond

	_, err := client.Search(context.Background(), "dune")
	assert.True(t, IsTransport(err))
}

func TestSearch_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).Search(ctx, "dune")
	assert.True(t, IsTransport(err))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGetByID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/volumes/dune-1":
			_, _ = w.Write([]byte(`{"id":"dune-1","volumeInfo":{"title":"Dune","authors":["Frank Herbert"],
				"imageLinks":{"smallThumbnail":"http://img/small"}}}`))
		case "/volumes/broken":
			_, _ = w.Write([]byte(`{"volumeInfo":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	ctx := context.Background()

	t.Run("returns volume", func(t *testing.T) {
		book, err := client.GetByID(ctx, "dune-1")
		require.NoError(t, err)
		assert.Equal(t, "Dune", book.Title)
		// Falls back to the small thumbnail
		assert.Equal(t, "http://img/small", book.ThumbnailURL)
	})

	t.Run("unknown id is ErrNotFound", func(t *testing.T) {
		_, err := client.GetByID(ctx, "nope")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.False(t, IsTransport(err))
	})

	t.Run("empty id is ErrNotFound", func(t *testing.T) {
		_, err := client.GetByID(ctx, "")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("payload without id is a transport error", func(t *testing.T) {
		_, err := client.GetByID(ctx, "broken")
		assert.True(t, IsTransport(err))
	})
}

func TestRateLimiter_Wait(t *testing.T) {
	limiter := newRateLimiter(30 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, limiter.Wait(ctx))
	start := time.Now()
	require.NoError(t, limiter.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, limiter.Wait(canceled), context.Canceled)
}

func TestTransportError_Message(t *testing.T) {
	withStatus := &TransportError{Op: "search", StatusCode: 503, Err: errStatus}
	assert.Equal(t, "catalog search: status 503: unexpected status", withStatus.Error())

	noStatus := &TransportError{Op: "search", Err: errors.New("dial tcp: refused")}
	assert.Equal(t, "catalog search: dial tcp: refused", noStatus.Error())
}

type recordingObserver struct {
	ops      []string
	outcomes []string
}

func (r *recordingObserver) ObserveCatalogRequest(op, outcome string, _ time.Duration) {
	r.ops = append(r.ops, op)
	r.outcomes = append(r.outcomes, outcome)
}

func TestClient_Observer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/volumes":
			_, _ = w.Write([]byte(searchPayload))
		case "/volumes/missing":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer server.Close()

	observer := &recordingObserver{}
	client := NewClient(Options{BaseURL: server.URL, Observer: observer})
	ctx := context.Background()

	_, err := client.Search(ctx, "dune")
	require.NoError(t, err)
	_, err = client.GetByID(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = client.GetByID(ctx, "boom")
	require.Error(t, err)

	assert.Equal(t, []string{"search", "get volume", "get volume"}, observer.ops)
	assert.Equal(t, []string{"ok", "not_found", "error"}, observer.outcomes)
}
