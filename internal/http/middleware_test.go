package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/preferences"
)

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(contextKeyRequestID))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/echo", nil)
		router.ServeHTTP(w, req)

		id := w.Header().Get(headerRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("preserves the caller's id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/echo", nil)
		req.Header.Set(headerRequestID, "abc-123")
		router.ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(headerRequestID))
		assert.Equal(t, "abc-123", w.Body.String())
	})
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t)

	require.Equal(t, http.StatusOK, env.do("GET", "/api/search?q=dune", "").Code)
	require.Equal(t, http.StatusOK, env.do("GET", "/api/books/dune-1", "").Code)
	env.do("GET", "/no/such/route", "")

	w := env.do("GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `bookfinder_http_requests_total{method="GET",route="/api/search",status="200"} 1`)
	assert.Contains(t, body, `bookfinder_http_requests_total{method="GET",route="/api/books/:id",status="200"} 1`)
	assert.Contains(t, body, `bookfinder_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
	assert.Contains(t, body, "bookfinder_http_request_duration_seconds")
}

// racingPreferences switches to dark mode while DarkMode is being read,
// returning the value from before the switch.
type racingPreferences struct {
	PreferenceStore
	dark      bool
	listeners []preferences.Listener
}

func (p *racingPreferences) Subscribe(l preferences.Listener) func() {
	p.listeners = append(p.listeners, l)
	return func() {}
}

func (p *racingPreferences) DarkMode() bool {
	before := p.dark
	p.dark = true
	for _, l := range p.listeners {
		l(true)
	}
	return before
}

func TestDisplayMode_ChangeDuringStartupIsKept(t *testing.T) {
	mode := newDisplayMode(&racingPreferences{})

	router := gin.New()
	router.Use(mode.Handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, preferences.ThemeDark, w.Header().Get(headerDisplayMode))
}
