package http

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mrlokans/bookfinder/internal/metrics"
	"github.com/mrlokans/bookfinder/internal/preferences"
)

const (
	headerRequestID   = "X-Request-ID"
	headerDisplayMode = "X-Display-Mode"

	contextKeyRequestID = "request_id"
)

// RequestIDMiddleware tags every request with an id, reusing the caller's
// X-Request-ID when present.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(contextKeyRequestID, requestID)
		c.Header(headerRequestID, requestID)
		c.Next()
	}
}

// MetricsMiddleware records method, matched route, status and latency.
func MetricsMiddleware(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTPRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// displayMode mirrors the persisted preference through a subscription so
// the middleware never touches the store on the request path. The
// subscription lives as long as the router.
type displayMode struct {
	dark atomic.Bool

	mu       sync.Mutex
	notified bool // a listener value has landed; the initial read is stale
}

func newDisplayMode(prefs PreferenceStore) *displayMode {
	d := &displayMode{}
	// Subscribe before reading so a change between the two is not lost.
	prefs.Subscribe(func(dark bool) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.dark.Store(dark)
		d.notified = true
	})

	current := prefs.DarkMode()
	d.mu.Lock()
	if !d.notified {
		d.dark.Store(current)
	}
	d.mu.Unlock()
	return d
}

func (d *displayMode) theme() string {
	if d.dark.Load() {
		return preferences.ThemeDark
	}
	return preferences.ThemeLight
}

// Handler sets X-Display-Mode on every response.
func (d *displayMode) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(headerDisplayMode, d.theme())
		c.Next()
	}
}
