package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/discovery"
)

// HomeController serves the home feed.
type HomeController struct {
	feed      HomeFeed
	favorites FavoritesStore
}

func NewHomeController(feed HomeFeed, favorites FavoritesStore) *HomeController {
	return &HomeController{feed: feed, favorites: favorites}
}

// SectionView is one feed category. Error is set instead of Books when the
// category failed to load.
type SectionView struct {
	Title string     `json:"title"`
	Query string     `json:"query"`
	Books []BookView `json:"books"`
	Error string     `json:"error,omitempty"`
}

type HomeResponse struct {
	Sections  []SectionView `json:"sections"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// GetHome handles GET /api/home
// Serves the stored snapshot, fetching live when none exists yet or when
// refresh=true is passed.
func (hc *HomeController) GetHome(c *gin.Context) {
	snapshot, ok := hc.feed.Snapshot()
	if !ok || c.Query("refresh") == "true" {
		// A refresh that was superseded still leaves a newer snapshot behind
		if snapshot, ok = hc.feed.Refresh(c.Request.Context()); !ok {
			snapshot, ok = hc.feed.Snapshot()
		}
	}
	if !ok {
		respondError(c, http.StatusServiceUnavailable, "home feed unavailable")
		return
	}

	c.JSON(http.StatusOK, hc.render(snapshot))
}

func (hc *HomeController) render(snapshot discovery.Snapshot) HomeResponse {
	sections := make([]SectionView, 0, len(snapshot.Sections))
	for _, s := range snapshot.Sections {
		view := SectionView{Title: s.Title, Query: s.Query, Books: []BookView{}}
		if s.Err != nil {
			view.Error = s.Err.Error()
		} else {
			view.Books = newBookViews(s.Books, hc.favorites)
		}
		sections = append(sections, view)
	}
	return HomeResponse{Sections: sections, FetchedAt: snapshot.FetchedAt}
}
