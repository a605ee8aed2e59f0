package http

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// SearchController runs catalog searches and feeds the search history.
type SearchController struct {
	catalog   Catalog
	history   HistoryStore
	favorites FavoritesStore
}

func NewSearchController(catalog Catalog, history HistoryStore, favorites FavoritesStore) *SearchController {
	return &SearchController{catalog: catalog, history: history, favorites: favorites}
}

type SearchResponse struct {
	Query   string     `json:"query"`
	Results []BookView `json:"results"`
	History []string   `json:"history"`
}

// Search handles GET /api/search?q=
// The query is added to the history only after the catalog answered.
func (sc *SearchController) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		respondBadRequest(c, "query is required")
		return
	}

	books, err := sc.catalog.Search(c.Request.Context(), query)
	if err != nil {
		respondCatalogError(c, err, "search")
		return
	}

	history, err := sc.history.Record(query)
	if err != nil {
		// The results are still valid; report the history as it was
		log.Printf("[HISTORY] Failed to record %q: %v", query, err)
		history = sc.history.List()
	}

	c.JSON(http.StatusOK, SearchResponse{
		Query:   query,
		Results: newBookViews(books, sc.favorites),
		History: history,
	})
}
