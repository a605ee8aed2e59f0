package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HistoryController exposes recent searches and the suggestions built on them.
type HistoryController struct {
	store HistoryStore
}

func NewHistoryController(store HistoryStore) *HistoryController {
	return &HistoryController{store: store}
}

// GetHistory handles GET /api/history
func (hc *HistoryController) GetHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": hc.store.List()})
}

// ClearHistory handles DELETE /api/history
func (hc *HistoryController) ClearHistory(c *gin.Context) {
	if err := hc.store.Clear(); err != nil {
		respondInternalError(c, err, "clear history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": []string{}})
}

// Suggest handles GET /api/suggestions?q=
// Called on every keystroke; an empty q yields no suggestions.
func (hc *HistoryController) Suggest(c *gin.Context) {
	partial := c.Query("q")
	c.JSON(http.StatusOK, gin.H{
		"query":       partial,
		"suggestions": hc.store.Suggestions(partial),
	})
}
