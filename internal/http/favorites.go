package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/favorites"
)

type FavoritesController struct {
	store FavoritesStore
}

func NewFavoritesController(store FavoritesStore) *FavoritesController {
	return &FavoritesController{store: store}
}

type FavoritesResponse struct {
	Favorites []FavoriteView `json:"favorites"`
	Count     int            `json:"count"`
}

// ListFavorites returns saved books in the order they were added.
// GET /api/favorites
func (fc *FavoritesController) ListFavorites(c *gin.Context) {
	entries := fc.store.List()
	c.JSON(http.StatusOK, FavoritesResponse{
		Favorites: newFavoriteViews(entries),
		Count:     len(entries),
	})
}

// AddFavorite saves a book snapshot. Adding a book that is already saved
// keeps the original snapshot.
// POST /api/favorites
func (fc *FavoritesController) AddFavorite(c *gin.Context) {
	var book entities.Book
	if err := c.ShouldBindJSON(&book); err != nil {
		respondBadRequest(c, "invalid book: "+err.Error())
		return
	}

	if err := fc.store.Add(book); err != nil {
		if errors.Is(err, favorites.ErrInvalidBook) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "add favorite")
		return
	}

	entry, _ := fc.store.Get(book.ID)
	views := newFavoriteViews([]entities.Favorite{entry})
	c.JSON(http.StatusOK, gin.H{
		"message":  "favorite added",
		"favorite": views[0],
		"count":    fc.store.Count(),
	})
}

// GetFavorite reports whether a book is saved.
// GET /api/favorites/:id
func (fc *FavoritesController) GetFavorite(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	entry, found := fc.store.Get(id)
	if !found {
		c.JSON(http.StatusOK, gin.H{"id": id, "favorite": false})
		return
	}

	views := newFavoriteViews([]entities.Favorite{entry})
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": true, "entry": views[0]})
}

// RemoveFavorite deletes a saved book. Removing an unsaved id succeeds.
// DELETE /api/favorites/:id
func (fc *FavoritesController) RemoveFavorite(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	if err := fc.store.Remove(id); err != nil {
		respondInternalError(c, err, "remove favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "favorite removed", "count": fc.store.Count()})
}
