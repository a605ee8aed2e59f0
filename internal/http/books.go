package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// BooksController serves book details and thumbnails.
type BooksController struct {
	catalog    Catalog
	favorites  FavoritesStore
	thumbnails ThumbnailCache
}

func NewBooksController(catalog Catalog, favorites FavoritesStore, thumbnails ThumbnailCache) *BooksController {
	return &BooksController{catalog: catalog, favorites: favorites, thumbnails: thumbnails}
}

// GetBook handles GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondCatalogError(c, err, "book")
		return
	}

	c.JSON(http.StatusOK, newBookDetailView(*book, bc.favorites))
}

// GetThumbnail serves a cached book thumbnail.
// GET /api/books/:id/thumbnail
func (bc *BooksController) GetThumbnail(c *gin.Context) {
	id, ok := requireParam(c, "id")
	if !ok {
		return
	}

	// Favorites carry their own snapshot, so they need no catalog round trip
	var thumbnailURL string
	if fav, found := bc.favorites.Get(id); found {
		thumbnailURL = fav.ThumbnailURL
	} else {
		book, err := bc.catalog.GetByID(c.Request.Context(), id)
		if err != nil {
			respondCatalogError(c, err, "book")
			return
		}
		thumbnailURL = book.ThumbnailURL
	}

	if thumbnailURL == "" {
		respondNotFound(c, "thumbnail")
		return
	}

	// Get cached thumbnail (will fetch if not cached)
	cachePath, err := bc.thumbnails.GetThumbnail(c.Request.Context(), id, thumbnailURL)
	if err != nil || cachePath == "" {
		if err != nil {
			log.Printf("Thumbnail cache miss for %s: %v", id, err)
		}
		// Fallback: redirect to original URL
		c.Redirect(http.StatusTemporaryRedirect, thumbnailURL)
		return
	}

	// Serve the cached file
	c.File(cachePath)
}
