package http

import (
	"github.com/gin-gonic/gin"
)

// NewRouter creates and configures the HTTP router with all endpoints.
// Uses RouterConfig to receive all dependencies. Core stores are required;
// feed, thumbnails, tasks and metrics routes are registered only when
// configured.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())

	if cfg.Metrics != nil {
		router.Use(MetricsMiddleware(cfg.Metrics))
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.Preferences != nil {
		router.Use(newDisplayMode(cfg.Preferences).Handler())
	}

	// Health endpoints
	health := NewHealthController(cfg.Database, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	api := router.Group("/api")

	// Home feed
	if cfg.Feed != nil {
		home := NewHomeController(cfg.Feed, cfg.Favorites)
		api.GET("/home", home.GetHome)
	}

	// Search and book endpoints
	search := NewSearchController(cfg.Catalog, cfg.History, cfg.Favorites)
	api.GET("/search", search.Search)

	books := NewBooksController(cfg.Catalog, cfg.Favorites, cfg.Thumbnails)
	api.GET("/books/:id", books.GetBook)
	if cfg.Thumbnails != nil {
		api.GET("/books/:id/thumbnail", books.GetThumbnail)
	}

	// Favorites endpoints
	favorites := NewFavoritesController(cfg.Favorites)
	api.GET("/favorites", favorites.ListFavorites)
	api.POST("/favorites", favorites.AddFavorite)
	api.GET("/favorites/:id", favorites.GetFavorite)
	api.DELETE("/favorites/:id", favorites.RemoveFavorite)

	// History and suggestions
	history := NewHistoryController(cfg.History)
	api.GET("/history", history.GetHistory)
	api.DELETE("/history", history.ClearHistory)
	api.GET("/suggestions", history.Suggest)

	// Preferences
	if cfg.Preferences != nil {
		prefs := NewPreferencesController(cfg.Preferences)
		api.GET("/preferences", prefs.GetPreferences)
		api.PUT("/preferences", prefs.UpdatePreferences)
		api.POST("/preferences/toggle", prefs.TogglePreferences)
	}

	// Task management endpoints
	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks)
		api.GET("/tasks/types", tasksController.ListTaskTypes)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
		api.POST("/tasks/:type/run", tasksController.RunTask)
	}

	return router
}
