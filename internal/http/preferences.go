package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/preferences"
)

// PreferencesController reads and updates the display mode.
type PreferencesController struct {
	store PreferenceStore
}

func NewPreferencesController(store PreferenceStore) *PreferencesController {
	return &PreferencesController{store: store}
}

type PreferencesResponse struct {
	DarkMode bool   `json:"dark_mode"`
	Theme    string `json:"theme"`
}

// UpdatePreferencesRequest is the body of PUT /api/preferences.
type UpdatePreferencesRequest struct {
	DarkMode *bool `json:"dark_mode" binding:"required"`
}

// GetPreferences handles GET /api/preferences
func (pc *PreferencesController) GetPreferences(c *gin.Context) {
	pc.respond(c, pc.store.DarkMode())
}

// UpdatePreferences handles PUT /api/preferences
func (pc *PreferencesController) UpdatePreferences(c *gin.Context) {
	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "dark_mode is required")
		return
	}

	if err := pc.store.SetDarkMode(*req.DarkMode); err != nil {
		respondInternalError(c, err, "set dark mode")
		return
	}
	pc.respond(c, *req.DarkMode)
}

// TogglePreferences handles POST /api/preferences/toggle
func (pc *PreferencesController) TogglePreferences(c *gin.Context) {
	value, err := pc.store.Toggle()
	if err != nil {
		respondInternalError(c, err, "toggle dark mode")
		return
	}
	pc.respond(c, value)
}

// respond overrides X-Display-Mode so the response that changed the mode
// already carries the new value.
func (pc *PreferencesController) respond(c *gin.Context, darkMode bool) {
	theme := preferences.ThemeLight
	if darkMode {
		theme = preferences.ThemeDark
	}
	c.Header(headerDisplayMode, theme)
	c.JSON(http.StatusOK, PreferencesResponse{DarkMode: darkMode, Theme: theme})
}
