package entities

import (
	"time"
)

// Setting is one row of the local key/value store. Values are JSON text
// written by the store that owns the key.
type Setting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"uniqueIndex;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "kv_entries"
}

// Known setting keys
const (
	SettingKeyFavorites     = "favorites"
	SettingKeySearchHistory = "searchHistory"

	// Display mode is written under both keys: darkMode holds "true"/"false",
	// theme holds "dark"/"light".
	SettingKeyDarkMode = "darkMode"
	SettingKeyTheme    = "theme"
)
