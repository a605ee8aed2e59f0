package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Catalog
		Feed
		Covers
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}

	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Catalog struct {
		BaseURL         string
		APIKey          string        // Optional Google Books API key
		Timeout         time.Duration // Per-request timeout
		MaxResults      int           // 0 lets the catalog decide
		RequestInterval time.Duration // Minimum gap between outgoing requests
	}
	Feed struct {
		Categories      []Category
		RefreshEnabled  bool
		RefreshSchedule string // Cron format: "*/30 * * * *" = every 30 minutes
	}
	Covers struct {
		Dir string // Thumbnail cache directory, defaults next to the database
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
)

// Category is one home feed section: a display title and the catalog query behind it.
type Category struct {
	Title string
	Query string
}

// DefaultCategories mirrors the sections shown on the home page.
var DefaultCategories = []Category{
	{Title: "Trending Books", Query: "bestsellers"},
	{Title: "New Releases", Query: "new releases"},
	{Title: "Top Rated", Query: "top rated"},
	{Title: "Recommended Books", Query: "recommended books"},
}

// ParseCategories parses "Title=query;Title=query". Entries without a title
// use the query as the title. Returns DefaultCategories for an empty string.
func ParseCategories(raw string) []Category {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return append([]Category(nil), DefaultCategories...)
	}

	var categories []Category
	for _, part := range strings.Split(raw, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		title, query, found := strings.Cut(part, "=")
		if !found {
			query = title
		}
		title = strings.TrimSpace(title)
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}
		if title == "" {
			title = query
		}
		categories = append(categories, Category{Title: title, Query: query})
	}

	if len(categories) == 0 {
		return append([]Category(nil), DefaultCategories...)
	}
	return categories
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8188)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Catalog defaults
	v.SetDefault("catalog_base_url", DefaultCatalogBaseURL)
	v.SetDefault("catalog_api_key", "")
	v.SetDefault("catalog_timeout", "10s")
	v.SetDefault("catalog_max_results", 0)
	v.SetDefault("catalog_request_interval", "0s")

	// Home feed defaults
	v.SetDefault("feed_categories", "")
	v.SetDefault("feed_refresh_enabled", true)
	v.SetDefault("feed_refresh_schedule", "*/30 * * * *")

	v.SetDefault("covers_dir", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Catalog: Catalog{
			BaseURL:         v.GetString("CATALOG_BASE_URL"),
			APIKey:          v.GetString("CATALOG_API_KEY"),
			Timeout:         v.GetDuration("CATALOG_TIMEOUT"),
			MaxResults:      v.GetInt("CATALOG_MAX_RESULTS"),
			RequestInterval: v.GetDuration("CATALOG_REQUEST_INTERVAL"),
		},
		Feed: Feed{
			Categories:      ParseCategories(v.GetString("FEED_CATEGORIES")),
			RefreshEnabled:  v.GetBool("FEED_REFRESH_ENABLED"),
			RefreshSchedule: v.GetString("FEED_REFRESH_SCHEDULE"),
		},
		Covers: Covers{
			Dir: v.GetString("COVERS_DIR"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
	}
}
