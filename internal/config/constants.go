package config

// Default paths for local storage
const (
	// DefaultDatabasePath is the default path for the local key/value database
	DefaultDatabasePath = "./bookfinder.db"

	// DefaultCatalogBaseURL is the Google Books API root
	DefaultCatalogBaseURL = "https://www.googleapis.com/books/v1"
)
