// Package database provides the on-device persistence layer.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup, migrations, kvstore.Store adapter
//	└── settings/        # gorm repository for the kv_entries table
//
// All application state lives in a single key/value table. Each value is
// JSON text owned by exactly one store:
//
//	favorites      -> favorites.Store
//	searchHistory  -> history.Store
//	darkMode/theme -> preferences.Store
//
// # Usage
//
//	db, err := database.NewDatabase("./bookfinder.db")
//	defer db.Close()
//
//	favs := favorites.NewStore(db)
package database
