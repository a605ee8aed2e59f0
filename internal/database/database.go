package database

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/bookfinder/internal/database/settings"
	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/kvstore"
)

// Database is the on-device store. It satisfies kvstore.Store so the
// favorites, history and preference stores can persist through it.
type Database struct {
	DB       *gorm.DB
	settings *settings.Repository
}

var _ kvstore.Store = (*Database)(nil)

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Setting{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db, settings: settings.NewRepository(db)}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// Get returns the raw value for key, or kvstore.ErrNotFound.
func (d *Database) Get(key string) (string, error) {
	setting, err := d.settings.GetSetting(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", kvstore.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w", key, err)
	}
	return setting.Value, nil
}

func (d *Database) Set(key, value string) error {
	if err := d.settings.SetSetting(key, value); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

func (d *Database) Delete(key string) error {
	if err := d.settings.DeleteSetting(key); err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return nil
}

// Keys lists every persisted key.
func (d *Database) Keys() ([]string, error) {
	return d.settings.Keys()
}
