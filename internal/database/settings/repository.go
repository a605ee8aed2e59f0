// Package settings provides the gorm repository behind the local key/value store.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	err := repo.SetSetting("darkMode", "true")
//	setting, err := repo.GetSetting("darkMode")
package settings

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// Repository handles all key/value database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetSetting retrieves a setting by key. Returns gorm.ErrRecordNotFound for unknown keys.
func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	err := r.db.Where("key = ?", key).First(&setting).Error
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// SetSetting creates or replaces the value for key in a single statement.
func (r *Repository) SetSetting(key, value string) error {
	setting := entities.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSetting removes a setting by key. Deleting an absent key is not an error.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}

// Keys lists every stored key in alphabetical order.
func (r *Repository) Keys() ([]string, error) {
	var keys []string
	err := r.db.Model(&entities.Setting{}).Order("key ASC").Pluck("key", &keys).Error
	return keys, err
}
