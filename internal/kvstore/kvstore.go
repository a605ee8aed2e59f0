// Package kvstore defines the durable key/value abstraction shared by the
// favorites, history and preference stores.
//
// Values are JSON text. Each key has exactly one owning store; nothing else
// writes it. Implementations:
//
//   - database.Database: SQLite-backed, survives restarts
//   - Memory: in-process map, used by tests
package kvstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written or was deleted.
var ErrNotFound = errors.New("key not found")

// Store is the persistent key/value contract.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// StorageError reports a persisted value that could not be read or decoded.
type StorageError struct {
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %q: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// LoadJSON decodes the value at key into dst. A missing key leaves dst
// untouched and returns (false, nil). Any read or decode failure is returned
// as *StorageError so callers can fall back to their default.
func LoadJSON(s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, &StorageError{Key: key, Err: err}
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, &StorageError{Key: key, Err: err}
	}
	return true, nil
}

// SaveJSON encodes v and writes it under key.
func SaveJSON(s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := s.Set(key, string(data)); err != nil {
		return fmt.Errorf("persist %q: %w", key, err)
	}
	return nil
}
