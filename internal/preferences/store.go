// Package preferences persists the display-mode flag and notifies
// presentation layers when it changes.
package preferences

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/kvstore"
)

const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Listener receives the new dark-mode value after it has been persisted.
type Listener func(darkMode bool)

// Store is the sole writer of the darkMode and theme keys.
type Store struct {
	kv kvstore.Store

	mu        sync.Mutex
	darkMode  bool
	nextID    int
	listeners map[int]Listener
}

// NewStore reads the persisted flag. darkMode wins over theme; if neither is
// readable the store starts in light mode.
func NewStore(kv kvstore.Store) *Store {
	return &Store{
		kv:        kv,
		darkMode:  load(kv),
		listeners: make(map[int]Listener),
	}
}

func load(kv kvstore.Store) bool {
	raw, err := kv.Get(entities.SettingKeyDarkMode)
	if err == nil {
		if v, perr := strconv.ParseBool(strings.TrimSpace(raw)); perr == nil {
			return v
		}
		log.Printf("[PREFERENCES] Ignoring unparsable %s value %q",
			entities.SettingKeyDarkMode, raw)
	} else if !errors.Is(err, kvstore.ErrNotFound) {
		log.Printf("[PREFERENCES] %v",
			&kvstore.StorageError{Key: entities.SettingKeyDarkMode, Err: err})
	}

	raw, err = kv.Get(entities.SettingKeyTheme)
	if err == nil {
		return strings.EqualFold(strings.TrimSpace(raw), ThemeDark)
	}
	return false
}

func (s *Store) DarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.darkMode
}

// Theme returns "dark" or "light".
func (s *Store) Theme() string {
	if s.DarkMode() {
		return ThemeDark
	}
	return ThemeLight
}

// SetDarkMode persists value immediately. Listeners run after the write
// and only when the value actually changed.
func (s *Store) SetDarkMode(value bool) error {
	s.mu.Lock()
	changed, err := s.setLocked(value)
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	if changed {
		for _, l := range listeners {
			l(value)
		}
	}
	return nil
}

// Toggle flips the flag and returns the new value.
func (s *Store) Toggle() (bool, error) {
	s.mu.Lock()
	value := !s.darkMode
	changed, err := s.setLocked(value)
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		return !value, err
	}
	if changed {
		for _, l := range listeners {
			l(value)
		}
	}
	return value, nil
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = l

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
		})
	}
}

func (s *Store) setLocked(value bool) (bool, error) {
	theme := ThemeLight
	if value {
		theme = ThemeDark
	}

	if err := s.kv.Set(entities.SettingKeyDarkMode, strconv.FormatBool(value)); err != nil {
		return false, fmt.Errorf("persist dark mode: %w", err)
	}
	if err := s.kv.Set(entities.SettingKeyTheme, theme); err != nil {
		// darkMode wins on load, so it must not keep a value the caller was told failed
		if rerr := s.kv.Set(entities.SettingKeyDarkMode, strconv.FormatBool(s.darkMode)); rerr != nil {
			log.Printf("[PREFERENCES] Failed to roll back %s: %v", entities.SettingKeyDarkMode, rerr)
		}
		return false, fmt.Errorf("persist theme: %w", err)
	}

	changed := s.darkMode != value
	s.darkMode = value
	return changed, nil
}

func (s *Store) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}
