// Package favorites keeps the user's saved books.
//
// The collection is deduplicated by book id with first-write-wins semantics
// and is persisted in full under the "favorites" key on every change.
package favorites

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/kvstore"
)

// ErrInvalidBook is returned when a book without an id is added.
var ErrInvalidBook = errors.New("book id is required")

// Store is the sole writer of the favorites key. Safe for concurrent use.
type Store struct {
	kv  kvstore.Store
	now func() time.Time

	mu      sync.RWMutex
	entries []entities.Favorite
	ids     map[string]struct{}
}

// NewStore loads favorites from kv. A missing or corrupt value starts an
// empty collection; corruption is logged, never returned.
func NewStore(kv kvstore.Store) *Store {
	s := &Store{
		kv:  kv,
		now: time.Now,
		ids: make(map[string]struct{}),
	}

	var stored []entities.Favorite
	if _, err := kvstore.LoadJSON(kv, entities.SettingKeyFavorites, &stored); err != nil {
		log.Printf("[FAVORITES] Ignoring unreadable favorites, starting empty: %v", err)
		stored = nil
	}

	// Older writers may have persisted duplicates; keep the first occurrence.
	for _, f := range stored {
		if f.ID == "" {
			continue
		}
		if _, dup := s.ids[f.ID]; dup {
			continue
		}
		s.ids[f.ID] = struct{}{}
		s.entries = append(s.entries, f)
	}

	return s
}

// Add saves a snapshot of book unless its id is already present.
func (s *Store) Add(book entities.Book) error {
	book.ID = strings.TrimSpace(book.ID)
	if book.ID == "" {
		return ErrInvalidBook
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[book.ID]; ok {
		return nil
	}

	book.Authors = append([]string(nil), book.Authors...)
	if book.AverageRating != nil {
		r := *book.AverageRating
		book.AverageRating = &r
	}

	next := make([]entities.Favorite, len(s.entries), len(s.entries)+1)
	copy(next, s.entries)
	next = append(next, entities.Favorite{Book: book, AddedAt: s.now().UTC()})

	if err := kvstore.SaveJSON(s.kv, entities.SettingKeyFavorites, next); err != nil {
		return fmt.Errorf("add favorite %s: %w", book.ID, err)
	}

	s.entries = next
	s.ids[book.ID] = struct{}{}
	return nil
}

// Remove deletes the entry with id. Removing an absent id is a no-op.
func (s *Store) Remove(id string) error {
	id = strings.TrimSpace(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[id]; !ok {
		return nil
	}

	next := make([]entities.Favorite, 0, len(s.entries))
	for _, f := range s.entries {
		if f.ID != id {
			next = append(next, f)
		}
	}

	if err := kvstore.SaveJSON(s.kv, entities.SettingKeyFavorites, next); err != nil {
		return fmt.Errorf("remove favorite %s: %w", id, err)
	}

	s.entries = next
	delete(s.ids, id)
	return nil
}

// List returns favorites in the order they were first added.
func (s *Store) List() []entities.Favorite {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entities.Favorite, len(s.entries))
	copy(out, s.entries)
	return out
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.ids[strings.TrimSpace(id)]
	return ok
}

// Get returns the stored snapshot for id.
func (s *Store) Get(id string) (entities.Favorite, bool) {
	id = strings.TrimSpace(id)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.entries {
		if f.ID == id {
			return f, true
		}
	}
	return entities.Favorite{}, false
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
