// Package history keeps recent search queries and derives suggestions from them.
package history

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/kvstore"
)

// MaxEntries bounds the history length.
const MaxEntries = 5

// Store is the sole writer of the searchHistory key. Entries are
// most-recent-first and unique under case-insensitive comparison.
type Store struct {
	kv kvstore.Store

	mu      sync.RWMutex
	entries []string
}

// NewStore loads history from kv, falling back to empty on a missing or
// corrupt value. Loaded entries are normalized to the same invariants that
// Record maintains.
func NewStore(kv kvstore.Store) *Store {
	var stored []string
	if _, err := kvstore.LoadJSON(kv, entities.SettingKeySearchHistory, &stored); err != nil {
		log.Printf("[HISTORY] Ignoring unreadable search history, starting empty: %v", err)
		stored = nil
	}

	var entries []string
	for _, q := range stored {
		q = strings.TrimSpace(q)
		if q == "" || indexFold(entries, q) >= 0 {
			continue
		}
		entries = append(entries, q)
		if len(entries) == MaxEntries {
			break
		}
	}

	return &Store{kv: kv, entries: entries}
}

// Record moves query to the front of the history and returns the result.
// Blank queries leave the history unchanged.
func (s *Store) Record(query string) ([]string, error) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	defer s.mu.Unlock()

	if query == "" {
		return clone(s.entries), nil
	}

	next := make([]string, 0, MaxEntries)
	next = append(next, query)
	for _, e := range s.entries {
		if len(next) == MaxEntries {
			break
		}
		if strings.EqualFold(e, query) {
			continue
		}
		next = append(next, e)
	}

	if err := kvstore.SaveJSON(s.kv, entities.SettingKeySearchHistory, next); err != nil {
		return clone(s.entries), fmt.Errorf("record search %q: %w", query, err)
	}

	s.entries = next
	return clone(next), nil
}

// List returns the history, most recent first.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return clone(s.entries)
}

// Clear empties the history.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := kvstore.SaveJSON(s.kv, entities.SettingKeySearchHistory, []string{}); err != nil {
		return fmt.Errorf("clear search history: %w", err)
	}
	s.entries = nil
	return nil
}

// Suggestions filters the current history against partial.
func (s *Store) Suggestions(partial string) []string {
	return Suggest(partial, s.List())
}

func indexFold(entries []string, q string) int {
	for i, e := range entries {
		if strings.EqualFold(e, q) {
			return i
		}
	}
	return -1
}

func clone(entries []string) []string {
	out := make([]string, len(entries))
	copy(out, entries)
	return out
}
