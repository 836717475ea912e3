// Package history owns the per-game sliding window of recent player
// counts. The poller is the only writer; renders and the HTTP layer read
// copies through Snapshot.
package history

import (
	"sort"
	"sync"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
)

// Store is an in-memory mapping of game id to its tracked record.
// Safe for concurrent use: a single writer (the poller) and many readers.
type Store struct {
	mu    sync.RWMutex
	games map[model.GameID]*model.GameRecord
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{games: make(map[model.GameID]*model.GameRecord)}
}

// Upsert records a newly observed player count for a game. On first
// sighting it creates the record with the given title and a one-element
// history and reports changed=true. Otherwise it appends the count,
// truncates the window to the most recent entries, and reports whether
// the count differs from the previous last value. The title is only set
// on creation. Repeated identical values still consume a window slot.
func (s *Store) Upsert(id model.GameID, title string, connected int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.games[id]
	if !ok {
		s.games[id] = &model.GameRecord{
			ID:      id,
			Title:   title,
			History: []int{connected},
		}
		return true
	}

	changed := rec.History[len(rec.History)-1] != connected
	rec.History = append(rec.History, connected)
	if len(rec.History) > constants.HistoryCapacity {
		rec.History = rec.History[len(rec.History)-constants.HistoryCapacity:]
	}
	return changed
}

// Snapshot returns a deep copy of the record for id. Safe to use
// concurrently with Upsert; the copy never observes a torn update.
func (s *Store) Snapshot(id model.GameID) (model.GameRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.games[id]
	if !ok {
		return model.GameRecord{}, false
	}
	return rec.Clone(), true
}

// All returns deep copies of every tracked record, sorted by id.
func (s *Store) All() []model.GameRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.GameRecord, 0, len(s.games))
	for _, rec := range s.games {
		out = append(out, rec.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of tracked games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}
