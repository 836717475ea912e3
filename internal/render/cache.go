package render

import (
	"sync"

	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
)

// cardCache holds rendered card bytes per game with a validity flag.
// Validity is not time-based: the poller clears it when a game's latest
// count changes, and only a successful re-render sets it again. Serving
// a hit never extends validity.
type cardCache struct {
	mu      sync.RWMutex
	entries map[model.GameID]*cardEntry
}

type cardEntry struct {
	payload []byte
	valid   bool
}

func newCardCache() *cardCache {
	return &cardCache{entries: make(map[model.GameID]*cardEntry)}
}

func (c *cardCache) get(id model.GameID) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[id]
	if !ok || !entry.valid {
		return nil, false
	}
	cp := make([]byte, len(entry.payload))
	copy(cp, entry.payload)
	return cp, true
}

func (c *cardCache) set(id model.GameID, payload []byte) {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	c.mu.Lock()
	c.entries[id] = &cardEntry{payload: cp, valid: true}
	c.mu.Unlock()
}

// invalidate clears the validity flag for one game only.
func (c *cardCache) invalidate(id model.GameID) {
	c.mu.Lock()
	if entry, ok := c.entries[id]; ok {
		entry.valid = false
	}
	c.mu.Unlock()
}
