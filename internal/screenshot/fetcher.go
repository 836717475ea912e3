// Package screenshot retrieves representative photos for games from their
// detail pages, with a per-game TTL cache of the downloaded images.
package screenshot

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/gms"
	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
	"github.com/kvba0000/gms-stats-tracker-go/internal/workerpool"
)

type cacheEntry struct {
	images    [][]byte
	fetchedAt time.Time
}

// Fetcher scrapes, downloads, and caches game screenshots. A cache hit
// serves a random image from the game's set. A game with no screenshots
// is never cached, so later requests retry until one appears upstream.
//
// Two concurrent misses for the same id may both scrape; the duplicate
// work is bounded and rare given the TTL, so misses are not serialized.
type Fetcher struct {
	client  *gms.Client
	log     *logger.Logger
	ttl     time.Duration
	workers int

	mu      sync.RWMutex
	entries map[model.GameID]cacheEntry
}

// NewFetcher creates a Fetcher using the given upstream client.
func NewFetcher(client *gms.Client, log *logger.Logger, ttl time.Duration, workers int) *Fetcher {
	if ttl <= 0 {
		ttl = constants.DefaultScreenshotTTL
	}
	if workers <= 0 {
		workers = constants.DefaultDownloadWorkers
	}
	return &Fetcher{
		client:  client,
		log:     log,
		ttl:     ttl,
		workers: workers,
		entries: make(map[model.GameID]cacheEntry),
	}
}

// Get returns screenshot bytes for a game, fetching and caching on miss.
// found=false means the game currently has no scrapeable screenshots or
// the upstream could not be reached; that negative result is not cached.
func (f *Fetcher) Get(ctx context.Context, id model.GameID) ([]byte, bool) {
	if img, ok := f.cached(id); ok {
		return img, true
	}

	page, err := f.client.FetchGamePage(ctx, id)
	if err != nil {
		f.log.Debug("Game page fetch failed", "game", int(id), "error", err)
		return nil, false
	}

	ids := gms.ScreenshotIDs(page)
	if len(ids) == 0 {
		return nil, false
	}

	images := workerpool.Map(ctx, ids, f.workers, func(ctx context.Context, screenshotID string) ([]byte, error) {
		img, err := f.client.FetchScreenshot(ctx, screenshotID)
		if err != nil {
			f.log.Debug("Screenshot download failed",
				"game", int(id),
				"screenshot", screenshotID,
				"error", err,
			)
			return nil, err
		}
		return img, nil
	})
	if len(images) == 0 {
		return nil, false
	}

	f.mu.Lock()
	f.entries[id] = cacheEntry{images: images, fetchedAt: time.Now()}
	f.pruneLocked()
	f.mu.Unlock()

	f.log.Debug("Cached screenshots", "game", int(id), "count", len(images))
	return copyBytes(images[rand.IntN(len(images))]), true
}

// cached returns a random image for id if a fresh entry exists.
func (f *Fetcher) cached(id model.GameID) ([]byte, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	entry, ok := f.entries[id]
	if !ok || time.Since(entry.fetchedAt) > f.ttl {
		return nil, false
	}
	return copyBytes(entry.images[rand.IntN(len(entry.images))]), true
}

// pruneLocked drops expired entries. Caller holds the write lock.
func (f *Fetcher) pruneLocked() {
	for id, entry := range f.entries {
		if time.Since(entry.fetchedAt) > f.ttl {
			delete(f.entries, id)
		}
	}
}

func copyBytes(b []byte) []byte {
	cp := make([]byte, len(b))
	copy(cp, b)
	return cp
}
