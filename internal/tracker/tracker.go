// Package tracker wires the status poller, history store, screenshot
// fetcher, and card renderer into the service the HTTP layer calls.
package tracker

import (
	"context"
	"time"

	"github.com/kvba0000/gms-stats-tracker-go/internal/config"
	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/gms"
	"github.com/kvba0000/gms-stats-tracker-go/internal/history"
	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
	"github.com/kvba0000/gms-stats-tracker-go/internal/render"
	"github.com/kvba0000/gms-stats-tracker-go/internal/screenshot"
)

// Tracker owns the data-refresh-and-render pipeline. Construct with New,
// optionally Configure the poll period, then Run the poll loop; GetCard
// serves render requests concurrently with polling.
type Tracker struct {
	log      *logger.Logger
	client   *gms.Client
	history  *history.Store
	screens  *screenshot.Fetcher
	renderer *render.Renderer
	interval time.Duration
}

// New creates a Tracker from configuration.
func New(cfg *config.Config, log *logger.Logger) (*Tracker, error) {
	client := gms.NewClient(cfg.UpstreamURL, cfg.HTTPTimeout.Std())

	renderer, err := render.NewRenderer(cfg.CardFormat, cfg.JPEGQuality, log)
	if err != nil {
		return nil, err
	}

	return &Tracker{
		log:      log,
		client:   client,
		history:  history.NewStore(),
		screens:  screenshot.NewFetcher(client, log, cfg.ScreenshotTTL.Std(), cfg.DownloadWorkers),
		renderer: renderer,
		interval: cfg.PollInterval(),
	}, nil
}

// Configure sets the poll period in minutes. Non-positive values fall
// back to the 10-minute default. Takes effect on the next Run.
func (t *Tracker) Configure(pollIntervalMinutes int) {
	if pollIntervalMinutes <= 0 {
		pollIntervalMinutes = constants.DefaultPollIntervalMinutes
	}
	t.interval = time.Duration(pollIntervalMinutes) * time.Minute
}

// Run starts the poll loop and blocks until the context is cancelled.
// The first poll runs immediately so the store is warm before requests
// arrive. The timer is fixed-period: a slow upstream fetch delays that
// cycle's data but never shifts the schedule.
func (t *Tracker) Run(ctx context.Context) error {
	t.log.Info("📊 Poller started", "interval", t.interval.String())

	t.pollOnce(ctx)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("Poller stopping")
			return ctx.Err()
		case <-ticker.C:
			t.pollOnce(ctx)
		}
	}
}

// pollOnce fetches the status document and merges it into the history
// store. A failed cycle is logged and skipped; the data simply stays
// stale until the next tick.
func (t *Tracker) pollOnce(ctx context.Context) {
	games, err := t.client.FetchStatus(ctx)
	if err != nil {
		if ctx.Err() == nil {
			t.log.Warn("Status poll failed, skipping cycle", "error", err)
		}
		return
	}

	changed := 0
	for _, g := range games {
		if t.history.Upsert(g.ID, g.Title, g.Connected) {
			t.renderer.Invalidate(g.ID)
			changed++
		}
	}

	t.log.Info("Status poll complete", "games", len(games), "changed", changed)
}

// GetCard returns the rendered stat card for a game. found=false means
// the game has no history yet; otherwise a card is always produced, with
// or without a screenshot backdrop.
func (t *Tracker) GetCard(ctx context.Context, id int) ([]byte, bool) {
	gameID := model.GameID(id)

	rec, ok := t.history.Snapshot(gameID)
	if !ok {
		return nil, false
	}

	// A valid cached card skips the screenshot path entirely.
	if payload, ok := t.renderer.Cached(gameID); ok {
		return payload, true
	}

	shot, _ := t.screens.Get(ctx, gameID)

	payload, err := t.renderer.Render(rec, shot, true)
	if err != nil {
		t.log.Error("Card render failed", "game", id, "title", rec.Title, "error", err)
		return nil, false
	}
	return payload, true
}

// Games returns a snapshot of every tracked game, sorted by id.
func (t *Tracker) Games() []model.GameRecord {
	return t.history.All()
}

// ContentType returns the MIME type of rendered cards.
func (t *Tracker) ContentType() string {
	return t.renderer.ContentType()
}
