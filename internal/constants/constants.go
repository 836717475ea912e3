// Package constants defines the GameMaker Server endpoints, default
// timeout/interval values, and the card canvas geometry used throughout
// the tracker.
package constants

import "time"

const (
	// UpstreamURL is the base GameMaker Server web URL.
	UpstreamURL = "https://gamemakerserver.com"
	// StatusPath is the dynamic status document path, relative to the base URL.
	StatusPath = "/dynamic/status.php"
	// GamePagePath is the per-game detail page path format (game id).
	GamePagePath = "/en/games/%d"
	// ScreenshotPath is the full-size screenshot path format (screenshot id).
	ScreenshotPath = "/screenshots/%s/"
	// ThumbScreenshotPrefix is the src prefix identifying thumbnail
	// screenshots on a game's detail page.
	ThumbScreenshotPrefix = "/thumb-screenshots/"
)

// UserAgent identifies the tracker on all upstream requests.
const UserAgent = "gms-stats-tracker-go / github.com/kvba0000/gms-stats-tracker-go"

const (
	// DefaultHTTPTimeout is the default timeout for upstream requests.
	DefaultHTTPTimeout = 15 * time.Second
	// DefaultPollIntervalMinutes is the status poll period when the
	// configuration leaves it unset or non-positive.
	DefaultPollIntervalMinutes = 10
	// DefaultScreenshotTTL is how long cached screenshots stay valid.
	// Long enough to amortize the scrape, short enough to pick up new
	// uploads within a few hours.
	DefaultScreenshotTTL = 3 * time.Hour
	// DefaultDownloadWorkers bounds concurrent screenshot downloads.
	DefaultDownloadWorkers = 4
	// DefaultGracefulShutdownTimeout is the timeout for HTTP server shutdown.
	DefaultGracefulShutdownTimeout = 5 * time.Second
)

const (
	// CardWidth and CardHeight are the fixed card canvas dimensions.
	CardWidth  = 1200
	CardHeight = 800
	// HistoryCapacity is the bounded per-game history window size.
	HistoryCapacity = 10
	// FooterValues is how many previous counts the card footer shows.
	FooterValues = 5
)
