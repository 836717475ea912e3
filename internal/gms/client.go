// Package gms provides the GameMaker Server upstream client: the dynamic
// status document, per-game detail pages, and screenshot downloads.
package gms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
)

// ErrFetchFailed marks a non-success response or transport failure on an
// upstream call. Callers recover by waiting for the next cycle or request.
var ErrFetchFailed = errors.New("upstream fetch failed")

// ErrDecodeFailed marks a malformed upstream document. Treated like a
// fetch failure: the cycle is skipped.
var ErrDecodeFailed = errors.New("upstream decode failed")

// thumbScreenshotRegex extracts the numeric screenshot id from a
// thumbnail src attribute.
var thumbScreenshotRegex = regexp.MustCompile(`/thumb-screenshots/(\d+)`)

// Read limits per response kind.
const (
	maxStatusBody     = 4 << 20
	maxPageBody       = 2 << 20
	maxScreenshotBody = 8 << 20
)

// Client is the HTTP client for the GameMaker Server endpoints.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL. Every request
// carries the tracker user-agent and the given timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = constants.DefaultHTTPTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchStatus fetches and decodes the status document, flattens the games
// of every reporting node into one list, and drops the upstream's id-0
// "(other)" sentinel entry. No retries; retry policy belongs to the poller.
func (c *Client) FetchStatus(ctx context.Context) ([]model.GameStatus, error) {
	body, err := c.get(ctx, c.baseURL+constants.StatusPath, maxStatusBody)
	if err != nil {
		return nil, err
	}

	var status model.StatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("decoding status document: %v: %w", err, ErrDecodeFailed)
	}

	var games []model.GameStatus
	for _, node := range status.Status {
		for _, g := range node.Games {
			if g.ID == 0 {
				continue
			}
			games = append(games, g)
		}
	}
	return games, nil
}

// FetchGamePage fetches the HTML detail page for a game.
func (c *Client) FetchGamePage(ctx context.Context, id model.GameID) ([]byte, error) {
	url := c.baseURL + fmt.Sprintf(constants.GamePagePath, int(id))
	return c.get(ctx, url, maxPageBody)
}

// ScreenshotIDs extracts the screenshot ids referenced by thumbnail
// images on a game detail page, in document order, deduplicated.
func ScreenshotIDs(page []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil
	}

	var ids []string
	seen := make(map[string]bool)
	doc.Find(`img[src^="` + constants.ThumbScreenshotPrefix + `"]`).Each(func(_ int, sel *goquery.Selection) {
		src, ok := sel.Attr("src")
		if !ok {
			return
		}
		m := thumbScreenshotRegex.FindStringSubmatch(src)
		if m == nil || seen[m[1]] {
			return
		}
		seen[m[1]] = true
		ids = append(ids, m[1])
	})
	return ids
}

// FetchScreenshot downloads the full-size image bytes for a screenshot id.
func (c *Client) FetchScreenshot(ctx context.Context, screenshotID string) ([]byte, error) {
	url := c.baseURL + fmt.Sprintf(constants.ScreenshotPath, screenshotID)
	return c.get(ctx, url, maxScreenshotBody)
}

// get issues one GET request and returns the bounded response body.
// Any transport error or non-2xx status wraps ErrFetchFailed.
func (c *Client) get(ctx context.Context, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", constants.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %v: %w", url, err, ErrFetchFailed)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching %s: status %d: %w", url, resp.StatusCode, ErrFetchFailed)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("reading response from %s: %v: %w", url, err, ErrFetchFailed)
	}
	return body, nil
}
