package gms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const statusDoc = `{
	"incidents": [],
	"loadHistory": [0.1, 0.2],
	"status": [
		{
			"avgPing": 12.5,
			"cpu": 0.3,
			"games": [
				{"id": 0, "title": "(other)", "connected": 3},
				{"id": 101, "title": "Alpha Quest", "connected": 42, "loggedIn": 40, "numSessions": 12}
			]
		},
		{
			"games": [
				{"id": 202, "title": "Beta Arena", "connected": 7}
			]
		}
	]
}`

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	ts := httptest.NewServer(handler)
	return NewClient(ts.URL, 5*time.Second), ts
}

func TestFetchStatusFlattensAndFilters(t *testing.T) {
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dynamic/status.php" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(statusDoc))
	}))
	defer ts.Close()

	games, err := c.FetchStatus(context.Background())
	if err != nil {
		t.Fatalf("fetch status: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("expected 2 games after filtering, got %d", len(games))
	}
	if games[0].ID != 101 || games[0].Title != "Alpha Quest" || games[0].Connected != 42 {
		t.Errorf("unexpected first game: %+v", games[0])
	}
	if games[1].ID != 202 || games[1].Connected != 7 {
		t.Errorf("unexpected second game: %+v", games[1])
	}
}

func TestFetchStatusNonSuccess(t *testing.T) {
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	_, err := c.FetchStatus(context.Background())
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
}

func TestFetchStatusMalformed(t *testing.T) {
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>maintenance</html>"))
	}))
	defer ts.Close()

	_, err := c.FetchStatus(context.Background())
	if !errors.Is(err, ErrDecodeFailed) {
		t.Fatalf("expected ErrDecodeFailed, got %v", err)
	}
}

func TestScreenshotIDs(t *testing.T) {
	page := []byte(`<html><body>
		<img src="/logo.png">
		<img src="/thumb-screenshots/311/">
		<img src="/thumb-screenshots/312/">
		<img src="/thumb-screenshots/311/">
		<img src="/screenshots/999/">
	</body></html>`)

	ids := ScreenshotIDs(page)
	if len(ids) != 2 {
		t.Fatalf("expected 2 unique ids, got %v", ids)
	}
	if ids[0] != "311" || ids[1] != "312" {
		t.Errorf("unexpected ids %v", ids)
	}
}

func TestScreenshotIDsNone(t *testing.T) {
	if ids := ScreenshotIDs([]byte("<html><body><p>no media</p></body></html>")); len(ids) != 0 {
		t.Fatalf("expected no ids, got %v", ids)
	}
}

func TestFetchScreenshot(t *testing.T) {
	payload := []byte("raw-image-bytes")
	c, ts := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/screenshots/311/" {
			http.NotFound(w, r)
			return
		}
		if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
			t.Errorf("expected tracker user-agent, got %q", ua)
		}
		w.Write(payload)
	}))
	defer ts.Close()

	got, err := c.FetchScreenshot(context.Background(), "311")
	if err != nil {
		t.Fatalf("fetch screenshot: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("unexpected payload %q", got)
	}
}
