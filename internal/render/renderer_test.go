package render

import (
	"bytes"
	"image"
	"image/png"
	"log/slog"
	"testing"

	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	log, err := logger.Setup(logger.Config{Level: slog.LevelError, Colored: false})
	if err != nil {
		t.Fatalf("logger setup: %v", err)
	}
	r, err := NewRenderer("png", 90, log)
	if err != nil {
		t.Fatalf("renderer setup: %v", err)
	}
	return r
}

func decodeCard(t *testing.T, payload []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("card does not decode as png: %v", err)
	}
	return img
}

// hasColor scans for a pixel matching the predicate.
func hasColor(img image.Image, match func(r, g, b uint32) bool) bool {
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if match(r, g, b) {
				return true
			}
		}
	}
	return false
}

func isGreen(r, g, b uint32) bool { return g > 0xc000 && r < 0x4000 && b < 0x4000 }
func isRed(r, g, b uint32) bool   { return r > 0xc000 && g < 0x4000 && b < 0x4000 }
func isWhite(r, g, b uint32) bool { return r > 0xf000 && g > 0xf000 && b > 0xf000 }

func TestRenderDimensionsAndFallbackBackground(t *testing.T) {
	r := testRenderer(t)

	rec := model.GameRecord{ID: 1, Title: "Demo", History: []int{80, 100}}
	payload, err := r.Render(rec, nil, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	img := decodeCard(t, payload)
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 800 {
		t.Fatalf("unexpected dimensions %v", img.Bounds())
	}
	if !hasColor(img, isWhite) {
		t.Error("expected white count/title text on the card")
	}
	// (100-80)/80*100 = 25 -> green indicator present.
	if !hasColor(img, isGreen) {
		t.Error("expected green percent indicator for rising count")
	}
}

func TestRenderNoIndicatorWhenFlat(t *testing.T) {
	r := testRenderer(t)

	rec := model.GameRecord{ID: 2, Title: "Flat", History: []int{100, 100}}
	payload, err := r.Render(rec, nil, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img := decodeCard(t, payload)
	if hasColor(img, isGreen) || hasColor(img, isRed) {
		t.Error("equal values must draw no indicator")
	}
}

func TestRenderNoIndicatorWithoutPrevious(t *testing.T) {
	r := testRenderer(t)

	rec := model.GameRecord{ID: 3, Title: "Fresh", History: []int{100}}
	payload, err := r.Render(rec, nil, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img := decodeCard(t, payload)
	if hasColor(img, isGreen) || hasColor(img, isRed) {
		t.Error("single-element history must draw no indicator")
	}
}

func TestRenderRedIndicatorWhenFalling(t *testing.T) {
	r := testRenderer(t)

	rec := model.GameRecord{ID: 4, Title: "Falling", History: []int{200, 100}}
	payload, err := r.Render(rec, nil, false)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	img := decodeCard(t, payload)
	if !hasColor(img, isRed) {
		t.Error("expected red indicator for falling count")
	}
	if hasColor(img, isGreen) {
		t.Error("falling count must not draw green")
	}
}

func TestRenderCacheHitSkipsComposition(t *testing.T) {
	r := testRenderer(t)
	rec := model.GameRecord{ID: 5, Title: "Cached", History: []int{10, 20}}

	first, err := r.Render(rec, nil, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if r.Compositions() != 1 {
		t.Fatalf("expected 1 composition, got %d", r.Compositions())
	}

	second, err := r.Render(rec, nil, true)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("cache hit must return byte-identical output")
	}
	if r.Compositions() != 1 {
		t.Errorf("cache hit must not compose, compositions=%d", r.Compositions())
	}
}

func TestInvalidatePerIDIsolation(t *testing.T) {
	r := testRenderer(t)
	recX := model.GameRecord{ID: 10, Title: "X", History: []int{1, 2}}
	recY := model.GameRecord{ID: 11, Title: "Y", History: []int{3, 4}}

	if _, err := r.Render(recX, nil, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := r.Render(recY, nil, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	base := r.Compositions()

	r.Invalidate(recX.ID)

	if _, ok := r.Cached(recX.ID); ok {
		t.Error("invalidated entry must not be served")
	}
	if _, ok := r.Cached(recY.ID); !ok {
		t.Error("invalidating X must not affect Y")
	}

	// X recomposes, Y still hits.
	if _, err := r.Render(recX, nil, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := r.Render(recY, nil, true); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := r.Compositions(); got != base+1 {
		t.Errorf("expected exactly one recomposition, got %d", got-base)
	}
}

func TestRenderIgnoresUndecodableScreenshot(t *testing.T) {
	r := testRenderer(t)
	rec := model.GameRecord{ID: 6, Title: "Broken", History: []int{42}}

	payload, err := r.Render(rec, []byte("definitely-not-an-image"), false)
	if err != nil {
		t.Fatalf("render must tolerate bad screenshot bytes: %v", err)
	}
	img := decodeCard(t, payload)
	if img.Bounds().Dx() != 1200 || img.Bounds().Dy() != 800 {
		t.Fatalf("unexpected dimensions %v", img.Bounds())
	}
}

func TestPercentChange(t *testing.T) {
	cases := []struct {
		history []int
		want    int
		ok      bool
	}{
		{[]int{100, 150}, 50, true},
		{[]int{100, 100}, 0, false},
		{[]int{100}, 0, false},
		{[]int{0, 50}, 0, false},
		{[]int{200, 100}, -50, true},
		{[]int{80, 100}, 25, true},
		{[]int{1000, 1001}, 0, false},
		{[]int{3, 4}, 33, true},
	}

	for _, tc := range cases {
		got, ok := percentChange(model.GameRecord{History: tc.history})
		if got != tc.want || ok != tc.ok {
			t.Errorf("percentChange(%v) = (%d, %v); want (%d, %v)",
				tc.history, got, ok, tc.want, tc.ok)
		}
	}
}
