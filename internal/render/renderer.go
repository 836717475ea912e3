// Package render composes player-count stat cards: a processed screenshot
// backdrop, the formatted count with a soft shadow, a percent-change
// indicator, the game title, and a footer of previous values. Rendered
// cards are cached per game until the poller observes new data.
package render

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/kvba0000/gms-stats-tracker-go/internal/constants"
	"github.com/kvba0000/gms-stats-tracker-go/internal/logger"
	"github.com/kvba0000/gms-stats-tracker-go/internal/model"
	"github.com/kvba0000/gms-stats-tracker-go/internal/utils"
)

// Card palette and type scale.
const (
	backgroundColor = "#333333"
	textColor       = "#ffffff"
	footerColor     = "#cccccc"
	positiveColor   = "#00ff00"
	negativeColor   = "#ff0000"

	countFontSize   = 260
	percentFontSize = 60
	titleFontSize   = 50
	footerFontSize  = 30

	// Backdrop processing: blur sigma and brightness reduction (percent).
	backdropBlurSigma  = 5
	backdropDimPercent = -50
)

// Renderer composes stat-card bitmaps and owns the rendered-card cache.
// Safe for concurrent use.
type Renderer struct {
	format      string
	jpegQuality int
	log         *logger.Logger

	countFace   font.Face
	percentFace font.Face
	titleFace   font.Face
	footerFace  font.Face

	cache        *cardCache
	compositions atomic.Int64
}

// NewRenderer creates a Renderer that encodes cards in the given format
// ("png" or "jpeg").
func NewRenderer(format string, jpegQuality int, log *logger.Logger) (*Renderer, error) {
	ft, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing embedded font: %w", err)
	}

	r := &Renderer{
		format:      format,
		jpegQuality: jpegQuality,
		log:         log,
		cache:       newCardCache(),
	}

	for _, f := range []struct {
		face *font.Face
		size float64
	}{
		{&r.countFace, countFontSize},
		{&r.percentFace, percentFontSize},
		{&r.titleFace, titleFontSize},
		{&r.footerFace, footerFontSize},
	} {
		face, err := opentype.NewFace(ft, &opentype.FaceOptions{
			Size:    f.size,
			DPI:     72,
			Hinting: font.HintingFull,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %gpx font face: %w", f.size, err)
		}
		*f.face = face
	}

	return r, nil
}

// ContentType returns the MIME type of rendered cards.
func (r *Renderer) ContentType() string {
	if r.format == "jpeg" {
		return "image/jpeg"
	}
	return "image/png"
}

// Cached returns the cached card for a game when it is still valid.
func (r *Renderer) Cached(id model.GameID) ([]byte, bool) {
	return r.cache.get(id)
}

// Invalidate marks the cached card for one game as stale. Other games'
// entries are unaffected.
func (r *Renderer) Invalidate(id model.GameID) {
	r.cache.invalidate(id)
}

// Compositions returns how many cards have been composed from scratch.
func (r *Renderer) Compositions() int64 {
	return r.compositions.Load()
}

// Render returns the card bytes for a game record. With useCache set, a
// valid cached card is returned without any composition work. Otherwise
// the card is composed, encoded, cached as valid, and returned. A nil or
// undecodable screenshot is not an error; the card falls back to the
// plain background.
func (r *Renderer) Render(rec model.GameRecord, screenshot []byte, useCache bool) ([]byte, error) {
	if useCache {
		if payload, ok := r.cache.get(rec.ID); ok {
			return payload, nil
		}
	}

	r.compositions.Add(1)
	dc := r.compose(rec, screenshot)

	var buf bytes.Buffer
	var err error
	if r.format == "jpeg" {
		err = imaging.Encode(&buf, dc.Image(), imaging.JPEG, imaging.JPEGQuality(r.jpegQuality))
	} else {
		err = imaging.Encode(&buf, dc.Image(), imaging.PNG)
	}
	if err != nil {
		return nil, fmt.Errorf("encoding card for game %d: %w", int(rec.ID), err)
	}

	payload := buf.Bytes()
	r.cache.set(rec.ID, payload)
	return payload, nil
}

func (r *Renderer) compose(rec model.GameRecord, screenshot []byte) *gg.Context {
	width := float64(constants.CardWidth)
	height := float64(constants.CardHeight)

	dc := gg.NewContext(constants.CardWidth, constants.CardHeight)
	dc.SetHexColor(backgroundColor)
	dc.Clear()

	r.drawBackdrop(dc, rec.ID, screenshot)

	// Count text, optically centered from measured advance and ascent.
	countText := utils.FormatCount(int64(rec.Last()))
	dc.SetFontFace(r.countFace)
	countWidth, _ := dc.MeasureString(countText)
	countAscent := faceAscent(r.countFace)
	countX := width/2 - countWidth/2
	countY := height/2 + countAscent/2

	drawShadow(dc, countX, countY, countWidth, countAscent)

	dc.SetFontFace(r.countFace)
	dc.SetHexColor(textColor)
	dc.DrawString(countText, countX, countY)

	if pct, ok := percentChange(rec); ok {
		r.drawPercent(dc, pct, countX+countWidth, countY)
	}

	// Title, centered at roughly one quarter height.
	dc.SetFontFace(r.titleFace)
	dc.SetHexColor(textColor)
	titleWidth, _ := dc.MeasureString(rec.Title)
	titleY := (height/2 + faceAscent(r.titleFace)/2) / 2
	dc.DrawString(rec.Title, width/2-titleWidth/2, titleY)

	r.drawFooter(dc, rec)

	return dc
}

// drawBackdrop blurs and darkens the screenshot and stretches it over the
// whole canvas. Missing or undecodable bytes leave the plain background.
func (r *Renderer) drawBackdrop(dc *gg.Context, id model.GameID, screenshot []byte) {
	if len(screenshot) == 0 {
		return
	}

	img, err := imaging.Decode(bytes.NewReader(screenshot))
	if err != nil {
		r.log.Debug("Screenshot does not decode, using plain background",
			"game", int(id), "error", err)
		return
	}

	processed := imaging.Blur(img, backdropBlurSigma)
	processed = imaging.AdjustBrightness(processed, backdropDimPercent)
	processed = imaging.Resize(processed, constants.CardWidth, constants.CardHeight, imaging.Lanczos)
	dc.DrawImage(processed, 0, 0)
}

// drawShadow paints a soft ellipse behind the count text, sized relative
// to the text's measured box.
func drawShadow(dc *gg.Context, textX, baselineY, textWidth, ascent float64) {
	shadowW := textWidth * 1.5
	shadowH := ascent / 2
	shadowX := textX - textWidth*0.2
	shadowY := baselineY - ascent*0.1

	dc.SetRGBA(0, 0, 0, 0.45)
	dc.DrawEllipse(shadowX+shadowW/2, shadowY+shadowH/2, shadowW/2, shadowH/2)
	dc.Fill()
}

// drawPercent renders the percent-change text right of the count plus a
// directional arrow sized to half the percent text's width.
func (r *Renderer) drawPercent(dc *gg.Context, pct int, countRightX, countBaselineY float64) {
	color := positiveColor
	if pct < 0 {
		color = negativeColor
	}

	text := strconv.Itoa(pct) + "%"
	dc.SetFontFace(r.percentFace)
	textWidth, _ := dc.MeasureString(text)

	x := countRightX + 10
	y := countBaselineY + faceDescent(r.countFace)

	dc.SetHexColor(color)
	dc.DrawString(text, x, y)

	arrowSize := textWidth / 2
	drawArrow(dc, x+textWidth+8, y-arrowSize, arrowSize, pct > 0)
}

// drawArrow draws an up or down triangle in the square whose top-left
// corner is (x, y). The current color is reused.
func drawArrow(dc *gg.Context, x, y, size float64, up bool) {
	if up {
		dc.MoveTo(x+size/2, y)
		dc.LineTo(x, y+size)
		dc.LineTo(x+size, y+size)
	} else {
		dc.MoveTo(x, y)
		dc.LineTo(x+size, y)
		dc.LineTo(x+size/2, y+size)
	}
	dc.ClosePath()
	dc.Fill()
}

// drawFooter lists up to five previous counts at the bottom of the card.
func (r *Renderer) drawFooter(dc *gg.Context, rec model.GameRecord) {
	prev := rec.Previous(constants.FooterValues)
	if len(prev) == 0 {
		return
	}

	values := make([]string, len(prev))
	for i, v := range prev {
		values[i] = strconv.Itoa(v)
	}

	dc.SetFontFace(r.footerFace)
	dc.SetHexColor(footerColor)

	width := float64(constants.CardWidth)
	height := float64(constants.CardHeight)
	lineHeight := dc.FontHeight() * 1.2

	lines := []string{
		"Previous values:",
		"( " + strings.Join(values, ", ") + " )",
	}
	for i, line := range lines {
		w, _ := dc.MeasureString(line)
		y := height - 20 - lineHeight*float64(len(lines)-1-i)
		dc.DrawString(line, width/2-w/2, y)
	}
}

// percentChange computes the rounded percent difference between the two
// most recent counts. It reports ok=false when there is no previous
// value, the previous value is zero, or the change rounds to zero, in
// which case no indicator is drawn at all.
func percentChange(rec model.GameRecord) (int, bool) {
	prev, ok := rec.SecondLast()
	if !ok || prev == 0 {
		return 0, false
	}
	last := rec.Last()
	if last == prev {
		return 0, false
	}
	pct := int(math.Round(float64(last-prev) / float64(prev) * 100))
	if pct == 0 {
		return 0, false
	}
	return pct, true
}

func faceAscent(f font.Face) float64 {
	return float64(f.Metrics().Ascent) / 64
}

func faceDescent(f font.Face) float64 {
	return float64(f.Metrics().Descent) / 64
}
