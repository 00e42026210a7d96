package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"os"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// overlayTimeFormat is the text stamped on each frame.
const overlayTimeFormat = "2006-01-02 15:04:05"

// Overlay renders a shadowed date/time stamp in the bottom-right corner
// of exported frames. The face is loaded once and shared, but opentype
// faces reuse an internal rasterizer buffer and are not safe for
// concurrent use, so Stamp serializes on a mutex. A single Overlay is
// then safe for concurrent use by export workers.
type Overlay struct {
	mu   sync.Mutex
	face font.Face
}

// NewOverlay creates an overlay renderer. When fontPath is non-empty the
// file is parsed as an OpenType font at the given size; otherwise the
// built-in 7x13 bitmap face is used.
func NewOverlay(fontPath string, size float64) (*Overlay, error) {
	if fontPath == "" {
		return &Overlay{face: basicfont.Face7x13}, nil
	}

	fontBytes, err := os.ReadFile(fontPath)
	if err != nil {
		return nil, fmt.Errorf("reading font file %s: %w", fontPath, err)
	}
	f, err := opentype.Parse(fontBytes)
	if err != nil {
		return nil, fmt.Errorf("parsing font file %s: %w", fontPath, err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("creating font face: %w", err)
	}
	return &Overlay{face: face}, nil
}

// Stamp draws the timestamp onto img, bottom-right, white over a black
// shadow offset by one pixel for legibility on bright skies.
func (o *Overlay) Stamp(img draw.Image, ts time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()

	text := ts.Format(overlayTimeFormat)
	bounds := img.Bounds()

	width := font.MeasureString(o.face, text).Ceil()
	metrics := o.face.Metrics()
	margin := 12

	x := bounds.Max.X - width - margin
	y := bounds.Max.Y - margin
	if x < bounds.Min.X {
		x = bounds.Min.X
	}
	if y-metrics.Ascent.Ceil() < bounds.Min.Y {
		y = bounds.Min.Y + metrics.Ascent.Ceil()
	}

	o.drawString(img, text, x+1, y+1, color.Black)
	o.drawString(img, text, x, y, color.White)
}

func (o *Overlay) drawString(img draw.Image, text string, x, y int, c color.Color) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: o.face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
