// Package fade computes per-frame blend weights toward a neutral black
// frame and applies them, smoothing the cut at the start and end of each
// day's sequence.
package fade

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"time"

	"daylapse/internal/types"
)

// Weight returns the blend strength in [0, 1] for a frame at ts within
// its day group. The weight is 1 - min(1, t/fade) measured from each of
// the group's edge frames, and the frame takes the maximum of the two:
// on a day shorter than twice the fade duration the zones overlap and
// the max keeps the weight continuous through the middle. A zero fade
// duration disables fading entirely.
func Weight(ts time.Time, g types.DayGroup, fade time.Duration) float64 {
	if fade <= 0 {
		return 0
	}
	sinceStart := ts.Sub(g.First)
	untilEnd := g.Last.Sub(ts)
	return math.Max(edgeWeight(sinceStart, fade), edgeWeight(untilEnd, fade))
}

// edgeWeight maps a distance from a day boundary to a weight: 1 at the
// boundary, linearly down to 0 at the fade duration.
func edgeWeight(dist, fade time.Duration) float64 {
	if dist <= 0 {
		return 1
	}
	if dist >= fade {
		return 0
	}
	return 1 - float64(dist)/float64(fade)
}

// Blend darkens img toward neutral black by the given weight,
// per channel with integer rounding. Weight 0 returns the input
// unchanged; weight 1 yields a black frame.
func Blend(img image.Image, weight float64) image.Image {
	if weight <= 0 {
		return img
	}

	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	if weight >= 1 {
		draw.Draw(out, bounds, image.NewUniform(color.Black), image.Point{}, draw.Src)
		return out
	}

	keep := 1 - weight
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			out.SetRGBA(x, y, color.RGBA{
				R: scale8(r, keep),
				G: scale8(g, keep),
				B: scale8(b, keep),
				A: uint8(a >> 8),
			})
		}
	}
	return out
}

// scale8 scales a 16-bit premultiplied channel down to 8 bits and applies
// the keep factor with round-to-nearest.
func scale8(c uint32, keep float64) uint8 {
	return uint8(math.Round(float64(c>>8) * keep))
}
