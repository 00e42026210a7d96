package fade

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"daylapse/internal/types"
)

func group(duration time.Duration) types.DayGroup {
	first := time.Date(2024, 7, 12, 6, 0, 0, 0, time.UTC)
	return types.DayGroup{
		Date:  time.Date(2024, 7, 12, 0, 0, 0, 0, time.UTC),
		First: first,
		Last:  first.Add(duration),
	}
}

func TestWeightBoundaries(t *testing.T) {
	g := group(14 * time.Hour)
	fade := 30 * time.Minute

	assert.Equal(t, 1.0, Weight(g.First, g, fade), "first frame of the day")
	assert.Equal(t, 1.0, Weight(g.Last, g, fade), "last frame of the day")
	assert.Equal(t, 0.0, Weight(g.First.Add(7*time.Hour), g, fade), "midday")
	assert.InDelta(t, 0.5, Weight(g.First.Add(15*time.Minute), g, fade), 1e-9)
	assert.InDelta(t, 0.5, Weight(g.Last.Add(-15*time.Minute), g, fade), 1e-9)
	assert.Equal(t, 0.0, Weight(g.First.Add(fade), g, fade), "exact fade edge")
}

func TestWeightDecreasesFromBoundary(t *testing.T) {
	g := group(14 * time.Hour)
	fade := time.Hour

	prev := 2.0
	for _, offset := range []time.Duration{0, 10 * time.Minute, 30 * time.Minute, 50 * time.Minute, time.Hour} {
		w := Weight(g.First.Add(offset), g, fade)
		assert.LessOrEqual(t, w, prev, "offset %v", offset)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
		prev = w
	}
}

func TestWeightZeroFadeDisables(t *testing.T) {
	g := group(14 * time.Hour)
	assert.Equal(t, 0.0, Weight(g.First, g, 0))
	assert.Equal(t, 0.0, Weight(g.Last, g, 0))
}

func TestWeightShortDayOverlap(t *testing.T) {
	// Day shorter than 2*fade: zones overlap, the max keeps every weight
	// in [0,1] and at least the single-edge value.
	g := group(40 * time.Minute)
	fade := 30 * time.Minute

	for offset := time.Duration(0); offset <= 40*time.Minute; offset += 5 * time.Minute {
		ts := g.First.Add(offset)
		w := Weight(ts, g, fade)
		assert.GreaterOrEqual(t, w, 0.0)
		assert.LessOrEqual(t, w, 1.0)
		assert.GreaterOrEqual(t, w, edgeWeight(offset, fade))
	}

	// Midpoint of a 40-minute day with 30-minute fades: 20 minutes from
	// both edges, weight 1 - 20/30 from either side.
	mid := Weight(g.First.Add(20*time.Minute), g, fade)
	assert.InDelta(t, 1.0/3.0, mid, 1e-9)
}

func TestBlendWeights(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 100, B: 40, A: 255})
		}
	}

	same := Blend(img, 0)
	assert.Equal(t, img, same, "weight 0 must return the input unchanged")

	half := Blend(img, 0.5).(*image.RGBA).RGBAAt(1, 1)
	assert.Equal(t, uint8(100), half.R)
	assert.Equal(t, uint8(50), half.G)
	assert.Equal(t, uint8(20), half.B)
	assert.Equal(t, uint8(255), half.A)

	black := Blend(img, 1).(*image.RGBA).RGBAAt(0, 0)
	assert.Equal(t, uint8(0), black.R)
	assert.Equal(t, uint8(0), black.G)
	assert.Equal(t, uint8(0), black.B)
}

func TestBlendRounding(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 201, G: 0, B: 0, A: 255})

	// 201 * 0.5 = 100.5 rounds to 101.
	got := Blend(img, 0.5).(*image.RGBA).RGBAAt(0, 0)
	assert.Equal(t, uint8(101), got.R)
}
