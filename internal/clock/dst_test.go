package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nyc(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func TestDetectIgnoreShortCircuits(t *testing.T) {
	loc := nyc(t)
	first := time.Date(2024, 1, 15, 9, 0, 0, 0, loc)

	ctx := Detect(first, loc, true)
	assert.False(t, ctx.Anomaly())

	corrected, shifted := ctx.Correct(first.AddDate(0, 5, 0))
	assert.False(t, shifted)
	assert.Equal(t, first.AddDate(0, 5, 0), corrected)
}

func TestDetectStandardTimeFindsSpringForward(t *testing.T) {
	loc := nyc(t)
	first := time.Date(2024, 1, 15, 9, 0, 0, 0, loc)

	ctx := Detect(first, loc, false)
	require.True(t, ctx.Anomaly())

	// US 2024 spring-forward: 2024-03-10 02:00 EST -> 03:00 EDT.
	want := time.Date(2024, 3, 10, 3, 0, 0, 0, loc)
	assert.True(t, ctx.Transition().Equal(want),
		"transition %v, want %v", ctx.Transition(), want)
}

func TestDetectDSTFirstFrameNoAnomaly(t *testing.T) {
	loc := nyc(t)
	first := time.Date(2024, 7, 4, 12, 0, 0, 0, loc)

	ctx := Detect(first, loc, false)
	assert.False(t, ctx.Anomaly())
}

func TestDetectFixedOffsetZoneNoAnomaly(t *testing.T) {
	ctx := Detect(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC), time.UTC, false)
	assert.False(t, ctx.Anomaly())
}

func TestCorrectInclusiveBoundary(t *testing.T) {
	loc := nyc(t)
	transition := time.Date(2024, 3, 10, 3, 0, 0, 0, loc)
	ctx := ForceAnomaly(loc, transition)

	before := transition.Add(-time.Second)
	corrected, shifted := ctx.Correct(before)
	assert.False(t, shifted)
	assert.Equal(t, before, corrected)

	// Exactly at the transition instant: treated as post-transition.
	corrected, shifted = ctx.Correct(transition)
	assert.True(t, shifted)
	assert.Equal(t, transition.Add(time.Hour), corrected)

	after := transition.AddDate(0, 2, 0)
	corrected, shifted = ctx.Correct(after)
	assert.True(t, shifted)
	assert.Equal(t, time.Hour, corrected.Sub(after))
}

func TestCorrectIdempotence(t *testing.T) {
	loc := nyc(t)
	transition := time.Date(2024, 3, 10, 3, 0, 0, 0, loc)
	raw := transition.AddDate(0, 1, 0)

	corrected, shifted := ForceAnomaly(loc, transition).Correct(raw)
	require.True(t, shifted)

	// Re-running with the flag unset must not double-correct.
	again, shifted := Detect(raw, loc, true).Correct(corrected)
	assert.False(t, shifted)
	assert.Equal(t, corrected, again)
}

func TestDetectAutumnFirstFrameFindsNextSpring(t *testing.T) {
	loc := nyc(t)
	// November 2024 is back in standard time; the next spring-forward is
	// 2025-03-09.
	first := time.Date(2024, 11, 20, 9, 0, 0, 0, loc)

	ctx := Detect(first, loc, false)
	require.True(t, ctx.Anomaly())
	want := time.Date(2025, 3, 9, 3, 0, 0, 0, loc)
	assert.True(t, ctx.Transition().Equal(want))
}

func TestDetectSubSecondFirstFrame(t *testing.T) {
	loc := nyc(t)
	// A fractional-second first frame must not stall the transition
	// search or change the located instant.
	first := time.Date(2024, 1, 15, 9, 0, 0, 500_000_000, loc)

	ctx := Detect(first, loc, false)
	require.True(t, ctx.Anomaly())

	want := time.Date(2024, 3, 10, 3, 0, 0, 0, loc)
	assert.True(t, ctx.Transition().Equal(want),
		"transition %v, want %v", ctx.Transition(), want)
}

func TestDetectSouthernHemisphere(t *testing.T) {
	loc, err := time.LoadLocation("Australia/Sydney")
	require.NoError(t, err)

	// June is austral winter (standard time); DST starts the first
	// Sunday of October: 2024-10-06 02:00 -> 03:00.
	first := time.Date(2024, 6, 10, 9, 0, 0, 0, loc)
	ctx := Detect(first, loc, false)
	require.True(t, ctx.Anomaly())

	want := time.Date(2024, 10, 6, 3, 0, 0, 0, loc)
	assert.True(t, ctx.Transition().Equal(want))
}
