// Package sequence turns corrected frames into an ordered, numbered
// multi-day timeline: it classifies frames against their date's sun
// window, drops night frames, groups the survivors by local calendar
// date, and assigns the global sequence numbers that fix the output
// order before any worker runs.
package sequence

import (
	"time"

	"daylapse/internal/types"
)

// Classify places a corrected timestamp against its date's sun window.
// Day inside [sunrise, sunset], Twilight inside the margin on either
// side, Night beyond the margin. Monotonic in margin: a frame accepted at
// margin m is accepted at any larger margin.
func Classify(ts time.Time, w types.SunWindow, margin time.Duration) types.Classification {
	switch w.Kind {
	case types.WindowPolarDay:
		return types.ClassDay
	case types.WindowPolarNight:
		return types.ClassNight
	}

	if !ts.Before(w.Sunrise) && !ts.After(w.Sunset) {
		return types.ClassDay
	}
	if !ts.Before(w.Sunrise.Add(-margin)) && !ts.After(w.Sunset.Add(margin)) {
		return types.ClassTwilight
	}
	return types.ClassNight
}
