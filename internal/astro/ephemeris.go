package astro

import (
	"sync"
	"time"

	"daylapse/internal/types"
)

// Ephemeris is a per-date cache of sun windows for one fixed location.
// Many frames share a date, so each window is computed at most a handful
// of times and read many times. Lookups are lock-free via sync.Map; a
// race that computes the same date twice stores identical values, so the
// duplicate work is tolerated rather than locked against.
type Ephemeris struct {
	lat, lon float64
	loc      *time.Location
	windows  sync.Map // date key (string) -> types.SunWindow
}

// NewEphemeris validates the coordinates once and returns a cache bound
// to them.
func NewEphemeris(lat, lon float64, loc *time.Location) (*Ephemeris, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return nil, err
	}
	return &Ephemeris{lat: lat, lon: lon, loc: loc}, nil
}

// Window returns the sun window for the local calendar date containing t,
// computing and caching it on first use.
func (e *Ephemeris) Window(t time.Time) types.SunWindow {
	key := t.In(e.loc).Format("2006-01-02")
	if v, ok := e.windows.Load(key); ok {
		return v.(types.SunWindow)
	}
	// Coordinates were validated at construction; Window cannot fail here.
	w, _ := Window(t, e.lat, e.lon, e.loc)
	e.windows.Store(key, w)
	return w
}
