// Package types defines the shared domain model for the daylapse pipeline:
// source frames, corrected frames, sun windows, day groups, export tasks,
// and the run report. All values are immutable once constructed; stages of
// the pipeline communicate by deriving new values, never by mutating shared
// state.
package types

import "time"

// SourceFrame is one image file discovered during the input scan, before
// any timestamp correction. Raw is the capture timestamp as the camera
// reported it, interpreted in the configured timezone. SourceIndex records
// the position within the concatenated directory scan and is used as a
// stable tie-breaker when timestamps collide.
type SourceFrame struct {
	Path        string
	Raw         time.Time
	SourceIndex int

	// Per-image GPS coordinates from EXIF, when present. Frames without
	// embedded coordinates fall back to the configured location.
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// Classification is the day/night verdict for a corrected frame.
type Classification string

const (
	// ClassDay is a frame between sunrise and sunset.
	ClassDay Classification = "day"
	// ClassTwilight is a frame outside the sun window but within the
	// configured night margin. Twilight frames are accepted.
	ClassTwilight Classification = "twilight"
	// ClassNight is a frame outside the margin. Night frames are dropped.
	ClassNight Classification = "night"
)

// Accepted reports whether a frame with this classification survives the
// day/night filter.
func (c Classification) Accepted() bool {
	return c == ClassDay || c == ClassTwilight
}

// CorrectedFrame is a SourceFrame with its DST-corrected local timestamp
// and classification attached.
type CorrectedFrame struct {
	SourceFrame

	// Corrected is Raw plus one hour when the run's DST anomaly applies
	// to this frame, otherwise equal to Raw.
	Corrected time.Time

	// Shifted records whether the one-hour correction was applied.
	Shifted bool

	Class Classification
}

// WindowKind distinguishes ordinary sun windows from the degenerate polar
// cases where the sun never rises or never sets on a date.
type WindowKind int

const (
	WindowNormal WindowKind = iota
	// WindowPolarDay: the sun never sets; every frame on the date is day.
	WindowPolarDay
	// WindowPolarNight: the sun never rises; every frame on the date is night.
	WindowPolarNight
)

// SunWindow holds the sunrise and sunset instants for one calendar date at
// a fixed location, in local time. For polar dates Sunrise and Sunset span
// the whole local day (polar day) or are both local noon (polar night);
// Kind tells the classifier which rule applies.
type SunWindow struct {
	Date    time.Time // midnight, local
	Sunrise time.Time
	Sunset  time.Time
	Kind    WindowKind
}

// DayGroup is the ordered set of accepted frames sharing one local
// calendar date. Frames are non-decreasing in corrected timestamp; ties
// preserve source order.
type DayGroup struct {
	Date   time.Time // midnight, local
	Frames []CorrectedFrame

	// First and Last are the corrected timestamps of the group's edge
	// frames, the anchors for fade weight computation.
	First time.Time
	Last  time.Time
}

// ExportTask is one unit of work for the export pool. Seq is the global,
// strictly increasing sequence number assigned in final day/time order
// before any worker starts, so completion order can never affect output
// naming.
type ExportTask struct {
	Seq        int
	Frame      CorrectedFrame
	FadeWeight float64
}

// Report summarizes a completed run for the user.
type Report struct {
	RunID         string
	Accepted      int
	RejectedNight int
	Written       int
	Failed        int
	FailedSeqs    []int
	Elapsed       time.Duration
}
