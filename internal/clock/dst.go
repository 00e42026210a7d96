// Package clock corrects camera timestamps for an undetected
// daylight-saving-time shift. The modeled defect is a camera clock that
// was never advanced across a spring-forward transition: every frame
// captured at or after the transition instant carries a timestamp one
// hour behind local wall time.
//
// The anomaly decision is computed once from the first frame of the run,
// stored in an immutable Context, and passed explicitly to every
// correction call. Only the single, one-directional (failed
// spring-forward) anomaly is modeled; a camera that already auto-adjusted
// needs no correction, and the ignore flag exists to keep a healthy
// camera from being mis-detected as anomalous.
package clock

import "time"

// detectionHorizon bounds the search for the next DST transition after
// the first frame. One leap year covers every IANA rule in use.
const detectionHorizon = 366 * 24 * time.Hour

// Context carries the run-wide DST correction decision. Immutable after
// construction; safe for concurrent use by export workers.
type Context struct {
	loc        *time.Location
	anomaly    bool
	transition time.Time
}

// Detect computes the DST anomaly flag from the first frame's timestamp.
// When ignore is set the decision short-circuits to "no anomaly",
// trusting the device clock.
//
// Otherwise: if the timezone's calendar says the first frame falls in
// standard time, the camera clock matches standard time and every frame
// at or after the next spring-forward transition needs the one-hour
// correction. If the first frame already falls inside DST the camera was
// either set during DST or adjusts itself, and no correction applies.
func Detect(first time.Time, loc *time.Location, ignore bool) Context {
	ctx := Context{loc: loc}
	if ignore {
		return ctx
	}
	if first.In(loc).IsDST() {
		return ctx
	}
	if tr, ok := nextSpringForward(first, loc); ok {
		ctx.anomaly = true
		ctx.transition = tr
	}
	return ctx
}

// ForceAnomaly constructs a Context with the anomaly flag set and an
// explicit transition instant. Used by tests and by operators who know
// the camera's defect better than the detector does.
func ForceAnomaly(loc *time.Location, transition time.Time) Context {
	return Context{loc: loc, anomaly: true, transition: transition}
}

// Anomaly reports whether the run-wide correction applies.
func (c Context) Anomaly() bool { return c.anomaly }

// Transition returns the instant from which raw timestamps are shifted.
// Zero when no anomaly was detected.
func (c Context) Transition() time.Time { return c.transition }

// Correct applies the run-wide correction to a raw capture timestamp.
// When the anomaly flag is set, timestamps at or after the transition
// instant (inclusive boundary) are advanced by one hour. Returns the
// corrected timestamp and whether a shift was applied. With the flag
// unset, Correct is the identity, which makes re-correction a no-op.
func (c Context) Correct(raw time.Time) (time.Time, bool) {
	if !c.anomaly || raw.Before(c.transition) {
		return raw, false
	}
	return raw.Add(time.Hour), true
}

// nextSpringForward locates the first instant after t at which the
// location's UTC offset increases, to one-second precision. The IANA
// database exposes no transition list, so the day containing the change
// is found by stepping and the instant inside it by bisection.
func nextSpringForward(t time.Time, loc *time.Location) (time.Time, bool) {
	const step = 24 * time.Hour
	limit := t.Add(detectionHorizon)

	prev := t
	_, prevOffset := prev.In(loc).Zone()
	for cur := t.Add(step); !cur.After(limit); cur = cur.Add(step) {
		_, curOffset := cur.In(loc).Zone()
		if curOffset > prevOffset {
			return bisectTransition(prev, cur, loc), true
		}
		if curOffset != prevOffset {
			// Fall-back transition: outside the modeled defect, keep
			// scanning in case a later spring-forward exists.
			prevOffset = curOffset
		}
		prev = cur
	}
	return time.Time{}, false
}

// bisectTransition narrows an interval known to contain exactly one
// offset change down to the first second of the new offset. The bounds
// are truncated to whole seconds up front; transitions fall on whole
// seconds, so truncation cannot move either bound across one, and it
// guarantees every midpoint strictly advances.
func bisectTransition(lo, hi time.Time, loc *time.Location) time.Time {
	lo, hi = lo.Truncate(time.Second), hi.Truncate(time.Second)
	_, loOffset := lo.In(loc).Zone()
	for hi.Sub(lo) > time.Second {
		mid := lo.Add(hi.Sub(lo) / 2).Truncate(time.Second)
		if _, off := mid.In(loc).Zone(); off == loOffset {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
