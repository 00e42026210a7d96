// Package astro computes sunrise and sunset instants for a fixed location
// using the NOAA solar position equations (fractional-year declination,
// equation of time, hour angle at the standard refraction-corrected
// zenith). Accuracy is within a few minutes, which is sufficient for
// margin-based day/night filtering.
package astro

import (
	"fmt"
	"math"
	"time"

	"daylapse/internal/types"
)

// zenith is the solar zenith angle at sunrise/sunset: 90 degrees plus
// standard atmospheric refraction and the solar disc radius.
const zenith = 90.833

// ValidateCoordinates checks latitude and longitude against their valid
// ranges.
func ValidateCoordinates(lat, lon float64) error {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return types.NewAppError(types.ErrCodeConfigInvalidLatitude,
			fmt.Sprintf("latitude %v out of range [-90, 90]", lat), nil)
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return types.NewAppError(types.ErrCodeConfigInvalidLongitude,
			fmt.Sprintf("longitude %v out of range [-180, 180]", lon), nil)
	}
	return nil
}

// Window computes the sun window for the local calendar date containing
// the given time, at the given coordinates. Longitude is positive east.
// Pure function of (date, location): no side effects, safe for concurrent
// use.
func Window(date time.Time, lat, lon float64, loc *time.Location) (types.SunWindow, error) {
	if err := ValidateCoordinates(lat, lon); err != nil {
		return types.SunWindow{}, err
	}

	year, month, day := date.In(loc).Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, loc)

	// Evaluate the solar terms at local noon of the target date; the
	// drift across one day is well under the accuracy budget.
	noonUTC := midnight.Add(12 * time.Hour).UTC()
	gamma := fractionalYear(noonUTC)
	eqMinutes := equationOfTime(gamma)
	decl := declination(gamma)

	latRad := lat * math.Pi / 180
	cosHA := (math.Cos(zenith*math.Pi/180) - math.Sin(latRad)*math.Sin(decl)) /
		(math.Cos(latRad) * math.Cos(decl))

	w := types.SunWindow{Date: midnight}
	switch {
	case cosHA < -1:
		// Sun never reaches the zenith threshold: polar day.
		w.Kind = types.WindowPolarDay
		w.Sunrise = midnight
		w.Sunset = midnight.Add(24 * time.Hour)
	case cosHA > 1:
		// Sun never rises above the threshold: polar night.
		w.Kind = types.WindowPolarNight
		w.Sunrise = midnight.Add(12 * time.Hour)
		w.Sunset = w.Sunrise
	default:
		haDeg := math.Acos(cosHA) * 180 / math.Pi
		// Minutes past 00:00 UTC on the date of noonUTC.
		riseMin := 720 - 4*(lon+haDeg) - eqMinutes
		setMin := 720 - 4*(lon-haDeg) - eqMinutes

		utcYear, utcMonth, utcDay := noonUTC.Date()
		utcMidnight := time.Date(utcYear, utcMonth, utcDay, 0, 0, 0, 0, time.UTC)
		w.Sunrise = utcMidnight.Add(time.Duration(riseMin * float64(time.Minute))).In(loc)
		w.Sunset = utcMidnight.Add(time.Duration(setMin * float64(time.Minute))).In(loc)
	}
	return w, nil
}

// fractionalYear returns the NOAA fractional year angle in radians for
// the given instant.
func fractionalYear(t time.Time) float64 {
	daysInYear := 365.0
	if isLeap(t.Year()) {
		daysInYear = 366.0
	}
	return 2 * math.Pi / daysInYear * (float64(t.YearDay()-1) + (float64(t.Hour())-12)/24)
}

// equationOfTime returns the equation of time in minutes.
func equationOfTime(gamma float64) float64 {
	return 229.18 * (0.000075 +
		0.001868*math.Cos(gamma) -
		0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) -
		0.040849*math.Sin(2*gamma))
}

// declination returns the solar declination in radians.
func declination(gamma float64) float64 {
	return 0.006918 -
		0.399912*math.Cos(gamma) +
		0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) +
		0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) +
		0.00148*math.Sin(3*gamma)
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
