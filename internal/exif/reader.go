// Package exif extracts capture timestamps and GPS coordinates from image
// files. EXIF DateTimeOriginal is the primary timestamp source; images
// without usable EXIF fall back to a timestamp encoded in the filename.
// Timestamps are naive camera-local values and are interpreted in the
// run's configured timezone.
package exif

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	goexif "github.com/rwcarlsen/goexif/exif"

	"daylapse/internal/types"
)

// exifTimeLayout is the timestamp format mandated by the EXIF standard.
const exifTimeLayout = "2006:01:02 15:04:05"

// nameLayouts are the filename timestamp patterns tried, in order, when
// an image carries no EXIF timestamp. Matching is anchored at the start
// of the base name, extension stripped.
var nameLayouts = []string{
	"20060102_150405",
	"2006-01-02_15-04-05",
	"2006-01-02T150405",
}

// Metadata is the per-image information the pipeline needs before any
// pixel is read.
type Metadata struct {
	Timestamp time.Time
	Latitude  float64
	Longitude float64
	HasCoords bool
}

// ReadMetadata extracts the capture timestamp and, when present, the GPS
// coordinates of one image. The timestamp is interpreted in loc. Fails
// with a frame_missing_timestamp error when neither EXIF nor the
// filename yields a timestamp.
func ReadMetadata(path string, loc *time.Location) (Metadata, error) {
	var md Metadata

	f, err := os.Open(path)
	if err != nil {
		return md, types.NewAppErrorWithDetails(types.ErrCodeFrameUnreadable,
			fmt.Sprintf("opening %s", path), err, map[string]any{"path": path})
	}
	defer f.Close()

	x, decodeErr := goexif.Decode(f)
	if decodeErr == nil {
		if ts, err := exifTimestamp(x, loc); err == nil {
			md.Timestamp = ts
		}
		if lat, lon, err := x.LatLong(); err == nil {
			md.Latitude = lat
			md.Longitude = lon
			md.HasCoords = true
		}
	}

	if md.Timestamp.IsZero() {
		ts, ok := TimestampFromName(path, loc)
		if !ok {
			return md, types.NewAppErrorWithDetails(types.ErrCodeFrameNoTimestamp,
				fmt.Sprintf("no capture timestamp in EXIF or filename for %s", path),
				decodeErr, map[string]any{"path": path})
		}
		md.Timestamp = ts
	}
	return md, nil
}

// exifTimestamp reads DateTimeOriginal, falling back to the plain
// DateTime tag, and parses it as a naive local time in loc.
func exifTimestamp(x *goexif.Exif, loc *time.Location) (time.Time, error) {
	for _, field := range []goexif.FieldName{goexif.DateTimeOriginal, goexif.DateTime} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		ts, err := time.ParseInLocation(exifTimeLayout, raw, loc)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("no parseable EXIF timestamp")
}

// TimestampFromName parses a capture timestamp from the image filename.
// Returns false when no known pattern matches.
func TimestampFromName(path string, loc *time.Location) (time.Time, bool) {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	for _, layout := range nameLayouts {
		if len(base) < len(layout) {
			continue
		}
		if ts, err := time.ParseInLocation(layout, base[:len(layout)], loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
