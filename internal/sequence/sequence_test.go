package sequence

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"daylapse/internal/types"
)

func window(loc *time.Location) types.SunWindow {
	date := time.Date(2024, 7, 12, 0, 0, 0, 0, loc)
	return types.SunWindow{
		Date:    date,
		Sunrise: date.Add(5 * time.Hour),
		Sunset:  date.Add(21 * time.Hour),
	}
}

func TestClassify(t *testing.T) {
	loc := time.UTC
	w := window(loc)
	margin := 30 * time.Minute

	tests := []struct {
		name string
		ts   time.Time
		want types.Classification
	}{
		{"noon", w.Date.Add(12 * time.Hour), types.ClassDay},
		{"exact sunrise", w.Sunrise, types.ClassDay},
		{"exact sunset", w.Sunset, types.ClassDay},
		{"within pre-dawn margin", w.Sunrise.Add(-10 * time.Minute), types.ClassTwilight},
		{"margin edge before sunrise", w.Sunrise.Add(-margin), types.ClassTwilight},
		{"within dusk margin", w.Sunset.Add(29 * time.Minute), types.ClassTwilight},
		{"2am", w.Date.Add(2 * time.Hour), types.ClassNight},
		{"just past margin", w.Sunset.Add(margin + time.Second), types.ClassNight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.ts, w, margin))
		})
	}
}

func TestClassifyMonotonicInMargin(t *testing.T) {
	w := window(time.UTC)
	ts := w.Sunset.Add(25 * time.Minute)

	margins := []time.Duration{0, 10 * time.Minute, 25 * time.Minute, time.Hour, 4 * time.Hour}
	accepted := false
	for _, m := range margins {
		c := Classify(ts, w, m)
		if accepted {
			assert.True(t, c.Accepted(), "margin %v regressed an accepted frame", m)
		}
		if c.Accepted() {
			accepted = true
		}
	}
	assert.True(t, accepted)
}

func TestClassifyPolar(t *testing.T) {
	noon := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)

	day := types.SunWindow{Kind: types.WindowPolarDay}
	night := types.SunWindow{Kind: types.WindowPolarNight}
	assert.Equal(t, types.ClassDay, Classify(noon, day, 0))
	assert.Equal(t, types.ClassNight, Classify(noon, night, 4*time.Hour))
}

func frameAt(ts time.Time, idx int) types.CorrectedFrame {
	return types.CorrectedFrame{
		SourceFrame: types.SourceFrame{Path: "p", SourceIndex: idx},
		Corrected:   ts,
		Class:       types.ClassDay,
	}
}

func TestGroupByDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	day1 := time.Date(2024, 7, 12, 0, 0, 0, 0, loc)
	day2 := day1.AddDate(0, 0, 1)

	// Deliberately shuffled across days and within day1.
	frames := []types.CorrectedFrame{
		frameAt(day2.Add(10*time.Hour), 4),
		frameAt(day1.Add(18*time.Hour), 2),
		frameAt(day1.Add(6*time.Hour), 0),
		frameAt(day1.Add(12*time.Hour), 1),
		frameAt(day2.Add(8*time.Hour), 3),
	}

	groups, err := GroupByDay(frames, loc)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.True(t, groups[0].Date.Equal(day1))
	assert.True(t, groups[1].Date.Equal(day2))

	require.Len(t, groups[0].Frames, 3)
	assert.True(t, groups[0].First.Equal(day1.Add(6*time.Hour)))
	assert.True(t, groups[0].Last.Equal(day1.Add(18*time.Hour)))
	for i := 1; i < len(groups[0].Frames); i++ {
		assert.False(t, groups[0].Frames[i].Corrected.Before(groups[0].Frames[i-1].Corrected))
	}
}

func TestGroupByDayStableTieBreak(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2024, 7, 12, 12, 0, 0, 0, loc)

	frames := []types.CorrectedFrame{
		frameAt(ts, 7),
		frameAt(ts, 2),
		frameAt(ts, 5),
	}
	groups, err := GroupByDay(frames, loc)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	got := []int{
		groups[0].Frames[0].SourceIndex,
		groups[0].Frames[1].SourceIndex,
		groups[0].Frames[2].SourceIndex,
	}
	assert.Equal(t, []int{2, 5, 7}, got)
}

func TestGroupByDayEmpty(t *testing.T) {
	_, err := GroupByDay(nil, time.UTC)
	require.Error(t, err)

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEmptyAllNight, appErr.Code)
	assert.Equal(t, 3, appErr.Code.ExitCode())
}

func TestListImages(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	sub := filepath.Join(dirA, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))

	for _, p := range []string{
		filepath.Join(dirA, "b.jpg"),
		filepath.Join(dirA, "a.JPG"),
		filepath.Join(sub, "c.png"),
		filepath.Join(dirA, "notes.txt"),
		filepath.Join(dirB, "d.jpeg"),
	} {
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}

	paths, err := ListImages([]string{dirA, dirB})
	require.NoError(t, err)

	// dirA sorted lexically first, then dirB; the txt file is skipped.
	want := []string{
		filepath.Join(dirA, "a.JPG"),
		filepath.Join(dirA, "b.jpg"),
		filepath.Join(sub, "c.png"),
		filepath.Join(dirB, "d.jpeg"),
	}
	assert.Equal(t, want, paths)
}

func TestListImagesEmpty(t *testing.T) {
	_, err := ListImages([]string{t.TempDir()})

	var appErr *types.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, types.ErrCodeEmptyNoImages, appErr.Code)
}
