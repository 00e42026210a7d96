package sequence

import (
	"sort"
	"time"

	"daylapse/internal/types"
)

// GroupByDay buckets accepted frames by the local calendar date of their
// corrected timestamp and returns the groups in date order. Within a
// group frames are sorted by corrected timestamp, ties broken by source
// order index so equal timestamps keep their scan order. Fails with an
// empty-input error when no frames survive classification.
//
// Grouping uses the calendar date rather than the sunrise/sunset
// boundary, so a margin-accepted pre-dawn frame stays with its own date.
func GroupByDay(frames []types.CorrectedFrame, loc *time.Location) ([]types.DayGroup, error) {
	if len(frames) == 0 {
		return nil, types.NewAppError(types.ErrCodeEmptyAllNight,
			"no frames survived day/night classification", nil)
	}

	byDate := make(map[time.Time][]types.CorrectedFrame)
	for _, f := range frames {
		y, m, d := f.Corrected.In(loc).Date()
		key := time.Date(y, m, d, 0, 0, 0, 0, loc)
		byDate[key] = append(byDate[key], f)
	}

	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	groups := make([]types.DayGroup, 0, len(dates))
	for _, date := range dates {
		dayFrames := byDate[date]
		sort.SliceStable(dayFrames, func(i, j int) bool {
			a, b := dayFrames[i], dayFrames[j]
			if !a.Corrected.Equal(b.Corrected) {
				return a.Corrected.Before(b.Corrected)
			}
			return a.SourceIndex < b.SourceIndex
		})
		groups = append(groups, types.DayGroup{
			Date:   date,
			Frames: dayFrames,
			First:  dayFrames[0].Corrected,
			Last:   dayFrames[len(dayFrames)-1].Corrected,
		})
	}
	return groups, nil
}
