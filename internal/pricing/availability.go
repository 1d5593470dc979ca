package pricing

import (
	"sort"
	"time"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// MonthGroup is one calendar month of bookable departures, for the calendar
// display. Key is the year-month in "2006-01" form.
type MonthGroup struct {
	Key   string            `json:"key"`
	Year  int               `json:"year"`
	Month time.Month        `json:"month"`
	Dates []domain.TourDate `json:"dates"`
}

// FilterDates returns the departures eligible for display and booking:
// available and starting today or later, ordered by start date ascending.
// The day boundary is inclusive — a departure starting on the same calendar
// day as now is still bookable. Repeat patterns are not expanded; only
// materialized rows are considered.
func FilterDates(dates []domain.TourDate, now time.Time) []domain.TourDate {
	today := truncateToDay(now)

	out := make([]domain.TourDate, 0, len(dates))
	for _, d := range dates {
		if !d.IsAvailable {
			continue
		}
		if truncateToDay(d.StartDate).Before(today) {
			continue
		}
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	return out
}

// GroupByMonth buckets an already-filtered, ascending date list by calendar
// month. Group order follows the start date of each group's first member.
func GroupByMonth(dates []domain.TourDate) []MonthGroup {
	var groups []MonthGroup
	for _, d := range dates {
		y, m := d.StartDate.Year(), d.StartDate.Month()
		if n := len(groups); n > 0 && groups[n-1].Year == y && groups[n-1].Month == m {
			groups[n-1].Dates = append(groups[n-1].Dates, d)
			continue
		}
		groups = append(groups, MonthGroup{
			Key:   d.StartDate.Format("2006-01"),
			Year:  y,
			Month: m,
			Dates: []domain.TourDate{d},
		})
	}
	return groups
}

// truncateToDay drops the time-of-day component, comparing in UTC.
// Departure dates come from DATE columns and are midnight UTC already.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sameDay reports whether two instants fall on the same calendar day (UTC).
func sameDay(a, b time.Time) bool {
	return truncateToDay(a).Equal(truncateToDay(b))
}
