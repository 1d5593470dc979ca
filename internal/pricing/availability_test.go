package pricing_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/pricing"
)

// day builds a midnight-UTC instant, matching what a DATE column yields.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func departure(start time.Time, available bool) domain.TourDate {
	return domain.TourDate{
		ID:          uuid.New(),
		StartDate:   start,
		IsAvailable: available,
	}
}

// ---- FilterDates -----------------------------------------------------------

func TestFilterDates_SameDayIsStillBookable(t *testing.T) {
	// "Now" is late in the evening; the departure started this morning.
	now := time.Date(2026, time.September, 10, 22, 30, 0, 0, time.UTC)
	dates := []domain.TourDate{departure(day(2026, time.September, 10), true)}

	got := pricing.FilterDates(dates, now)

	assert.Len(t, got, 1)
}

func TestFilterDates_PreviousDayIsExcluded(t *testing.T) {
	now := time.Date(2026, time.September, 10, 0, 0, 1, 0, time.UTC)
	dates := []domain.TourDate{departure(day(2026, time.September, 9), true)}

	got := pricing.FilterDates(dates, now)

	assert.Empty(t, got)
}

func TestFilterDates_UnavailableIsExcluded(t *testing.T) {
	now := day(2026, time.September, 1)
	dates := []domain.TourDate{
		departure(day(2026, time.September, 15), false),
		departure(day(2026, time.September, 20), true),
	}

	got := pricing.FilterDates(dates, now)

	require.Len(t, got, 1)
	assert.Equal(t, day(2026, time.September, 20), got[0].StartDate)
}

func TestFilterDates_SortsAscending(t *testing.T) {
	now := day(2026, time.January, 1)
	dates := []domain.TourDate{
		departure(day(2026, time.March, 5), true),
		departure(day(2026, time.January, 20), true),
		departure(day(2026, time.February, 14), true),
	}

	got := pricing.FilterDates(dates, now)

	require.Len(t, got, 3)
	assert.True(t, got[0].StartDate.Before(got[1].StartDate))
	assert.True(t, got[1].StartDate.Before(got[2].StartDate))
}

func TestFilterDates_EmptyInput(t *testing.T) {
	got := pricing.FilterDates(nil, day(2026, time.January, 1))

	assert.Empty(t, got)
}

// ---- GroupByMonth ----------------------------------------------------------

func TestGroupByMonth_BucketsByCalendarMonth(t *testing.T) {
	dates := []domain.TourDate{
		departure(day(2026, time.September, 10), true),
		departure(day(2026, time.September, 24), true),
		departure(day(2026, time.October, 3), true),
	}

	got := pricing.GroupByMonth(dates)

	require.Len(t, got, 2)
	assert.Equal(t, "2026-09", got[0].Key)
	assert.Equal(t, 2026, got[0].Year)
	assert.Equal(t, time.September, got[0].Month)
	assert.Len(t, got[0].Dates, 2)
	assert.Equal(t, "2026-10", got[1].Key)
	assert.Len(t, got[1].Dates, 1)
}

func TestGroupByMonth_SameMonthDifferentYear(t *testing.T) {
	dates := []domain.TourDate{
		departure(day(2026, time.December, 28), true),
		departure(day(2027, time.December, 28), true),
	}

	got := pricing.GroupByMonth(dates)

	require.Len(t, got, 2)
	assert.Equal(t, "2026-12", got[0].Key)
	assert.Equal(t, "2027-12", got[1].Key)
}

func TestGroupByMonth_EmptyInput(t *testing.T) {
	assert.Empty(t, pricing.GroupByMonth(nil))
}
