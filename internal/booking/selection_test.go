package booking_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzavros/tour-catalog/internal/booking"
	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/pricing"
)

func threePackages() []pricing.ResolvedPackage {
	return []pricing.ResolvedPackage{
		{ID: uuid.New(), Name: "Double Room", IsDefault: true, AdultPrice: 50000},
		{ID: uuid.New(), Name: "Single Room", AdultPrice: 65000},
		{ID: uuid.New(), Name: "Triple Room", AdultPrice: 45000},
	}
}

// ---- initial state ---------------------------------------------------------

func TestSelection_StartsWithNoPackage(t *testing.T) {
	sel := booking.NewSelection(threePackages())

	assert.Equal(t, booking.StateNoPackage, sel.State())
	assert.False(t, sel.CanBook())
	_, ok := sel.Package()
	assert.False(t, ok)
}

func TestSelection_SinglePackageAutoSelects(t *testing.T) {
	pkgs := []pricing.ResolvedPackage{
		{ID: uuid.New(), Name: "Standard", IsDefault: true, AdultPrice: 50000},
	}

	sel := booking.NewSelection(pkgs)

	assert.Equal(t, booking.StatePackageSelected, sel.State())
	chosen, ok := sel.Package()
	require.True(t, ok)
	assert.Equal(t, pkgs[0].ID, chosen)
}

// ---- package-before-date ordering ------------------------------------------

func TestSelection_SelectDateWithoutPackageFails(t *testing.T) {
	sel := booking.NewSelection(threePackages())

	err := sel.SelectDate(uuid.New())

	assert.ErrorIs(t, err, booking.ErrNoPackageSelected)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, booking.StateNoPackage, sel.State())
	_, ok := sel.Date()
	assert.False(t, ok)
}

func TestSelection_PackageThenDateReachesReadyToBook(t *testing.T) {
	pkgs := threePackages()
	sel := booking.NewSelection(pkgs)
	dateID := uuid.New()

	require.NoError(t, sel.SelectPackage(pkgs[0].ID))
	assert.Equal(t, booking.StatePackageSelected, sel.State())
	assert.False(t, sel.CanBook())

	require.NoError(t, sel.SelectDate(dateID))
	assert.Equal(t, booking.StateReadyToBook, sel.State())
	assert.True(t, sel.CanBook())

	chosen, ok := sel.Date()
	require.True(t, ok)
	assert.Equal(t, dateID, chosen)
}

// ---- package change clears the date ----------------------------------------

func TestSelection_ChangingPackageClearsDate(t *testing.T) {
	pkgs := threePackages()
	sel := booking.NewSelection(pkgs)

	require.NoError(t, sel.SelectPackage(pkgs[0].ID))
	require.NoError(t, sel.SelectDate(uuid.New()))
	require.True(t, sel.CanBook())

	require.NoError(t, sel.SelectPackage(pkgs[1].ID))

	assert.Equal(t, booking.StatePackageSelected, sel.State())
	assert.False(t, sel.CanBook())
	_, ok := sel.Date()
	assert.False(t, ok)
}

func TestSelection_ReselectingSamePackageKeepsDate(t *testing.T) {
	pkgs := threePackages()
	sel := booking.NewSelection(pkgs)
	dateID := uuid.New()

	require.NoError(t, sel.SelectPackage(pkgs[0].ID))
	require.NoError(t, sel.SelectDate(dateID))

	require.NoError(t, sel.SelectPackage(pkgs[0].ID))

	assert.Equal(t, booking.StateReadyToBook, sel.State())
	chosen, ok := sel.Date()
	require.True(t, ok)
	assert.Equal(t, dateID, chosen)
}

// ---- unknown package -------------------------------------------------------

func TestSelection_UnknownPackageRejected(t *testing.T) {
	pkgs := threePackages()
	sel := booking.NewSelection(pkgs)
	require.NoError(t, sel.SelectPackage(pkgs[0].ID))

	err := sel.SelectPackage(uuid.New())

	assert.ErrorIs(t, err, domain.ErrPackageUnknown)
	// Selection is unchanged by the failed call.
	chosen, ok := sel.Package()
	require.True(t, ok)
	assert.Equal(t, pkgs[0].ID, chosen)
}

// ---- Clear -----------------------------------------------------------------

func TestSelection_ClearResetsToInitialState(t *testing.T) {
	pkgs := threePackages()
	sel := booking.NewSelection(pkgs)
	require.NoError(t, sel.SelectPackage(pkgs[1].ID))
	require.NoError(t, sel.SelectDate(uuid.New()))

	sel.Clear()

	assert.Equal(t, booking.StateNoPackage, sel.State())
}

func TestSelection_ClearReappliesSingletonAutoSelect(t *testing.T) {
	pkgs := []pricing.ResolvedPackage{
		{ID: uuid.New(), Name: "Standard", IsDefault: true},
	}
	sel := booking.NewSelection(pkgs)
	require.NoError(t, sel.SelectDate(uuid.New()))

	sel.Clear()

	assert.Equal(t, booking.StatePackageSelected, sel.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "no_package", booking.StateNoPackage.String())
	assert.Equal(t, "package_selected", booking.StatePackageSelected.String())
	assert.Equal(t, "ready_to_book", booking.StateReadyToBook.String())
}

// ---- end-to-end flows over the pricing core --------------------------------

// day builds a midnight-UTC instant, matching what a DATE column yields.
func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TestFlow_SinglePackageTour walks the happy path of a single-package tour:
// normalization yields one auto-selected default, the one future departure
// survives filtering, and the quote is the base price.
func TestFlow_SinglePackageTour(t *testing.T) {
	now := day(2026, time.March, 1)
	tour := domain.Tour{ID: uuid.New(), PackageType: domain.PackageTypeSingle}
	rows := []domain.PricingPackage{
		{ID: uuid.New(), TourID: tour.ID, Name: "Standard", AdultPrice: 50000, Active: true},
	}
	dates := []domain.TourDate{
		{ID: uuid.New(), TourID: tour.ID, StartDate: day(2026, time.April, 10), IsAvailable: true},
	}

	resolved := pricing.Normalize(tour, rows)
	require.Len(t, resolved, 1)
	assert.True(t, resolved[0].IsDefault)

	sel := booking.NewSelection(resolved)
	assert.Equal(t, booking.StatePackageSelected, sel.State())

	available := pricing.FilterDates(dates, now)
	require.Len(t, available, 1)
	require.NoError(t, sel.SelectDate(available[0].ID))
	require.True(t, sel.CanBook())

	quote := pricing.Resolve(resolved[0], available[0], nil)
	assert.True(t, quote.Bookable)
	assert.Equal(t, domain.Cents(50000), quote.AdultPrice)
}

// TestFlow_MultiPackageTourWithOverride covers a three-package tour where the
// traveller switches from the default to another package whose price is
// overridden on the chosen date.
func TestFlow_MultiPackageTourWithOverride(t *testing.T) {
	now := day(2026, time.March, 1)
	tour := domain.Tour{ID: uuid.New(), PackageType: domain.PackageTypeMultiple}
	rows := []domain.PricingPackage{
		{ID: uuid.New(), TourID: tour.ID, Name: "Double", IsDefault: true, AdultPrice: 50000, SortOrder: 0, Active: true},
		{ID: uuid.New(), TourID: tour.ID, Name: "Single", AdultPrice: 65000, SortOrder: 1, Active: true},
		{ID: uuid.New(), TourID: tour.ID, Name: "Triple", AdultPrice: 45000, SortOrder: 2, Active: true},
	}
	schedule := []domain.TourDate{
		{ID: uuid.New(), TourID: tour.ID, StartDate: day(2026, time.May, 20), IsAvailable: true},
	}
	available := pricing.FilterDates(schedule, now)
	require.Len(t, available, 1)
	date := available[0]

	resolved := pricing.Normalize(tour, rows)
	require.Len(t, resolved, 3)

	sel := booking.NewSelection(resolved)
	assert.Equal(t, booking.StateNoPackage, sel.State())

	// Default package on the date: base price, no override row.
	require.NoError(t, sel.SelectPackage(resolved[0].ID))
	require.NoError(t, sel.SelectDate(date.ID))
	quote := pricing.Resolve(resolved[0], date, nil)
	assert.Equal(t, domain.Cents(50000), quote.AdultPrice)

	// Switching to the overridden package drops the date selection.
	discounted := domain.Cents(30000)
	overrides := []domain.TourDatePackage{
		{TourDateID: date.ID, PackageID: resolved[1].ID, Enabled: true, PriceOverride: &discounted},
	}
	require.NoError(t, sel.SelectPackage(resolved[1].ID))
	assert.False(t, sel.CanBook())

	require.NoError(t, sel.SelectDate(date.ID))
	quote = pricing.Resolve(resolved[1], date, overrides)
	assert.True(t, quote.Bookable)
	assert.Equal(t, domain.Cents(30000), quote.AdultPrice)
}

// TestFlow_BlockedDepartureDay has an enabled override with a price change
// whose blocked set contains the departure day itself: the price resolves but
// the pair is not sellable.
func TestFlow_BlockedDepartureDay(t *testing.T) {
	tour := domain.Tour{ID: uuid.New(), PackageType: domain.PackageTypeMultiple}
	rows := []domain.PricingPackage{
		{ID: uuid.New(), TourID: tour.ID, Name: "Double", IsDefault: true, AdultPrice: 50000, Active: true},
		{ID: uuid.New(), TourID: tour.ID, Name: "Single", AdultPrice: 65000, SortOrder: 1, Active: true},
	}
	start := day(2026, time.July, 4)
	date := domain.TourDate{ID: uuid.New(), TourID: tour.ID, StartDate: start, IsAvailable: true}

	resolved := pricing.Normalize(tour, rows)
	require.Len(t, resolved, 2)

	reduced := domain.Cents(20000)
	overrides := []domain.TourDatePackage{
		{
			TourDateID:    date.ID,
			PackageID:     resolved[0].ID,
			Enabled:       true,
			PriceOverride: &reduced,
			BlockedDates:  []domain.BlockedDate{{BlockedOn: start}},
		},
	}

	quote := pricing.Resolve(resolved[0], date, overrides)
	assert.False(t, quote.Bookable)

	// The sibling package without a row stays sellable at base price.
	quote = pricing.Resolve(resolved[1], date, overrides)
	assert.True(t, quote.Bookable)
	assert.Equal(t, domain.Cents(65000), quote.AdultPrice)
}
