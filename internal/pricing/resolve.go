package pricing

import (
	"github.com/mzavros/tour-catalog/internal/domain"
)

// Quote is the effective per-traveller price for a (package, date) pair.
// Prices are always populated so the UI can show what the trip would cost
// even when Bookable is false.
type Quote struct {
	AdultPrice  domain.Cents `json:"adult_price_cents"`
	ChildPrice  domain.Cents `json:"child_price_cents"`
	InfantPrice domain.Cents `json:"infant_price_cents"`
	Bookable    bool         `json:"bookable"`
}

// Resolve computes the bookable price for pkg on date, given the override
// rows attached to that date. Precedence, highest first:
//
//  1. No override row for the package: base prices apply, bookable.
//  2. Row present but disabled: not bookable, whatever the override price says.
//  3. Row enabled but the departure day is in its blocked set: not bookable.
//  4. Row enabled: bookable; the override price, when present, replaces the
//     adult price. Child and infant prices have no per-date override — the
//     single scalar override applies to the adult price only.
//
// Resolve assumes the date has already passed availability filtering; it does
// not re-check IsAvailable or the past-date boundary.
func Resolve(pkg ResolvedPackage, date domain.TourDate, dateOverrides []domain.TourDatePackage) Quote {
	q := Quote{
		AdultPrice:  pkg.AdultPrice,
		ChildPrice:  pkg.ChildPrice,
		InfantPrice: pkg.InfantPrice,
		Bookable:    true,
	}

	var row *domain.TourDatePackage
	for i := range dateOverrides {
		if dateOverrides[i].PackageID == pkg.ID {
			row = &dateOverrides[i]
			break
		}
	}
	if row == nil {
		return q
	}

	if !row.Enabled {
		q.Bookable = false
		return q
	}

	for _, b := range row.BlockedDates {
		if sameDay(b.BlockedOn, date.StartDate) {
			q.Bookable = false
			return q
		}
	}

	if row.PriceOverride != nil {
		q.AdultPrice = *row.PriceOverride
	}
	return q
}
