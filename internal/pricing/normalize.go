// Package pricing implements the tour pricing and availability resolution
// core: package normalization, departure-date filtering, and per-date price
// resolution. Everything here is pure computation over already-fetched rows;
// no I/O and no shared state.
package pricing

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// ResolvedPackage is the canonical in-memory package shape consumed by the
// price resolver, the public package picker, and the admin package screens.
// It is produced only by Normalize; downstream code never sees which storage
// representation a tour used.
type ResolvedPackage struct {
	ID                    uuid.UUID    `json:"id"`
	Name                  string       `json:"name"`
	IsDefault             bool         `json:"is_default"`
	AdultPrice            domain.Cents `json:"adult_price_cents"`
	AdultSingleSupplement domain.Cents `json:"adult_single_supplement_cents"`
	ChildPrice            domain.Cents `json:"child_price_cents"`
	ChildAgeMin           int          `json:"child_age_min"`
	ChildAgeMax           int          `json:"child_age_max"`
	InfantPrice           domain.Cents `json:"infant_price_cents"`
	InfantAgeMax          int          `json:"infant_age_max"`
}

// sortable pairs a resolved package with the keys it is ordered by.
type sortable struct {
	pkg       ResolvedPackage
	sortOrder int
}

// Normalize produces the canonical package list for a tour.
//
// Relational rows win: when rows is non-empty the tour's embedded legacy list
// is ignored entirely. The representation is decided on the raw row set before
// inactive rows are dropped, so a tour whose rows are all inactive resolves to
// an empty list — it never falls back to the legacy entries it migrated away
// from. When only the legacy list exists each entry maps 1:1, keeping its id
// (derived deterministically when absent or malformed).
//
// The result is ordered by sort_order then name and carries exactly one
// default: the first package marked default in that order keeps the flag,
// every other mark is cleared, and if nothing is marked the first package
// becomes default. An empty result means the tour is not bookable; it is not
// an error.
func Normalize(tour domain.Tour, rows []domain.PricingPackage) []ResolvedPackage {
	var items []sortable
	if len(rows) > 0 {
		items = fromRows(rows)
	} else {
		items = fromLegacy(tour)
	}
	if len(items) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].sortOrder != items[j].sortOrder {
			return items[i].sortOrder < items[j].sortOrder
		}
		return items[i].pkg.Name < items[j].pkg.Name
	})

	out := make([]ResolvedPackage, len(items))
	for i, it := range items {
		out[i] = it.pkg
	}

	enforceSingleDefault(out)
	return out
}

// fromRows maps relational rows, dropping deactivated ones. The drop happens
// here, after the rows-vs-legacy decision, so inactive rows still pin the tour
// to its relational representation.
func fromRows(rows []domain.PricingPackage) []sortable {
	items := make([]sortable, 0, len(rows))
	for _, r := range rows {
		if !r.Active {
			continue
		}
		items = append(items, sortable{
			sortOrder: r.SortOrder,
			pkg: ResolvedPackage{
				ID:                    r.ID,
				Name:                  r.Name,
				IsDefault:             r.IsDefault,
				AdultPrice:            r.AdultPrice,
				AdultSingleSupplement: r.AdultSingleSupplement,
				ChildPrice:            r.ChildPrice,
				ChildAgeMin:           r.ChildAgeMin,
				ChildAgeMax:           r.ChildAgeMax,
				InfantPrice:           r.InfantPrice,
				InfantAgeMax:          r.InfantAgeMax,
			},
		})
	}
	return items
}

func fromLegacy(tour domain.Tour) []sortable {
	items := make([]sortable, 0, len(tour.LegacyPackages))
	for i, lp := range tour.LegacyPackages {
		items = append(items, sortable{
			sortOrder: lp.SortOrder,
			pkg: ResolvedPackage{
				ID:                    legacyID(tour.ID, lp.ID, i),
				Name:                  lp.Name,
				IsDefault:             lp.IsDefault,
				AdultPrice:            lp.AdultPrice,
				AdultSingleSupplement: lp.AdultSingleSupplement,
				ChildPrice:            lp.ChildPrice,
				ChildAgeMin:           lp.ChildAgeMin,
				ChildAgeMax:           lp.ChildAgeMax,
				InfantPrice:           lp.InfantPrice,
				InfantAgeMax:          lp.InfantAgeMax,
			},
		})
	}
	return items
}

// legacyID keeps a parseable legacy id as-is. Non-UUID or missing ids are
// mapped to a name-based UUID seeded by the tour and the raw id (or the entry
// index when the id is empty), so the same record always resolves to the same
// id across requests.
func legacyID(tourID uuid.UUID, raw string, idx int) uuid.UUID {
	if raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			return id
		}
	}
	seed := raw
	if seed == "" {
		seed = fmt.Sprintf("#%d", idx)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(tourID.String()+"/"+seed))
}

// enforceSingleDefault leaves exactly one entry flagged default: the first
// flagged entry in order, or the first entry when none is flagged.
func enforceSingleDefault(pkgs []ResolvedPackage) {
	def := -1
	for i := range pkgs {
		if pkgs[i].IsDefault {
			if def == -1 {
				def = i
			} else {
				pkgs[i].IsDefault = false
			}
		}
	}
	if def == -1 {
		pkgs[0].IsDefault = true
	}
}
