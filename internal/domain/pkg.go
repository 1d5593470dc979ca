package domain

import (
	"time"

	"github.com/google/uuid"
)

// PricingPackage is a named pricing tier for a tour (e.g. "Double Room").
// Prices are per traveller in cents. The child age band and the infant age
// ceiling must not overlap: ChildAgeMin > InfantAgeMax is enforced at write
// time, not patched up at resolution time.
type PricingPackage struct {
	ID                    uuid.UUID `json:"id"`
	TourID                uuid.UUID `json:"tour_id"`
	Name                  string    `json:"name"`
	Label                 string    `json:"label,omitempty"`
	IsDefault             bool      `json:"is_default"`
	AdultPrice            Cents     `json:"adult_price_cents"`
	AdultSingleSupplement Cents     `json:"adult_single_supplement_cents"`
	ChildPrice            Cents     `json:"child_price_cents"`
	ChildAgeMin           int       `json:"child_age_min"`
	ChildAgeMax           int       `json:"child_age_max"`
	InfantPrice           Cents     `json:"infant_price_cents"`
	InfantAgeMax          int       `json:"infant_age_max"`
	Details               string    `json:"details,omitempty"`
	SortOrder             int       `json:"sort_order"`
	Active                bool      `json:"active"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}
