package domain

import "encoding/json"

// LegacyPackage is one entry of the embedded package list stored on older
// tour records, before packages moved to their own table.
//
// Two serialization conventions exist in historical data: camelCase
// ("adultPrice", "isDefault") and snake_case ("adult_price", "is_default").
// UnmarshalJSON coalesces them once, here, so no downstream code ever branches
// on field spelling. When both spellings are present the camelCase value wins.
type LegacyPackage struct {
	ID                    string
	Name                  string
	IsDefault             bool
	AdultPrice            Cents
	AdultSingleSupplement Cents
	ChildPrice            Cents
	ChildAgeMin           int
	ChildAgeMax           int
	InfantPrice           Cents
	InfantAgeMax          int
	SortOrder             int
}

// legacyPackageJSON mirrors LegacyPackage with every aliased field in both
// spellings, as pointers so absence is distinguishable from zero.
type legacyPackageJSON struct {
	ID   *string `json:"id,omitempty"`
	Name *string `json:"name,omitempty"`

	IsDefault      *bool `json:"isDefault,omitempty"`
	IsDefaultSnake *bool `json:"is_default,omitempty"`

	AdultPrice      *Cents `json:"adultPrice,omitempty"`
	AdultPriceSnake *Cents `json:"adult_price,omitempty"`

	AdultSingleSupplement      *Cents `json:"adultSingleSupplement,omitempty"`
	AdultSingleSupplementSnake *Cents `json:"adult_single_supplement,omitempty"`

	ChildPrice      *Cents `json:"childPrice,omitempty"`
	ChildPriceSnake *Cents `json:"child_price,omitempty"`

	ChildAgeMin      *int `json:"childAgeMin,omitempty"`
	ChildAgeMinSnake *int `json:"child_age_min,omitempty"`

	ChildAgeMax      *int `json:"childAgeMax,omitempty"`
	ChildAgeMaxSnake *int `json:"child_age_max,omitempty"`

	InfantPrice      *Cents `json:"infantPrice,omitempty"`
	InfantPriceSnake *Cents `json:"infant_price,omitempty"`

	InfantAgeMax      *int `json:"infantAgeMax,omitempty"`
	InfantAgeMaxSnake *int `json:"infant_age_max,omitempty"`

	SortOrder      *int `json:"sortOrder,omitempty"`
	SortOrderSnake *int `json:"sort_order,omitempty"`
}

// UnmarshalJSON decodes a legacy entry, preferring camelCase fields and
// falling back to snake_case ones.
func (p *LegacyPackage) UnmarshalJSON(b []byte) error {
	var aux legacyPackageJSON
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}

	p.ID = coalesce(aux.ID, nil)
	p.Name = coalesce(aux.Name, nil)
	p.IsDefault = coalesce(aux.IsDefault, aux.IsDefaultSnake)
	p.AdultPrice = coalesce(aux.AdultPrice, aux.AdultPriceSnake)
	p.AdultSingleSupplement = coalesce(aux.AdultSingleSupplement, aux.AdultSingleSupplementSnake)
	p.ChildPrice = coalesce(aux.ChildPrice, aux.ChildPriceSnake)
	p.ChildAgeMin = coalesce(aux.ChildAgeMin, aux.ChildAgeMinSnake)
	p.ChildAgeMax = coalesce(aux.ChildAgeMax, aux.ChildAgeMaxSnake)
	p.InfantPrice = coalesce(aux.InfantPrice, aux.InfantPriceSnake)
	p.InfantAgeMax = coalesce(aux.InfantAgeMax, aux.InfantAgeMaxSnake)
	p.SortOrder = coalesce(aux.SortOrder, aux.SortOrderSnake)

	return nil
}

// MarshalJSON writes the camelCase spelling only. Round-tripping a legacy
// record normalizes it.
func (p LegacyPackage) MarshalJSON() ([]byte, error) {
	return json.Marshal(legacyPackageJSON{
		ID:                    &p.ID,
		Name:                  &p.Name,
		IsDefault:             &p.IsDefault,
		AdultPrice:            &p.AdultPrice,
		AdultSingleSupplement: &p.AdultSingleSupplement,
		ChildPrice:            &p.ChildPrice,
		ChildAgeMin:           &p.ChildAgeMin,
		ChildAgeMax:           &p.ChildAgeMax,
		InfantPrice:           &p.InfantPrice,
		InfantAgeMax:          &p.InfantAgeMax,
		SortOrder:             &p.SortOrder,
	})
}

// coalesce returns the first non-nil pointer's value, or the zero value when
// both are nil.
func coalesce[T any](camel, snake *T) T {
	if camel != nil {
		return *camel
	}
	if snake != nil {
		return *snake
	}
	var zero T
	return zero
}
