package domain

import (
	"time"

	"github.com/google/uuid"
)

// RepeatPattern describes how a departure recurs. Patterns are stored as
// entered by the administrator; they are never expanded into individual
// occurrences — availability filtering operates only on materialized
// TourDate rows.
type RepeatPattern string

const (
	RepeatNone    RepeatPattern = ""
	RepeatDaily   RepeatPattern = "daily"
	RepeatWeekly  RepeatPattern = "weekly"
	RepeatMonthly RepeatPattern = "monthly"
	RepeatYearly  RepeatPattern = "yearly"
)

// Valid reports whether p is a known pattern (including "none").
func (p RepeatPattern) Valid() bool {
	switch p {
	case RepeatNone, RepeatDaily, RepeatWeekly, RepeatMonthly, RepeatYearly:
		return true
	}
	return false
}

// TourDate is a specific bookable departure of a tour.
// EndDate is nil for single-day departures. MaxParticipants is advisory
// capacity data; nothing in the catalog decrements or enforces it.
type TourDate struct {
	ID              uuid.UUID     `json:"id"`
	TourID          uuid.UUID     `json:"tour_id"`
	StartDate       time.Time     `json:"start_date"`
	EndDate         *time.Time    `json:"end_date,omitempty"`
	IsAvailable     bool          `json:"is_available"`
	MaxParticipants int           `json:"max_participants"`
	RepeatPattern   RepeatPattern `json:"repeat_pattern,omitempty"`
	RepeatUntil     *time.Time    `json:"repeat_until,omitempty"`
	Notes           string        `json:"notes,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// TourDatePackage binds a pricing package to one departure date with optional
// per-date adjustments. The row existing does not make the package sellable on
// the date: Enabled must independently be true. PriceOverride replaces the
// package's adult price only; child and infant prices have no per-date
// override in this model.
type TourDatePackage struct {
	ID                      uuid.UUID     `json:"id"`
	TourDateID              uuid.UUID     `json:"tour_date_id"`
	PackageID               uuid.UUID     `json:"package_id"`
	Enabled                 bool          `json:"enabled"`
	PriceOverride           *Cents        `json:"price_override_cents,omitempty"`
	MaxParticipantsOverride *int          `json:"max_participants_override,omitempty"`
	Notes                   string        `json:"notes,omitempty"`
	BlockedDates            []BlockedDate `json:"blocked_dates,omitempty"`
	CreatedAt               time.Time     `json:"created_at"`
	UpdatedAt               time.Time     `json:"updated_at"`
}

// BlockedDate excludes one calendar date from sale within an override's scope
// (e.g. an embargo inside a repeating series). A blocked date always wins over
// an otherwise-enabled override.
type BlockedDate struct {
	ID                uuid.UUID `json:"id"`
	TourDatePackageID uuid.UUID `json:"tour_date_package_id"`
	BlockedOn         time.Time `json:"blocked_on"`
	CreatedAt         time.Time `json:"created_at"`
}
