// Package domain contains the core data types for the tour catalog.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (pricing, booking, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// TourStatus is the publication state of a tour.
type TourStatus string

const (
	TourStatusDraft     TourStatus = "draft"
	TourStatusPublished TourStatus = "published"
	TourStatusArchived  TourStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s TourStatus) Valid() bool {
	switch s {
	case TourStatusDraft, TourStatusPublished, TourStatusArchived:
		return true
	}
	return false
}

// PackageType marks whether a tour sells a single pricing package or several.
// A single-package tour has exactly one package and it is implicitly the
// default; a multiple-package tour must have exactly one package flagged
// default.
type PackageType string

const (
	PackageTypeSingle   PackageType = "single"
	PackageTypeMultiple PackageType = "multiple"
)

// Valid reports whether p is one of the known package types.
func (p PackageType) Valid() bool {
	return p == PackageTypeSingle || p == PackageTypeMultiple
}

// Tour represents a sellable travel product.
// A tour is the top-level aggregate; pricing packages and departure dates
// belong to a tour.
//
// LegacyPackages carries the embedded package list found on older records.
// New records store packages as pricing_packages rows and leave it nil; when
// rows exist they are authoritative and the legacy list is ignored (see
// pricing.Normalize).
type Tour struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Slug           string          `json:"slug"`
	DurationDays   int             `json:"duration_days"`
	Difficulty     string          `json:"difficulty,omitempty"`
	Destination    string          `json:"destination,omitempty"`
	Status         TourStatus      `json:"status"`
	PackageType    PackageType     `json:"package_type"`
	LegacyPackages []LegacyPackage `json:"price_packages,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
