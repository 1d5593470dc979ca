// Package booking models the client-facing selection flow: a traveller picks
// a package, then a date, and only then may book. The ordering is enforced by
// construction — the date setter fails while no package is chosen — rather
// than by checks callers could forget.
package booking

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/pricing"
)

// State is the observable progress of a selection.
type State int

const (
	// StateNoPackage: nothing chosen yet; date controls are disabled.
	StateNoPackage State = iota
	// StatePackageSelected: a package is chosen, awaiting a date.
	StatePackageSelected
	// StateReadyToBook: package and date are both chosen. This is the only
	// state in which the booking action is enabled. Having both selected and
	// being ready to book are not distinct states here: both are entered by
	// the same event (the date selection) and no transition separates them,
	// so one state represents both.
	StateReadyToBook
)

// String returns a short name for the state, for logs and test output.
func (s State) String() string {
	switch s {
	case StateNoPackage:
		return "no_package"
	case StatePackageSelected:
		return "package_selected"
	case StateReadyToBook:
		return "ready_to_book"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrNoPackageSelected is returned by SelectDate while no package is chosen.
var ErrNoPackageSelected = fmt.Errorf("%w: select a package before a date", domain.ErrValidation)

// Selection tracks one traveller's package-then-date choice for a tour.
// It is built from the tour's resolved package list and never allows a date
// without a package. Not safe for concurrent use; each session owns its own.
type Selection struct {
	packages  []pricing.ResolvedPackage
	packageID *uuid.UUID
	dateID    *uuid.UUID
}

// NewSelection starts a selection over the given resolved packages.
// When exactly one package exists it is selected automatically, so
// single-package tours begin with date controls already enabled.
func NewSelection(packages []pricing.ResolvedPackage) *Selection {
	s := &Selection{packages: packages}
	if len(packages) == 1 {
		id := packages[0].ID
		s.packageID = &id
	}
	return s
}

// SelectPackage chooses a package by id. Choosing a different package clears
// any chosen date, because per-date overrides are package-specific and a
// price shown for one package says nothing about another. Re-selecting the
// current package keeps the date.
func (s *Selection) SelectPackage(id uuid.UUID) error {
	found := false
	for i := range s.packages {
		if s.packages[i].ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("booking.Selection.SelectPackage: %w", domain.ErrPackageUnknown)
	}
	if s.packageID != nil && *s.packageID == id {
		return nil
	}
	s.packageID = &id
	s.dateID = nil
	return nil
}

// SelectDate chooses a departure date. It fails with ErrNoPackageSelected
// while no package is chosen; the selection is left unchanged.
func (s *Selection) SelectDate(id uuid.UUID) error {
	if s.packageID == nil {
		return fmt.Errorf("booking.Selection.SelectDate: %w", ErrNoPackageSelected)
	}
	s.dateID = &id
	return nil
}

// Clear resets the selection to its initial state (including the singleton
// auto-select, which re-applies).
func (s *Selection) Clear() {
	s.packageID = nil
	s.dateID = nil
	if len(s.packages) == 1 {
		id := s.packages[0].ID
		s.packageID = &id
	}
}

// Package returns the chosen package id, if any.
func (s *Selection) Package() (uuid.UUID, bool) {
	if s.packageID == nil {
		return uuid.UUID{}, false
	}
	return *s.packageID, true
}

// Date returns the chosen date id, if any.
func (s *Selection) Date() (uuid.UUID, bool) {
	if s.dateID == nil {
		return uuid.UUID{}, false
	}
	return *s.dateID, true
}

// State derives the current state. A date id can never be set without a
// package id, so the states form a strict progression.
func (s *Selection) State() State {
	switch {
	case s.packageID == nil:
		return StateNoPackage
	case s.dateID == nil:
		return StatePackageSelected
	default:
		return StateReadyToBook
	}
}

// CanBook reports whether the booking action is enabled.
func (s *Selection) CanBook() bool {
	return s.State() == StateReadyToBook
}
