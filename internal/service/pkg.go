package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/repo"
)

// PackageService implements business logic for PricingPackage operations.
// It owns the default-package rules: every tour with packages has exactly one
// default, single-package tours hold exactly one package, and deleting the
// default promotes a sibling rather than leaving the tour defaultless.
type PackageService struct {
	tours repo.TourRepo
	pkgs  repo.PackageRepo
}

// NewPackageService constructs a PackageService backed by the provided repos.
func NewPackageService(tours repo.TourRepo, pkgs repo.PackageRepo) *PackageService {
	return &PackageService{tours: tours, pkgs: pkgs}
}

// Create validates the package, verifies the parent tour exists, then persists.
// The first package of a tour is forced to be the default. A single-package
// tour rejects a second package.
// Returns domain.ErrValidation if input violates catalog rules.
// Returns domain.ErrNotFound if the parent tour does not exist.
func (s *PackageService) Create(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error) {
	tour, err := s.tours.GetByID(ctx, pkg.TourID)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Create: %w", err)
	}
	if err := validatePackage(pkg); err != nil {
		return domain.PricingPackage{}, err
	}

	existing, err := s.pkgs.ListByTourID(ctx, pkg.TourID)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Create: %w", err)
	}
	if tour.PackageType == domain.PackageTypeSingle && len(existing) > 0 {
		return domain.PricingPackage{}, fmt.Errorf("%w: single-package tour already has a package", domain.ErrValidation)
	}
	if len(existing) == 0 {
		pkg.IsDefault = true
	}

	// A later package saved with the default flag takes it over from the
	// current holder. Insert without the flag and let SetDefault move it in
	// one atomic statement, so no moment exists where two rows carry it.
	takeDefault := pkg.IsDefault && len(existing) > 0
	if takeDefault {
		pkg.IsDefault = false
	}

	result, err := s.pkgs.Create(ctx, pkg)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Create: %w", err)
	}

	if takeDefault {
		if err := s.pkgs.SetDefault(ctx, pkg.TourID, result.ID); err != nil {
			return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Create: %w", err)
		}
		result.IsDefault = true
	}

	return result, nil
}

// GetByID returns a single package by ID, scoped to the given tourID.
func (s *PackageService) GetByID(ctx context.Context, tourID, pkgID uuid.UUID) (domain.PricingPackage, error) {
	result, err := s.pkgs.GetByID(ctx, tourID, pkgID)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.GetByID: %w", err)
	}
	return result, nil
}

// ListByTourID returns all packages for a tour ordered by sort_order then name.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PackageService) ListByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.PricingPackage, error) {
	pkgs, err := s.pkgs.ListByTourID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.PackageService.ListByTourID: %w", err)
	}
	if pkgs == nil {
		return []domain.PricingPackage{}, nil
	}
	return pkgs, nil
}

// Update validates and persists changes to an existing package.
//
// The default flag follows the admin UI's full-record save: flagging a
// non-default package routes through SetDefault; un-flagging the current
// default is rejected, because that would leave the tour defaultless — the
// admin must flag another package instead.
func (s *PackageService) Update(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error) {
	if err := validatePackage(pkg); err != nil {
		return domain.PricingPackage{}, err
	}

	current, err := s.pkgs.GetByID(ctx, pkg.TourID, pkg.ID)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Update: %w", err)
	}
	if current.IsDefault && !pkg.IsDefault {
		return domain.PricingPackage{}, fmt.Errorf("%w: cannot unset the default package; set another package as default instead", domain.ErrValidation)
	}

	result, err := s.pkgs.Update(ctx, pkg)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Update: %w", err)
	}

	if pkg.IsDefault && !current.IsDefault {
		if err := s.pkgs.SetDefault(ctx, pkg.TourID, pkg.ID); err != nil {
			return domain.PricingPackage{}, fmt.Errorf("service.PackageService.Update: %w", err)
		}
		result.IsDefault = true
	}

	return result, nil
}

// SetDefault makes the given package the tour's sole default.
func (s *PackageService) SetDefault(ctx context.Context, tourID, pkgID uuid.UUID) error {
	if err := s.pkgs.SetDefault(ctx, tourID, pkgID); err != nil {
		return fmt.Errorf("service.PackageService.SetDefault: %w", err)
	}
	return nil
}

// Delete removes a package. Deleting the last package of a tour is rejected;
// deleting the default promotes the first remaining package (by sort_order
// then name) so the tour never ends up defaultless.
func (s *PackageService) Delete(ctx context.Context, tourID, pkgID uuid.UUID) error {
	target, err := s.pkgs.GetByID(ctx, tourID, pkgID)
	if err != nil {
		return fmt.Errorf("service.PackageService.Delete: %w", err)
	}

	siblings, err := s.pkgs.ListByTourID(ctx, tourID)
	if err != nil {
		return fmt.Errorf("service.PackageService.Delete: %w", err)
	}
	if len(siblings) <= 1 {
		return fmt.Errorf("%w: cannot delete the only package of a tour", domain.ErrValidation)
	}

	if err := s.pkgs.Delete(ctx, tourID, pkgID); err != nil {
		return fmt.Errorf("service.PackageService.Delete: %w", err)
	}

	if target.IsDefault {
		// siblings is already in (sort_order, name) order; promote the first
		// one that is not the package just deleted.
		for _, sib := range siblings {
			if sib.ID == pkgID {
				continue
			}
			if err := s.pkgs.SetDefault(ctx, tourID, sib.ID); err != nil {
				return fmt.Errorf("service.PackageService.Delete: promote: %w", err)
			}
			break
		}
	}

	return nil
}

// validatePackage enforces catalog rules common to both Create and Update.
//   - Name must be non-empty (whitespace-only names are rejected).
//   - All prices must be non-negative.
//   - The child age band must be ordered and must sit strictly above the
//     infant ceiling: a child minimum at or below the infant maximum makes
//     a traveller's price ambiguous and is rejected at write time.
func validatePackage(pkg domain.PricingPackage) error {
	if strings.TrimSpace(pkg.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	for _, price := range []struct {
		field string
		value domain.Cents
	}{
		{"adult_price_cents", pkg.AdultPrice},
		{"adult_single_supplement_cents", pkg.AdultSingleSupplement},
		{"child_price_cents", pkg.ChildPrice},
		{"infant_price_cents", pkg.InfantPrice},
	} {
		if price.value < 0 {
			return fmt.Errorf("%w: %s must not be negative", domain.ErrValidation, price.field)
		}
	}
	if pkg.ChildAgeMin > pkg.ChildAgeMax {
		return fmt.Errorf("%w: child_age_min must not exceed child_age_max", domain.ErrValidation)
	}
	if pkg.ChildAgeMin <= pkg.InfantAgeMax {
		return fmt.Errorf("%w: child age band overlaps infant age ceiling", domain.ErrValidation)
	}
	return nil
}
