package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/pricing"
	"github.com/mzavros/tour-catalog/internal/repo"
)

// QuoteService drives the public booking surface: the resolved package list,
// the availability calendar, and the effective price for a (package, date)
// selection. All heavy lifting is delegated to the pure pricing core; this
// service only fetches rows and maps missing references to typed errors.
type QuoteService struct {
	tours repo.TourRepo
	pkgs  repo.PackageRepo
	dates repo.DateRepo
}

// NewQuoteService constructs a QuoteService backed by the provided repos.
func NewQuoteService(tours repo.TourRepo, pkgs repo.PackageRepo, dates repo.DateRepo) *QuoteService {
	return &QuoteService{tours: tours, pkgs: pkgs, dates: dates}
}

// ResolvedPackages returns the canonical package list for a tour, as shown in
// the public package picker. The normalizer receives the raw row set: it drops
// inactive rows itself, after deciding between rows and the legacy list, so a
// tour whose rows are all inactive shows no packages rather than its legacy
// entries.
func (s *QuoteService) ResolvedPackages(ctx context.Context, tourID uuid.UUID) ([]pricing.ResolvedPackage, error) {
	tour, rows, err := s.fetchTourAndPackages(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.QuoteService.ResolvedPackages: %w", err)
	}
	return pricing.Normalize(tour, rows), nil
}

// Availability returns the bookable departures of a tour grouped by calendar
// month, relative to now.
func (s *QuoteService) Availability(ctx context.Context, tourID uuid.UUID, now time.Time) ([]pricing.MonthGroup, error) {
	if _, err := s.tours.GetByID(ctx, tourID); err != nil {
		return nil, fmt.Errorf("service.QuoteService.Availability: %w", err)
	}
	dates, err := s.dates.ListDatesByTourID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.QuoteService.Availability: %w", err)
	}
	return pricing.GroupByMonth(pricing.FilterDates(dates, now)), nil
}

// Quote resolves the effective price for selecting pkgID on dateID.
//
// Package data and date data are independent reads, so they are fetched
// concurrently and joined before the (purely synchronous) resolution begins.
// A package id outside the tour's resolved set yields domain.ErrPackageUnknown;
// a date id outside the tour's schedule yields domain.ErrDateUnknown. Both are
// caller errors, surfaced immediately and never defaulted.
//
// A date that exists but is unavailable or already departed quotes as not
// bookable rather than erroring, so the UI can still render the price.
func (s *QuoteService) Quote(ctx context.Context, tourID, pkgID, dateID uuid.UUID, now time.Time) (pricing.Quote, error) {
	var (
		tour      domain.Tour
		rows      []domain.PricingPackage
		date      domain.TourDate
		overrides []domain.TourDatePackage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tour, rows, err = s.fetchTourAndPackages(gctx, tourID)
		return err
	})
	g.Go(func() error {
		d, err := s.dates.GetDateByID(gctx, tourID, dateID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: %v", domain.ErrDateUnknown, dateID)
			}
			return err
		}
		date = d

		overrides, err = s.dates.ListOverridesByDateID(gctx, dateID)
		return err
	})
	if err := g.Wait(); err != nil {
		return pricing.Quote{}, fmt.Errorf("service.QuoteService.Quote: %w", err)
	}

	resolved := pricing.Normalize(tour, rows)
	var pkg *pricing.ResolvedPackage
	for i := range resolved {
		if resolved[i].ID == pkgID {
			pkg = &resolved[i]
			break
		}
	}
	if pkg == nil {
		return pricing.Quote{}, fmt.Errorf("service.QuoteService.Quote: %w: %v", domain.ErrPackageUnknown, pkgID)
	}

	quote := pricing.Resolve(*pkg, date, overrides)

	// The resolver trusts its caller on date eligibility; re-check here since
	// this entry point takes a raw date id rather than a filtered one.
	if len(pricing.FilterDates([]domain.TourDate{date}, now)) == 0 {
		quote.Bookable = false
	}

	return quote, nil
}

// fetchTourAndPackages loads a tour and its relational package rows.
func (s *QuoteService) fetchTourAndPackages(ctx context.Context, tourID uuid.UUID) (domain.Tour, []domain.PricingPackage, error) {
	tour, err := s.tours.GetByID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, nil, err
	}
	rows, err := s.pkgs.ListByTourID(ctx, tourID)
	if err != nil {
		return domain.Tour{}, nil, err
	}
	return tour, rows, nil
}
