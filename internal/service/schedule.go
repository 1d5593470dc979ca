package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/repo"
)

// ScheduleService implements business logic for the departure schedule:
// TourDates, per-date package overrides, and blocked dates.
// It holds tour and package repos because overrides must bind a date and a
// package that belong to the same tour.
type ScheduleService struct {
	tours repo.TourRepo
	pkgs  repo.PackageRepo
	dates repo.DateRepo
}

// NewScheduleService constructs a ScheduleService backed by the provided repos.
func NewScheduleService(tours repo.TourRepo, pkgs repo.PackageRepo, dates repo.DateRepo) *ScheduleService {
	return &ScheduleService{tours: tours, pkgs: pkgs, dates: dates}
}

// CreateDate validates the departure, verifies the parent tour exists, then
// persists.
func (s *ScheduleService) CreateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	if _, err := s.tours.GetByID(ctx, date.TourID); err != nil {
		return domain.TourDate{}, fmt.Errorf("service.ScheduleService.CreateDate: %w", err)
	}
	if err := validateDate(date); err != nil {
		return domain.TourDate{}, err
	}
	result, err := s.dates.CreateDate(ctx, date)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("service.ScheduleService.CreateDate: %w", err)
	}
	return result, nil
}

// GetDate returns a single departure by ID, scoped to the given tourID.
func (s *ScheduleService) GetDate(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error) {
	result, err := s.dates.GetDateByID(ctx, tourID, dateID)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("service.ScheduleService.GetDate: %w", err)
	}
	return result, nil
}

// ListDates returns all departures for a tour ordered by start date.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ScheduleService) ListDates(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error) {
	dates, err := s.dates.ListDatesByTourID(ctx, tourID)
	if err != nil {
		return nil, fmt.Errorf("service.ScheduleService.ListDates: %w", err)
	}
	if dates == nil {
		return []domain.TourDate{}, nil
	}
	return dates, nil
}

// UpdateDate validates and persists changes to an existing departure.
func (s *ScheduleService) UpdateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	if err := validateDate(date); err != nil {
		return domain.TourDate{}, err
	}
	result, err := s.dates.UpdateDate(ctx, date)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("service.ScheduleService.UpdateDate: %w", err)
	}
	return result, nil
}

// DeleteDate removes a departure and its overrides.
func (s *ScheduleService) DeleteDate(ctx context.Context, tourID, dateID uuid.UUID) error {
	if err := s.dates.DeleteDate(ctx, tourID, dateID); err != nil {
		return fmt.Errorf("service.ScheduleService.DeleteDate: %w", err)
	}
	return nil
}

// UpsertOverride writes the full override record for a (date, package) pair
// after verifying both belong to the given tour. The price override, when
// present, must be non-negative.
func (s *ScheduleService) UpsertOverride(ctx context.Context, tourID uuid.UUID, o domain.TourDatePackage) (domain.TourDatePackage, error) {
	if _, err := s.dates.GetDateByID(ctx, tourID, o.TourDateID); err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("service.ScheduleService.UpsertOverride: date: %w", err)
	}
	if _, err := s.pkgs.GetByID(ctx, tourID, o.PackageID); err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("service.ScheduleService.UpsertOverride: package: %w", err)
	}
	if o.PriceOverride != nil && *o.PriceOverride < 0 {
		return domain.TourDatePackage{}, fmt.Errorf("%w: price_override_cents must not be negative", domain.ErrValidation)
	}
	if o.MaxParticipantsOverride != nil && *o.MaxParticipantsOverride < 0 {
		return domain.TourDatePackage{}, fmt.Errorf("%w: max_participants_override must not be negative", domain.ErrValidation)
	}

	result, err := s.dates.UpsertOverride(ctx, o)
	if err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("service.ScheduleService.UpsertOverride: %w", err)
	}
	return result, nil
}

// GetOverride returns the override row for a (date, package) pair, scoped to
// the tour, with blocked dates attached.
func (s *ScheduleService) GetOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error) {
	if _, err := s.dates.GetDateByID(ctx, tourID, dateID); err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("service.ScheduleService.GetOverride: date: %w", err)
	}
	result, err := s.dates.GetOverride(ctx, dateID, pkgID)
	if err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("service.ScheduleService.GetOverride: %w", err)
	}
	return result, nil
}

// DeleteOverride removes the override row for a (date, package) pair, scoped
// to the tour.
func (s *ScheduleService) DeleteOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) error {
	if _, err := s.dates.GetDateByID(ctx, tourID, dateID); err != nil {
		return fmt.Errorf("service.ScheduleService.DeleteOverride: date: %w", err)
	}
	if err := s.dates.DeleteOverride(ctx, dateID, pkgID); err != nil {
		return fmt.Errorf("service.ScheduleService.DeleteOverride: %w", err)
	}
	return nil
}

// BlockDate records one blocked calendar day on the override row for the
// (date, package) pair. The override row must already exist — blocking a day
// for a package that has no row on the date is meaningless, because without a
// row the package sells at base price.
func (s *ScheduleService) BlockDate(ctx context.Context, tourID, dateID, pkgID uuid.UUID, day time.Time) (domain.BlockedDate, error) {
	if _, err := s.dates.GetDateByID(ctx, tourID, dateID); err != nil {
		return domain.BlockedDate{}, fmt.Errorf("service.ScheduleService.BlockDate: date: %w", err)
	}
	override, err := s.dates.GetOverride(ctx, dateID, pkgID)
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("service.ScheduleService.BlockDate: override: %w", err)
	}

	result, err := s.dates.AddBlockedDate(ctx, override.ID, day)
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("service.ScheduleService.BlockDate: %w", err)
	}
	return result, nil
}

// UnblockDate removes one blocked date entry from the override row for the
// (date, package) pair.
func (s *ScheduleService) UnblockDate(ctx context.Context, tourID, dateID, pkgID, blockedID uuid.UUID) error {
	if _, err := s.dates.GetDateByID(ctx, tourID, dateID); err != nil {
		return fmt.Errorf("service.ScheduleService.UnblockDate: date: %w", err)
	}
	override, err := s.dates.GetOverride(ctx, dateID, pkgID)
	if err != nil {
		return fmt.Errorf("service.ScheduleService.UnblockDate: override: %w", err)
	}
	if err := s.dates.RemoveBlockedDate(ctx, override.ID, blockedID); err != nil {
		return fmt.Errorf("service.ScheduleService.UnblockDate: %w", err)
	}
	return nil
}

// validateDate enforces schedule rules common to CreateDate and UpdateDate.
//   - end_date, when present, must not be before start_date.
//   - repeat_until requires a repeat pattern and must not be before start_date.
func validateDate(date domain.TourDate) error {
	if date.StartDate.IsZero() {
		return fmt.Errorf("%w: start_date is required", domain.ErrValidation)
	}
	if date.EndDate != nil && date.EndDate.Before(date.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if !date.RepeatPattern.Valid() {
		return fmt.Errorf("%w: unknown repeat_pattern %q", domain.ErrValidation, date.RepeatPattern)
	}
	if date.RepeatUntil != nil {
		if date.RepeatPattern == domain.RepeatNone {
			return fmt.Errorf("%w: repeat_until requires a repeat_pattern", domain.ErrValidation)
		}
		if date.RepeatUntil.Before(date.StartDate) {
			return fmt.Errorf("%w: repeat_until must not be before start_date", domain.ErrValidation)
		}
	}
	if date.MaxParticipants < 0 {
		return fmt.Errorf("%w: max_participants must not be negative", domain.ErrValidation)
	}
	return nil
}
