// Package service contains the business logic for the tour catalog.
// Services validate inputs, enforce catalog rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/repo"
)

// TourService implements business logic for Tour operations.
type TourService struct {
	tours repo.TourRepo
}

// NewTourService constructs a TourService backed by the provided TourRepo.
func NewTourService(tours repo.TourRepo) *TourService {
	return &TourService{tours: tours}
}

// Create validates and persists a new tour. Status defaults to draft and
// package type to multiple when unset; the slug is normalized to lowercase.
func (s *TourService) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	if tour.Status == "" {
		tour.Status = domain.TourStatusDraft
	}
	if tour.PackageType == "" {
		tour.PackageType = domain.PackageTypeMultiple
	}
	tour.Slug = strings.ToLower(strings.TrimSpace(tour.Slug))

	if err := validateTour(tour); err != nil {
		return domain.Tour{}, err
	}

	result, err := s.tours.Create(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Create: %w", err)
	}
	return result, nil
}

// GetByID returns a single tour by ID.
func (s *TourService) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	result, err := s.tours.GetByID(ctx, id)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug returns a single tour by slug. The lookup is case-insensitive
// because slugs are stored lowercase.
func (s *TourService) GetBySlug(ctx context.Context, slug string) (domain.Tour, error) {
	result, err := s.tours.GetBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.GetBySlug: %w", err)
	}
	return result, nil
}

// List returns all tours. Always returns a non-nil slice so callers can
// safely range over it.
func (s *TourService) List(ctx context.Context) ([]domain.Tour, error) {
	tours, err := s.tours.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TourService.List: %w", err)
	}
	if tours == nil {
		return []domain.Tour{}, nil
	}
	return tours, nil
}

// Update validates and persists changes to an existing tour.
func (s *TourService) Update(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	tour.Slug = strings.ToLower(strings.TrimSpace(tour.Slug))
	if err := validateTour(tour); err != nil {
		return domain.Tour{}, err
	}
	result, err := s.tours.Update(ctx, tour)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("service.TourService.Update: %w", err)
	}
	return result, nil
}

// Delete removes a tour and everything under it.
func (s *TourService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tours.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TourService.Delete: %w", err)
	}
	return nil
}

// validateTour enforces catalog rules common to both Create and Update.
func validateTour(tour domain.Tour) error {
	if strings.TrimSpace(tour.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if tour.Slug == "" {
		return fmt.Errorf("%w: slug is required", domain.ErrValidation)
	}
	if tour.DurationDays < 1 {
		return fmt.Errorf("%w: duration_days must be at least 1", domain.ErrValidation)
	}
	if !tour.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrValidation, tour.Status)
	}
	if !tour.PackageType.Valid() {
		return fmt.Errorf("%w: unknown package_type %q", domain.ErrValidation, tour.PackageType)
	}
	return nil
}
