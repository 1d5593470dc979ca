package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// PackageRepo defines the persistence operations for PricingPackages.
type PackageRepo interface {
	// Create inserts a new package and returns the persisted record.
	Create(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error)

	// GetByID retrieves a package by ID, scoped to the given tourID.
	// Returns domain.ErrNotFound if no package with that ID exists under that tour.
	GetByID(ctx context.Context, tourID, pkgID uuid.UUID) (domain.PricingPackage, error)

	// ListByTourID returns all packages for a tour ordered by sort_order then name.
	ListByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.PricingPackage, error)

	// Update overwrites the mutable fields of a package (excluding is_default,
	// which only SetDefault may change) and returns the updated record.
	Update(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error)

	// SetDefault flags pkgID as the tour's default and clears the flag on every
	// sibling, in one atomic statement, so at most one default can ever be
	// observed even under concurrent edits.
	// Returns domain.ErrNotFound if the package does not exist under the tour.
	SetDefault(ctx context.Context, tourID, pkgID uuid.UUID) error

	// Delete removes a package by ID, scoped to the given tourID.
	// Returns domain.ErrNotFound if it does not exist under that tour.
	Delete(ctx context.Context, tourID, pkgID uuid.UUID) error
}

// pgPackageRepo is the Postgres implementation of PackageRepo.
type pgPackageRepo struct {
	db db
}

// NewPackageRepo constructs a PackageRepo backed by the provided db connection.
func NewPackageRepo(db db) PackageRepo {
	return &pgPackageRepo{db: db}
}

const pkgColumns = `id, tour_id, name, label, is_default, adult_price_cents,
	adult_single_supplement_cents, child_price_cents, child_age_min, child_age_max,
	infant_price_cents, infant_age_max, details, sort_order, active,
	created_at, updated_at`

// Create inserts a new package row and returns the full persisted record.
func (r *pgPackageRepo) Create(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error) {
	const q = `
		INSERT INTO pricing_packages (tour_id, name, label, is_default,
			adult_price_cents, adult_single_supplement_cents, child_price_cents,
			child_age_min, child_age_max, infant_price_cents, infant_age_max,
			details, sort_order, active)
		VALUES (@tour_id, @name, @label, @is_default, @adult_price_cents,
			@adult_single_supplement_cents, @child_price_cents, @child_age_min,
			@child_age_max, @infant_price_cents, @infant_age_max, @details,
			@sort_order, @active)
		RETURNING ` + pkgColumns

	row := r.db.QueryRow(ctx, q, pkgArgs(pkg))
	result, err := scanPackage(row)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("repo.PackageRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a package by primary key, scoped to its tour.
func (r *pgPackageRepo) GetByID(ctx context.Context, tourID, pkgID uuid.UUID) (domain.PricingPackage, error) {
	const q = `SELECT ` + pkgColumns + `
		FROM pricing_packages
		WHERE id = @id AND tour_id = @tour_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": pkgID, "tour_id": tourID})
	result, err := scanPackage(row)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("repo.PackageRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByTourID returns a tour's packages in presentation order.
func (r *pgPackageRepo) ListByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.PricingPackage, error) {
	const q = `SELECT ` + pkgColumns + `
		FROM pricing_packages
		WHERE tour_id = @tour_id
		ORDER BY sort_order, name`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_id": tourID})
	if err != nil {
		return nil, fmt.Errorf("repo.PackageRepo.ListByTourID: %w", err)
	}
	defer rows.Close()

	var pkgs []domain.PricingPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.PackageRepo.ListByTourID: scan: %w", err)
		}
		pkgs = append(pkgs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.PackageRepo.ListByTourID: rows: %w", err)
	}

	return pkgs, nil
}

// Update overwrites the mutable fields of a package and returns the updated
// record. is_default is intentionally absent: default changes go through
// SetDefault so the at-most-one-default invariant cannot be broken by a
// routine edit.
func (r *pgPackageRepo) Update(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error) {
	const q = `
		UPDATE pricing_packages
		SET name                          = @name,
		    label                         = @label,
		    adult_price_cents             = @adult_price_cents,
		    adult_single_supplement_cents = @adult_single_supplement_cents,
		    child_price_cents             = @child_price_cents,
		    child_age_min                 = @child_age_min,
		    child_age_max                 = @child_age_max,
		    infant_price_cents            = @infant_price_cents,
		    infant_age_max                = @infant_age_max,
		    details                       = @details,
		    sort_order                    = @sort_order,
		    active                        = @active,
		    updated_at                    = now()
		WHERE id = @id AND tour_id = @tour_id
		RETURNING ` + pkgColumns

	args := pkgArgs(pkg)
	args["id"] = pkg.ID
	delete(args, "is_default")

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanPackage(row)
	if err != nil {
		return domain.PricingPackage{}, fmt.Errorf("repo.PackageRepo.Update: %w", err)
	}
	return result, nil
}

// SetDefault makes pkgID the sole default for the tour. The single UPDATE
// touches every package row of the tour in one statement, so no interleaving
// can observe two defaults.
func (r *pgPackageRepo) SetDefault(ctx context.Context, tourID, pkgID uuid.UUID) error {
	const q = `
		UPDATE pricing_packages
		SET is_default = (id = @id),
		    updated_at = CASE WHEN is_default <> (id = @id) THEN now() ELSE updated_at END
		WHERE tour_id = @tour_id
		  AND EXISTS (
		      SELECT 1 FROM pricing_packages
		      WHERE id = @id AND tour_id = @tour_id
		  )`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": pkgID, "tour_id": tourID})
	if err != nil {
		return fmt.Errorf("repo.PackageRepo.SetDefault: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackageRepo.SetDefault: %w", domain.ErrNotFound)
	}
	return nil
}

// Delete removes a package by primary key, scoped to its tour.
func (r *pgPackageRepo) Delete(ctx context.Context, tourID, pkgID uuid.UUID) error {
	const q = `DELETE FROM pricing_packages WHERE id = @id AND tour_id = @tour_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": pkgID, "tour_id": tourID})
	if err != nil {
		return fmt.Errorf("repo.PackageRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.PackageRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// pkgArgs builds the NamedArgs shared by Create and Update.
func pkgArgs(pkg domain.PricingPackage) pgx.NamedArgs {
	return pgx.NamedArgs{
		"tour_id":                       pkg.TourID,
		"name":                          pkg.Name,
		"label":                         pkg.Label,
		"is_default":                    pkg.IsDefault,
		"adult_price_cents":             int64(pkg.AdultPrice),
		"adult_single_supplement_cents": int64(pkg.AdultSingleSupplement),
		"child_price_cents":             int64(pkg.ChildPrice),
		"child_age_min":                 pkg.ChildAgeMin,
		"child_age_max":                 pkg.ChildAgeMax,
		"infant_price_cents":            int64(pkg.InfantPrice),
		"infant_age_max":                pkg.InfantAgeMax,
		"details":                       pkg.Details,
		"sort_order":                    pkg.SortOrder,
		"active":                        pkg.Active,
	}
}

// scanPackage maps a single database row into a domain.PricingPackage.
func scanPackage(s scanner) (domain.PricingPackage, error) {
	var (
		p      domain.PricingPackage
		id     pgtype.UUID
		tourID pgtype.UUID
		adult  int64
		single int64
		child  int64
		infant int64
	)

	err := s.Scan(&id, &tourID, &p.Name, &p.Label, &p.IsDefault, &adult, &single,
		&child, &p.ChildAgeMin, &p.ChildAgeMax, &infant, &p.InfantAgeMax,
		&p.Details, &p.SortOrder, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.PricingPackage{}, domain.ErrNotFound
		}
		return domain.PricingPackage{}, err
	}

	p.ID = uuid.UUID(id.Bytes)
	p.TourID = uuid.UUID(tourID.Bytes)
	p.AdultPrice = domain.Cents(adult)
	p.AdultSingleSupplement = domain.Cents(single)
	p.ChildPrice = domain.Cents(child)
	p.InfantPrice = domain.Cents(infant)

	return p, nil
}
