// Package repo contains all database access logic for the tour catalog.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// TourRepo defines the persistence operations for Tours.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TourRepo interface {
	// Create inserts a new tour and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, tour domain.Tour) (domain.Tour, error)

	// GetByID retrieves a single tour by its UUID primary key.
	// Returns domain.ErrNotFound if no tour with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)

	// GetBySlug retrieves a single tour by its unique slug.
	// Returns domain.ErrNotFound if no tour with that slug exists.
	GetBySlug(ctx context.Context, slug string) (domain.Tour, error)

	// List returns all tours ordered by title ascending.
	List(ctx context.Context) ([]domain.Tour, error)

	// Update overwrites the mutable fields of an existing tour and returns the
	// updated record. Returns domain.ErrNotFound if no tour with that ID exists.
	// The legacy embedded package list is deliberately not updatable: it exists
	// for backward compatibility with old records only.
	Update(ctx context.Context, tour domain.Tour) (domain.Tour, error)

	// Delete removes a tour by ID, cascading to its packages and dates.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTourRepo is the Postgres implementation of TourRepo.
type pgTourRepo struct {
	db db
}

// NewTourRepo constructs a TourRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTourRepo(db db) TourRepo {
	return &pgTourRepo{db: db}
}

const tourColumns = `id, title, slug, duration_days, difficulty, destination,
	status, package_type, legacy_packages, created_at, updated_at`

// Create inserts a new tour row and returns the full persisted record.
// LegacyPackages is stored as jsonb so records migrated from the old system
// keep their embedded package list intact.
func (r *pgTourRepo) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	const q = `
		INSERT INTO tours (title, slug, duration_days, difficulty, destination,
			status, package_type, legacy_packages)
		VALUES (@title, @slug, @duration_days, @difficulty, @destination,
			@status, @package_type, @legacy_packages)
		RETURNING ` + tourColumns

	legacy, err := marshalLegacy(tour.LegacyPackages)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Create: %w", err)
	}

	args := pgx.NamedArgs{
		"title":           tour.Title,
		"slug":            tour.Slug,
		"duration_days":   tour.DurationDays,
		"difficulty":      tour.Difficulty,
		"destination":     tour.Destination,
		"status":          string(tour.Status),
		"package_type":    string(tour.PackageType),
		"legacy_packages": legacy, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves a tour by primary key.
func (r *pgTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetByID: %w", err)
	}
	return result, nil
}

// GetBySlug retrieves a tour by its unique slug.
func (r *pgTourRepo) GetBySlug(ctx context.Context, slug string) (domain.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours WHERE slug = @slug`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"slug": slug})
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.GetBySlug: %w", err)
	}
	return result, nil
}

// List returns all tours ordered by title.
func (r *pgTourRepo) List(ctx context.Context) ([]domain.Tour, error) {
	const q = `SELECT ` + tourColumns + ` FROM tours ORDER BY title, id`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TourRepo.List: %w", err)
	}
	defer rows.Close()

	var tours []domain.Tour
	for rows.Next() {
		t, err := scanTour(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TourRepo.List: scan: %w", err)
		}
		tours = append(tours, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TourRepo.List: rows: %w", err)
	}

	return tours, nil
}

// Update overwrites the mutable fields of a tour and returns the updated record.
func (r *pgTourRepo) Update(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	const q = `
		UPDATE tours
		SET title         = @title,
		    slug          = @slug,
		    duration_days = @duration_days,
		    difficulty    = @difficulty,
		    destination   = @destination,
		    status        = @status,
		    package_type  = @package_type,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + tourColumns

	args := pgx.NamedArgs{
		"id":            tour.ID,
		"title":         tour.Title,
		"slug":          tour.Slug,
		"duration_days": tour.DurationDays,
		"difficulty":    tour.Difficulty,
		"destination":   tour.Destination,
		"status":        string(tour.Status),
		"package_type":  string(tour.PackageType),
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanTour(row)
	if err != nil {
		return domain.Tour{}, fmt.Errorf("repo.TourRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes a tour by primary key. Packages, dates, overrides, and
// blocked dates go with it via ON DELETE CASCADE.
func (r *pgTourRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM tours WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TourRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TourRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanTour maps a single database row into a domain.Tour.
// It handles the UUID and nullable jsonb legacy_packages conversions.
func scanTour(s scanner) (domain.Tour, error) {
	var (
		t      domain.Tour
		id     pgtype.UUID
		status string
		ptype  string
		legacy []byte
	)

	err := s.Scan(&id, &t.Title, &t.Slug, &t.DurationDays, &t.Difficulty,
		&t.Destination, &status, &ptype, &legacy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tour{}, domain.ErrNotFound
		}
		return domain.Tour{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.Status = domain.TourStatus(status)
	t.PackageType = domain.PackageType(ptype)

	if len(legacy) > 0 {
		if err := json.Unmarshal(legacy, &t.LegacyPackages); err != nil {
			return domain.Tour{}, fmt.Errorf("legacy_packages: %w", err)
		}
	}

	return t, nil
}

// marshalLegacy serializes the legacy list for the jsonb column, mapping an
// empty list to NULL so new records never carry a legacy payload.
func marshalLegacy(pkgs []domain.LegacyPackage) ([]byte, error) {
	if len(pkgs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(pkgs)
	if err != nil {
		return nil, fmt.Errorf("legacy_packages: %w", err)
	}
	return b, nil
}
