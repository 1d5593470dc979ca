package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// DateRepo defines the persistence operations for the departure schedule:
// TourDates, their per-package override rows, and blocked dates.
type DateRepo interface {
	// CreateDate inserts a new departure and returns the persisted record.
	CreateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error)

	// GetDateByID retrieves a departure by ID, scoped to the given tourID.
	// Returns domain.ErrNotFound if it does not exist under that tour.
	GetDateByID(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error)

	// ListDatesByTourID returns all departures for a tour ordered by start_date.
	ListDatesByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error)

	// UpdateDate overwrites the mutable fields of a departure.
	UpdateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error)

	// DeleteDate removes a departure, cascading to its overrides.
	DeleteDate(ctx context.Context, tourID, dateID uuid.UUID) error

	// UpsertOverride inserts or replaces the override row for the
	// (tour_date_id, package_id) pair and returns the persisted record.
	UpsertOverride(ctx context.Context, o domain.TourDatePackage) (domain.TourDatePackage, error)

	// GetOverride retrieves the override row for a (date, package) pair,
	// with its blocked dates attached.
	// Returns domain.ErrNotFound if no row exists.
	GetOverride(ctx context.Context, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error)

	// ListOverridesByDateID returns all override rows for a departure with
	// their blocked dates attached.
	ListOverridesByDateID(ctx context.Context, dateID uuid.UUID) ([]domain.TourDatePackage, error)

	// DeleteOverride removes the override row for a (date, package) pair,
	// cascading to its blocked dates.
	DeleteOverride(ctx context.Context, dateID, pkgID uuid.UUID) error

	// AddBlockedDate records day as blocked for the given override row.
	// Adding the same day twice is idempotent and returns the existing row.
	AddBlockedDate(ctx context.Context, overrideID uuid.UUID, day time.Time) (domain.BlockedDate, error)

	// RemoveBlockedDate deletes one blocked date entry from an override row.
	RemoveBlockedDate(ctx context.Context, overrideID, blockedID uuid.UUID) error
}

// pgDateRepo is the Postgres implementation of DateRepo.
type pgDateRepo struct {
	db db
}

// NewDateRepo constructs a DateRepo backed by the provided db connection.
func NewDateRepo(db db) DateRepo {
	return &pgDateRepo{db: db}
}

const dateColumns = `id, tour_id, start_date, end_date, is_available,
	max_participants, repeat_pattern, repeat_until, notes, created_at, updated_at`

const overrideColumns = `id, tour_date_id, package_id, enabled,
	price_override_cents, max_participants_override, notes, created_at, updated_at`

// CreateDate inserts a new departure row and returns the full persisted record.
func (r *pgDateRepo) CreateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	const q = `
		INSERT INTO tour_dates (tour_id, start_date, end_date, is_available,
			max_participants, repeat_pattern, repeat_until, notes)
		VALUES (@tour_id, @start_date, @end_date, @is_available,
			@max_participants, @repeat_pattern, @repeat_until, @notes)
		RETURNING ` + dateColumns

	row := r.db.QueryRow(ctx, q, dateArgs(date))
	result, err := scanDate(row)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("repo.DateRepo.CreateDate: %w", err)
	}
	return result, nil
}

// GetDateByID retrieves a departure by primary key, scoped to its tour.
func (r *pgDateRepo) GetDateByID(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error) {
	const q = `SELECT ` + dateColumns + `
		FROM tour_dates
		WHERE id = @id AND tour_id = @tour_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": dateID, "tour_id": tourID})
	result, err := scanDate(row)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("repo.DateRepo.GetDateByID: %w", err)
	}
	return result, nil
}

// ListDatesByTourID returns a tour's departures in chronological order.
func (r *pgDateRepo) ListDatesByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error) {
	const q = `SELECT ` + dateColumns + `
		FROM tour_dates
		WHERE tour_id = @tour_id
		ORDER BY start_date, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_id": tourID})
	if err != nil {
		return nil, fmt.Errorf("repo.DateRepo.ListDatesByTourID: %w", err)
	}
	defer rows.Close()

	var dates []domain.TourDate
	for rows.Next() {
		d, err := scanDate(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DateRepo.ListDatesByTourID: scan: %w", err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DateRepo.ListDatesByTourID: rows: %w", err)
	}

	return dates, nil
}

// UpdateDate overwrites the mutable fields of a departure.
func (r *pgDateRepo) UpdateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	const q = `
		UPDATE tour_dates
		SET start_date       = @start_date,
		    end_date         = @end_date,
		    is_available     = @is_available,
		    max_participants = @max_participants,
		    repeat_pattern   = @repeat_pattern,
		    repeat_until     = @repeat_until,
		    notes            = @notes,
		    updated_at       = now()
		WHERE id = @id AND tour_id = @tour_id
		RETURNING ` + dateColumns

	args := dateArgs(date)
	args["id"] = date.ID

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDate(row)
	if err != nil {
		return domain.TourDate{}, fmt.Errorf("repo.DateRepo.UpdateDate: %w", err)
	}
	return result, nil
}

// DeleteDate removes a departure by primary key, scoped to its tour.
func (r *pgDateRepo) DeleteDate(ctx context.Context, tourID, dateID uuid.UUID) error {
	const q = `DELETE FROM tour_dates WHERE id = @id AND tour_id = @tour_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": dateID, "tour_id": tourID})
	if err != nil {
		return fmt.Errorf("repo.DateRepo.DeleteDate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DateRepo.DeleteDate: %w", domain.ErrNotFound)
	}
	return nil
}

// UpsertOverride writes the full override record for a (date, package) pair.
// The unique constraint on (tour_date_id, package_id) turns a second write
// into an update, matching the admin UI's full-record save semantics.
func (r *pgDateRepo) UpsertOverride(ctx context.Context, o domain.TourDatePackage) (domain.TourDatePackage, error) {
	const q = `
		INSERT INTO tour_date_packages (tour_date_id, package_id, enabled,
			price_override_cents, max_participants_override, notes)
		VALUES (@tour_date_id, @package_id, @enabled, @price_override_cents,
			@max_participants_override, @notes)
		ON CONFLICT (tour_date_id, package_id) DO UPDATE
		SET enabled                   = excluded.enabled,
		    price_override_cents      = excluded.price_override_cents,
		    max_participants_override = excluded.max_participants_override,
		    notes                     = excluded.notes,
		    updated_at                = now()
		RETURNING ` + overrideColumns

	var override *int64
	if o.PriceOverride != nil {
		v := int64(*o.PriceOverride)
		override = &v
	}

	args := pgx.NamedArgs{
		"tour_date_id":              o.TourDateID,
		"package_id":                o.PackageID,
		"enabled":                   o.Enabled,
		"price_override_cents":      override,
		"max_participants_override": o.MaxParticipantsOverride,
		"notes":                     o.Notes,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanOverride(row)
	if err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("repo.DateRepo.UpsertOverride: %w", err)
	}
	return result, nil
}

// GetOverride retrieves one override row with its blocked dates attached.
func (r *pgDateRepo) GetOverride(ctx context.Context, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error) {
	const q = `SELECT ` + overrideColumns + `
		FROM tour_date_packages
		WHERE tour_date_id = @tour_date_id AND package_id = @package_id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tour_date_id": dateID, "package_id": pkgID})
	result, err := scanOverride(row)
	if err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("repo.DateRepo.GetOverride: %w", err)
	}

	attached := []domain.TourDatePackage{result}
	if err := r.attachBlockedDates(ctx, attached); err != nil {
		return domain.TourDatePackage{}, fmt.Errorf("repo.DateRepo.GetOverride: %w", err)
	}
	return attached[0], nil
}

// ListOverridesByDateID returns every override row for a departure, each with
// its blocked dates attached, ready for price resolution.
func (r *pgDateRepo) ListOverridesByDateID(ctx context.Context, dateID uuid.UUID) ([]domain.TourDatePackage, error) {
	const q = `SELECT ` + overrideColumns + `
		FROM tour_date_packages
		WHERE tour_date_id = @tour_date_id
		ORDER BY created_at, id`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"tour_date_id": dateID})
	if err != nil {
		return nil, fmt.Errorf("repo.DateRepo.ListOverridesByDateID: %w", err)
	}
	defer rows.Close()

	var overrides []domain.TourDatePackage
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DateRepo.ListOverridesByDateID: scan: %w", err)
		}
		overrides = append(overrides, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DateRepo.ListOverridesByDateID: rows: %w", err)
	}

	if err := r.attachBlockedDates(ctx, overrides); err != nil {
		return nil, fmt.Errorf("repo.DateRepo.ListOverridesByDateID: %w", err)
	}
	return overrides, nil
}

// DeleteOverride removes the override row for a (date, package) pair.
func (r *pgDateRepo) DeleteOverride(ctx context.Context, dateID, pkgID uuid.UUID) error {
	const q = `DELETE FROM tour_date_packages
		WHERE tour_date_id = @tour_date_id AND package_id = @package_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"tour_date_id": dateID, "package_id": pkgID})
	if err != nil {
		return fmt.Errorf("repo.DateRepo.DeleteOverride: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DateRepo.DeleteOverride: %w", domain.ErrNotFound)
	}
	return nil
}

// AddBlockedDate records one blocked calendar day for an override row.
// ON CONFLICT DO UPDATE makes the write idempotent while still returning the row.
func (r *pgDateRepo) AddBlockedDate(ctx context.Context, overrideID uuid.UUID, day time.Time) (domain.BlockedDate, error) {
	const q = `
		INSERT INTO blocked_dates (tour_date_package_id, blocked_on)
		VALUES (@tour_date_package_id, @blocked_on)
		ON CONFLICT (tour_date_package_id, blocked_on) DO UPDATE
		SET blocked_on = excluded.blocked_on
		RETURNING id, tour_date_package_id, blocked_on, created_at`

	args := pgx.NamedArgs{"tour_date_package_id": overrideID, "blocked_on": day}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanBlockedDate(row)
	if err != nil {
		return domain.BlockedDate{}, fmt.Errorf("repo.DateRepo.AddBlockedDate: %w", err)
	}
	return result, nil
}

// RemoveBlockedDate deletes one blocked date entry.
func (r *pgDateRepo) RemoveBlockedDate(ctx context.Context, overrideID, blockedID uuid.UUID) error {
	const q = `DELETE FROM blocked_dates
		WHERE id = @id AND tour_date_package_id = @tour_date_package_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": blockedID, "tour_date_package_id": overrideID})
	if err != nil {
		return fmt.Errorf("repo.DateRepo.RemoveBlockedDate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.DateRepo.RemoveBlockedDate: %w", domain.ErrNotFound)
	}
	return nil
}

// attachBlockedDates loads the blocked dates for the given override rows in
// one query and distributes them by override id. Mutates the slice elements.
func (r *pgDateRepo) attachBlockedDates(ctx context.Context, overrides []domain.TourDatePackage) error {
	if len(overrides) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(overrides))
	for i, o := range overrides {
		ids[i] = o.ID
	}

	const q = `SELECT id, tour_date_package_id, blocked_on, created_at
		FROM blocked_dates
		WHERE tour_date_package_id = ANY(@ids)
		ORDER BY blocked_on`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"ids": ids})
	if err != nil {
		return err
	}
	defer rows.Close()

	byOverride := make(map[uuid.UUID][]domain.BlockedDate)
	for rows.Next() {
		b, err := scanBlockedDate(rows)
		if err != nil {
			return err
		}
		byOverride[b.TourDatePackageID] = append(byOverride[b.TourDatePackageID], b)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range overrides {
		overrides[i].BlockedDates = byOverride[overrides[i].ID]
	}
	return nil
}

// dateArgs builds the NamedArgs shared by CreateDate and UpdateDate.
func dateArgs(date domain.TourDate) pgx.NamedArgs {
	var pattern *string
	if date.RepeatPattern != domain.RepeatNone {
		p := string(date.RepeatPattern)
		pattern = &p
	}
	return pgx.NamedArgs{
		"tour_id":          date.TourID,
		"start_date":       date.StartDate,
		"end_date":         date.EndDate,
		"is_available":     date.IsAvailable,
		"max_participants": date.MaxParticipants,
		"repeat_pattern":   pattern, // nil becomes NULL
		"repeat_until":     date.RepeatUntil,
		"notes":            date.Notes,
	}
}

// scanDate maps a single database row into a domain.TourDate.
func scanDate(s scanner) (domain.TourDate, error) {
	var (
		d       domain.TourDate
		id      pgtype.UUID
		tourID  pgtype.UUID
		start   pgtype.Date
		end     pgtype.Date
		pattern pgtype.Text
		until   pgtype.Date
	)

	err := s.Scan(&id, &tourID, &start, &end, &d.IsAvailable, &d.MaxParticipants,
		&pattern, &until, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TourDate{}, domain.ErrNotFound
		}
		return domain.TourDate{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TourID = uuid.UUID(tourID.Bytes)
	d.StartDate = start.Time
	if end.Valid {
		e := end.Time
		d.EndDate = &e
	}
	if pattern.Valid {
		d.RepeatPattern = domain.RepeatPattern(pattern.String)
	}
	if until.Valid {
		u := until.Time
		d.RepeatUntil = &u
	}

	return d, nil
}

// scanOverride maps a single database row into a domain.TourDatePackage.
// Blocked dates are attached separately by attachBlockedDates.
func scanOverride(s scanner) (domain.TourDatePackage, error) {
	var (
		o      domain.TourDatePackage
		id     pgtype.UUID
		dateID pgtype.UUID
		pkgID  pgtype.UUID
		price  pgtype.Int8
		maxPax pgtype.Int4
	)

	err := s.Scan(&id, &dateID, &pkgID, &o.Enabled, &price, &maxPax, &o.Notes,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TourDatePackage{}, domain.ErrNotFound
		}
		return domain.TourDatePackage{}, err
	}

	o.ID = uuid.UUID(id.Bytes)
	o.TourDateID = uuid.UUID(dateID.Bytes)
	o.PackageID = uuid.UUID(pkgID.Bytes)
	if price.Valid {
		c := domain.Cents(price.Int64)
		o.PriceOverride = &c
	}
	if maxPax.Valid {
		m := int(maxPax.Int32)
		o.MaxParticipantsOverride = &m
	}

	return o, nil
}

// scanBlockedDate maps a single database row into a domain.BlockedDate.
func scanBlockedDate(s scanner) (domain.BlockedDate, error) {
	var (
		b   domain.BlockedDate
		id  pgtype.UUID
		oid pgtype.UUID
		on  pgtype.Date
	)

	err := s.Scan(&id, &oid, &on, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BlockedDate{}, domain.ErrNotFound
		}
		return domain.BlockedDate{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.TourDatePackageID = uuid.UUID(oid.Bytes)
	b.BlockedOn = on.Time

	return b, nil
}
