package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/repo"
	"github.com/mzavros/tour-catalog/internal/service"
)

// ---- mock repos ------------------------------------------------------------

// mockTourRepo is a hand-written test double for repo.TourRepo.
type mockTourRepo struct {
	create    func(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	getBySlug func(ctx context.Context, slug string) (domain.Tour, error)
	list      func(ctx context.Context) ([]domain.Tour, error)
	update    func(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	delete    func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTourRepo) Create(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	return m.create(ctx, tour)
}
func (m *mockTourRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error) {
	return m.getByID(ctx, id)
}
func (m *mockTourRepo) GetBySlug(ctx context.Context, slug string) (domain.Tour, error) {
	return m.getBySlug(ctx, slug)
}
func (m *mockTourRepo) List(ctx context.Context) ([]domain.Tour, error) {
	return m.list(ctx)
}
func (m *mockTourRepo) Update(ctx context.Context, tour domain.Tour) (domain.Tour, error) {
	return m.update(ctx, tour)
}
func (m *mockTourRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

// compile-time check: mockTourRepo must satisfy repo.TourRepo.
var _ repo.TourRepo = (*mockTourRepo)(nil)

// ---- helpers ---------------------------------------------------------------

func validTour() domain.Tour {
	return domain.Tour{
		Title:        "Cappadocia Highlights",
		Slug:         "cappadocia-highlights",
		DurationDays: 4,
		Status:       domain.TourStatusPublished,
		PackageType:  domain.PackageTypeMultiple,
	}
}

// ---- Create ----------------------------------------------------------------

func TestTourService_Create_OK(t *testing.T) {
	input := validTour()
	stored := input
	stored.ID = uuid.New()

	svc := service.NewTourService(&mockTourRepo{
		create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) {
			return stored, nil
		},
	})

	got, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
}

func TestTourService_Create_DefaultsStatusAndPackageType(t *testing.T) {
	var captured domain.Tour
	svc := service.NewTourService(&mockTourRepo{
		create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) {
			captured = tour
			return tour, nil
		},
	})

	input := validTour()
	input.Status = ""
	input.PackageType = ""

	_, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, domain.TourStatusDraft, captured.Status)
	assert.Equal(t, domain.PackageTypeMultiple, captured.PackageType)
}

func TestTourService_Create_NormalizesSlug(t *testing.T) {
	var captured domain.Tour
	svc := service.NewTourService(&mockTourRepo{
		create: func(_ context.Context, tour domain.Tour) (domain.Tour, error) {
			captured = tour
			return tour, nil
		},
	})

	input := validTour()
	input.Slug = "  Cappadocia-Highlights  "

	_, err := svc.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "cappadocia-highlights", captured.Slug)
}

func TestTourService_Create_TitleRequired(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{})

	input := validTour()
	input.Title = "   "

	_, err := svc.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTourService_Create_DurationAtLeastOneDay(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{})

	input := validTour()
	input.DurationDays = 0

	_, err := svc.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTourService_Create_UnknownStatus(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{})

	input := validTour()
	input.Status = "retired"

	_, err := svc.Create(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTourService_Create_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	svc := service.NewTourService(&mockTourRepo{
		create: func(_ context.Context, _ domain.Tour) (domain.Tour, error) {
			return domain.Tour{}, repoErr
		},
	})

	_, err := svc.Create(context.Background(), validTour())

	assert.ErrorIs(t, err, repoErr)
}

// ---- reads -----------------------------------------------------------------

func TestTourService_GetByID_NotFound(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Tour, error) {
			return domain.Tour{}, domain.ErrNotFound
		},
	})

	_, err := svc.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTourService_GetBySlug_LowercasesLookup(t *testing.T) {
	var captured string
	svc := service.NewTourService(&mockTourRepo{
		getBySlug: func(_ context.Context, slug string) (domain.Tour, error) {
			captured = slug
			return domain.Tour{Slug: slug}, nil
		},
	})

	_, err := svc.GetBySlug(context.Background(), "Cappadocia-Highlights")

	require.NoError(t, err)
	assert.Equal(t, "cappadocia-highlights", captured)
}

func TestTourService_List_ReturnsEmptySlice(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		list: func(_ context.Context) ([]domain.Tour, error) {
			return nil, nil
		},
	})

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- Update ----------------------------------------------------------------

func TestTourService_Update_OK(t *testing.T) {
	input := validTour()
	input.ID = uuid.New()
	input.Title = "Updated Title"

	svc := service.NewTourService(&mockTourRepo{
		update: func(_ context.Context, tour domain.Tour) (domain.Tour, error) {
			return tour, nil
		},
	})

	got, err := svc.Update(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, "Updated Title", got.Title)
}

func TestTourService_Update_ValidationFails(t *testing.T) {
	input := validTour()
	input.ID = uuid.New()
	input.Slug = ""

	svc := service.NewTourService(&mockTourRepo{})

	_, err := svc.Update(context.Background(), input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Delete ----------------------------------------------------------------

func TestTourService_Delete_NotFound(t *testing.T) {
	svc := service.NewTourService(&mockTourRepo{
		delete: func(_ context.Context, _ uuid.UUID) error {
			return domain.ErrNotFound
		},
	})

	err := svc.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
