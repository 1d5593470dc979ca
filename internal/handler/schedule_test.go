package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/handler"
)

// mockScheduleServicer is a test double for handler.ScheduleServicer.
// Set only the method fields your test needs.
type mockScheduleServicer struct {
	createDate     func(ctx context.Context, date domain.TourDate) (domain.TourDate, error)
	getDate        func(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error)
	listDates      func(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error)
	updateDate     func(ctx context.Context, date domain.TourDate) (domain.TourDate, error)
	deleteDate     func(ctx context.Context, tourID, dateID uuid.UUID) error
	upsertOverride func(ctx context.Context, tourID uuid.UUID, o domain.TourDatePackage) (domain.TourDatePackage, error)
	getOverride    func(ctx context.Context, tourID, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error)
	deleteOverride func(ctx context.Context, tourID, dateID, pkgID uuid.UUID) error
	blockDate      func(ctx context.Context, tourID, dateID, pkgID uuid.UUID, day time.Time) (domain.BlockedDate, error)
	unblockDate    func(ctx context.Context, tourID, dateID, pkgID, blockedID uuid.UUID) error
}

func (m *mockScheduleServicer) CreateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	return m.createDate(ctx, date)
}
func (m *mockScheduleServicer) GetDate(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error) {
	return m.getDate(ctx, tourID, dateID)
}
func (m *mockScheduleServicer) ListDates(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error) {
	return m.listDates(ctx, tourID)
}
func (m *mockScheduleServicer) UpdateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error) {
	return m.updateDate(ctx, date)
}
func (m *mockScheduleServicer) DeleteDate(ctx context.Context, tourID, dateID uuid.UUID) error {
	return m.deleteDate(ctx, tourID, dateID)
}
func (m *mockScheduleServicer) UpsertOverride(ctx context.Context, tourID uuid.UUID, o domain.TourDatePackage) (domain.TourDatePackage, error) {
	return m.upsertOverride(ctx, tourID, o)
}
func (m *mockScheduleServicer) GetOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error) {
	return m.getOverride(ctx, tourID, dateID, pkgID)
}
func (m *mockScheduleServicer) DeleteOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) error {
	return m.deleteOverride(ctx, tourID, dateID, pkgID)
}
func (m *mockScheduleServicer) BlockDate(ctx context.Context, tourID, dateID, pkgID uuid.UUID, day time.Time) (domain.BlockedDate, error) {
	return m.blockDate(ctx, tourID, dateID, pkgID, day)
}
func (m *mockScheduleServicer) UnblockDate(ctx context.Context, tourID, dateID, pkgID, blockedID uuid.UUID) error {
	return m.unblockDate(ctx, tourID, dateID, pkgID, blockedID)
}

// compile-time check: mockScheduleServicer must satisfy handler.ScheduleServicer.
var _ handler.ScheduleServicer = (*mockScheduleServicer)(nil)

// ---- POST /tours/{tourId}/dates ----------------------------------------------

func TestCreateDate_201(t *testing.T) {
	tourID := uuid.New()
	var captured domain.TourDate
	svc := &mockScheduleServicer{
		createDate: func(_ context.Context, date domain.TourDate) (domain.TourDate, error) {
			captured = date
			date.ID = uuid.New()
			return date, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"start_date":       "2026-06-01",
		"end_date":         "2026-06-05",
		"max_participants": 16,
	})

	req := httptest.NewRequest(http.MethodPost, "/tours/"+tourID.String()+"/dates", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, tourID, captured.TourID)
	assert.Equal(t, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), captured.StartDate)
	require.NotNil(t, captured.EndDate)
	assert.Equal(t, time.Date(2026, 6, 5, 0, 0, 0, 0, time.UTC), *captured.EndDate)
	// is_available defaults to true when omitted.
	assert.True(t, captured.IsAvailable)
}

func TestCreateDate_422_BadDateFormat(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"start_date": "01/06/2026",
	})

	req := httptest.NewRequest(http.MethodPost, "/tours/"+uuid.NewString()+"/dates", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, &mockScheduleServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateDate_422_BadRepeatPattern(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"start_date":     "2026-06-01",
		"repeat_pattern": "fortnightly",
	})

	req := httptest.NewRequest(http.MethodPost, "/tours/"+uuid.NewString()+"/dates", body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, &mockScheduleServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- PUT .../dates/{dateId}/packages/{packageId} -------------------------------

func TestUpsertOverride_200(t *testing.T) {
	tourID, dateID, pkgID := uuid.New(), uuid.New(), uuid.New()
	var captured domain.TourDatePackage
	svc := &mockScheduleServicer{
		upsertOverride: func(_ context.Context, tID uuid.UUID, o domain.TourDatePackage) (domain.TourDatePackage, error) {
			assert.Equal(t, tourID, tID)
			captured = o
			o.ID = uuid.New()
			return o, nil
		},
	}

	body := jsonBody(t, map[string]any{
		"enabled":              true,
		"price_override_cents": 30000,
	})

	url := "/tours/" + tourID.String() + "/dates/" + dateID.String() + "/packages/" + pkgID.String()
	req := httptest.NewRequest(http.MethodPut, url, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dateID, captured.TourDateID)
	assert.Equal(t, pkgID, captured.PackageID)
	assert.True(t, captured.Enabled)
	require.NotNil(t, captured.PriceOverride)
	assert.Equal(t, domain.Cents(30000), *captured.PriceOverride)
}

func TestUpsertOverride_422_NegativePrice(t *testing.T) {
	body := jsonBody(t, map[string]any{
		"enabled":              true,
		"price_override_cents": -5,
	})

	url := "/tours/" + uuid.NewString() + "/dates/" + uuid.NewString() + "/packages/" + uuid.NewString()
	req := httptest.NewRequest(http.MethodPut, url, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, &mockScheduleServicer{}, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// ---- POST .../blocked-dates ----------------------------------------------------

func TestBlockDate_201(t *testing.T) {
	tourID, dateID, pkgID := uuid.New(), uuid.New(), uuid.New()
	svc := &mockScheduleServicer{
		blockDate: func(_ context.Context, _, _, _ uuid.UUID, day time.Time) (domain.BlockedDate, error) {
			assert.Equal(t, time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC), day)
			return domain.BlockedDate{ID: uuid.New(), BlockedOn: day}, nil
		},
	}

	body := jsonBody(t, map[string]any{"blocked_on": "2026-07-04"})

	url := "/tours/" + tourID.String() + "/dates/" + dateID.String() +
		"/packages/" + pkgID.String() + "/blocked-dates"
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestBlockDate_404_NoOverrideRow(t *testing.T) {
	svc := &mockScheduleServicer{
		blockDate: func(_ context.Context, _, _, _ uuid.UUID, _ time.Time) (domain.BlockedDate, error) {
			return domain.BlockedDate{}, domain.ErrNotFound
		},
	}

	body := jsonBody(t, map[string]any{"blocked_on": "2026-07-04"})

	url := "/tours/" + uuid.NewString() + "/dates/" + uuid.NewString() +
		"/packages/" + uuid.NewString() + "/blocked-dates"
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// ---- DELETE .../blocked-dates/{blockedDateId} ----------------------------------

func TestUnblockDate_204(t *testing.T) {
	blockedID := uuid.New()
	svc := &mockScheduleServicer{
		unblockDate: func(_ context.Context, _, _, _, bID uuid.UUID) error {
			assert.Equal(t, blockedID, bID)
			return nil
		},
	}

	url := "/tours/" + uuid.NewString() + "/dates/" + uuid.NewString() +
		"/packages/" + uuid.NewString() + "/blocked-dates/" + blockedID.String()
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// ---- JSON shape of list responses ----------------------------------------------

func TestListDates_200(t *testing.T) {
	svc := &mockScheduleServicer{
		listDates: func(_ context.Context, _ uuid.UUID) ([]domain.TourDate, error) {
			return []domain.TourDate{
				{ID: uuid.New(), StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), IsAvailable: true},
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/tours/"+uuid.NewString()+"/dates", nil)
	rec := httptest.NewRecorder()

	newHTTPHandler(nil, nil, svc, nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []domain.TourDate
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 1)
}
