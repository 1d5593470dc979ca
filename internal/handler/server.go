// Package handler implements the HTTP handlers for the tour catalog API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (tour.go, pkg.go, schedule.go, quote.go) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/domain"
	"github.com/mzavros/tour-catalog/internal/pricing"
)

// TourServicer defines the business operations the tour handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TourServicer interface {
	Create(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Tour, error)
	GetBySlug(ctx context.Context, slug string) (domain.Tour, error)
	List(ctx context.Context) ([]domain.Tour, error)
	Update(ctx context.Context, tour domain.Tour) (domain.Tour, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PackageServicer defines the business operations the package handlers depend on.
type PackageServicer interface {
	Create(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error)
	GetByID(ctx context.Context, tourID, pkgID uuid.UUID) (domain.PricingPackage, error)
	ListByTourID(ctx context.Context, tourID uuid.UUID) ([]domain.PricingPackage, error)
	Update(ctx context.Context, pkg domain.PricingPackage) (domain.PricingPackage, error)
	SetDefault(ctx context.Context, tourID, pkgID uuid.UUID) error
	Delete(ctx context.Context, tourID, pkgID uuid.UUID) error
}

// ScheduleServicer defines the business operations the schedule handlers depend on.
type ScheduleServicer interface {
	CreateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error)
	GetDate(ctx context.Context, tourID, dateID uuid.UUID) (domain.TourDate, error)
	ListDates(ctx context.Context, tourID uuid.UUID) ([]domain.TourDate, error)
	UpdateDate(ctx context.Context, date domain.TourDate) (domain.TourDate, error)
	DeleteDate(ctx context.Context, tourID, dateID uuid.UUID) error
	UpsertOverride(ctx context.Context, tourID uuid.UUID, o domain.TourDatePackage) (domain.TourDatePackage, error)
	GetOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) (domain.TourDatePackage, error)
	DeleteOverride(ctx context.Context, tourID, dateID, pkgID uuid.UUID) error
	BlockDate(ctx context.Context, tourID, dateID, pkgID uuid.UUID, day time.Time) (domain.BlockedDate, error)
	UnblockDate(ctx context.Context, tourID, dateID, pkgID, blockedID uuid.UUID) error
}

// QuoteServicer defines the public read operations the quote handlers depend on.
type QuoteServicer interface {
	ResolvedPackages(ctx context.Context, tourID uuid.UUID) ([]pricing.ResolvedPackage, error)
	Availability(ctx context.Context, tourID uuid.UUID, now time.Time) ([]pricing.MonthGroup, error)
	Quote(ctx context.Context, tourID, pkgID, dateID uuid.UUID, now time.Time) (pricing.Quote, error)
}

// Server implements every API endpoint. Wire it in main.go via Routes().
// Methods are in resource-specific files but all operate on this struct.
type Server struct {
	tours    TourServicer
	pkgs     PackageServicer
	schedule ScheduleServicer
	quotes   QuoteServicer
	validate *validator.Validate
	now      func() time.Time
	openapi  []byte
}

// NewServer constructs the Server with all its dependencies.
func NewServer(tours TourServicer, pkgs PackageServicer, schedule ScheduleServicer, quotes QuoteServicer, openapi []byte) *Server {
	return &Server{
		tours:    tours,
		pkgs:     pkgs,
		schedule: schedule,
		quotes:   quotes,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		now:      time.Now,
		openapi:  openapi,
	}
}

// Routes returns the full route tree.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/tours", func(r chi.Router) {
		r.Post("/", s.CreateTour)
		r.Get("/", s.ListTours)
		r.Get("/slug/{slug}", s.GetTourBySlug)

		r.Route("/{tourId}", func(r chi.Router) {
			r.Get("/", s.GetTour)
			r.Put("/", s.UpdateTour)
			r.Delete("/", s.DeleteTour)

			r.Get("/resolved-packages", s.GetResolvedPackages)
			r.Get("/availability", s.GetAvailability)
			r.Get("/quote", s.GetQuote)

			r.Route("/packages", func(r chi.Router) {
				r.Post("/", s.CreatePackage)
				r.Get("/", s.ListPackages)
				r.Get("/{packageId}", s.GetPackage)
				r.Put("/{packageId}", s.UpdatePackage)
				r.Delete("/{packageId}", s.DeletePackage)
				r.Post("/{packageId}/default", s.SetDefaultPackage)
			})

			r.Route("/dates", func(r chi.Router) {
				r.Post("/", s.CreateDate)
				r.Get("/", s.ListDates)
				r.Get("/{dateId}", s.GetDate)
				r.Put("/{dateId}", s.UpdateDate)
				r.Delete("/{dateId}", s.DeleteDate)

				r.Route("/{dateId}/packages/{packageId}", func(r chi.Router) {
					r.Put("/", s.UpsertOverride)
					r.Get("/", s.GetOverride)
					r.Delete("/", s.DeleteOverride)
					r.Post("/blocked-dates", s.BlockDate)
					r.Delete("/blocked-dates/{blockedDateId}", s.UnblockDate)
				})
			})
		})
	})

	return r
}

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetOpenAPI handles GET /openapi.yaml, serving the embedded API description.
func (s *Server) GetOpenAPI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.openapi)
}

// writeJSON serializes v with the given status. Encoding failures are logged,
// not surfaced — headers are already written by then.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}

// decodeJSON decodes the request body into dst and runs validator tag checks.
// A false return means the error response has already been written.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid JSON body"))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return false
	}
	return true
}

// pathUUID parses a chi URL parameter as a UUID.
// A false return means the error response has already been written.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid "+name))
		return uuid.UUID{}, false
	}
	return id, true
}
