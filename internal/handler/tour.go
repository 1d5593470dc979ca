package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// tourRequest is the payload for creating or replacing a tour.
type tourRequest struct {
	Title        string `json:"title" validate:"required"`
	Slug         string `json:"slug" validate:"required"`
	DurationDays int    `json:"duration_days" validate:"min=1"`
	Difficulty   string `json:"difficulty"`
	Destination  string `json:"destination"`
	Status       string `json:"status" validate:"omitempty,oneof=draft published archived"`
	PackageType  string `json:"package_type" validate:"omitempty,oneof=single multiple"`
}

func (req tourRequest) toDomain() domain.Tour {
	return domain.Tour{
		Title:        req.Title,
		Slug:         req.Slug,
		DurationDays: req.DurationDays,
		Difficulty:   req.Difficulty,
		Destination:  req.Destination,
		Status:       domain.TourStatus(req.Status),
		PackageType:  domain.PackageType(req.PackageType),
	}
}

// CreateTour handles POST /tours.
func (s *Server) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req tourRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	created, err := s.tours.Create(r.Context(), req.toDomain())
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListTours handles GET /tours.
func (s *Server) ListTours(w http.ResponseWriter, r *http.Request) {
	tours, err := s.tours.List(r.Context())
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, tours)
}

// GetTour handles GET /tours/{tourId}.
func (s *Server) GetTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	tour, err := s.tours.GetByID(r.Context(), tourID)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// GetTourBySlug handles GET /tours/slug/{slug}. The marketing site links
// tours by slug, not id.
func (s *Server) GetTourBySlug(w http.ResponseWriter, r *http.Request) {
	tour, err := s.tours.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, tour)
}

// UpdateTour handles PUT /tours/{tourId}.
func (s *Server) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	var req tourRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	tour := req.toDomain()
	tour.ID = tourID
	if tour.Status == "" {
		tour.Status = domain.TourStatusDraft
	}
	if tour.PackageType == "" {
		tour.PackageType = domain.PackageTypeMultiple
	}

	updated, err := s.tours.Update(r.Context(), tour)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteTour handles DELETE /tours/{tourId}.
func (s *Server) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	if err := s.tours.Delete(r.Context(), tourID); err != nil {
		writeError(w, err, "tour not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
