package handler

import (
	"net/http"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// packageRequest is the payload for creating or replacing a pricing package.
// Prices are cents. Shape checks live in the validate tags; the age-band rule
// (child band above infant ceiling) is a business rule enforced by the service.
type packageRequest struct {
	Name                  string `json:"name" validate:"required"`
	Label                 string `json:"label"`
	IsDefault             bool   `json:"is_default"`
	AdultPrice            int64  `json:"adult_price_cents" validate:"min=0"`
	AdultSingleSupplement int64  `json:"adult_single_supplement_cents" validate:"min=0"`
	ChildPrice            int64  `json:"child_price_cents" validate:"min=0"`
	ChildAgeMin           int    `json:"child_age_min" validate:"min=0"`
	ChildAgeMax           int    `json:"child_age_max" validate:"min=0"`
	InfantPrice           int64  `json:"infant_price_cents" validate:"min=0"`
	InfantAgeMax          int    `json:"infant_age_max" validate:"min=0"`
	Details               string `json:"details"`
	SortOrder             int    `json:"sort_order"`
	Active                *bool  `json:"active"` // nil defaults to true
}

func (req packageRequest) toDomain() domain.PricingPackage {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return domain.PricingPackage{
		Name:                  req.Name,
		Label:                 req.Label,
		IsDefault:             req.IsDefault,
		AdultPrice:            domain.Cents(req.AdultPrice),
		AdultSingleSupplement: domain.Cents(req.AdultSingleSupplement),
		ChildPrice:            domain.Cents(req.ChildPrice),
		ChildAgeMin:           req.ChildAgeMin,
		ChildAgeMax:           req.ChildAgeMax,
		InfantPrice:           domain.Cents(req.InfantPrice),
		InfantAgeMax:          req.InfantAgeMax,
		Details:               req.Details,
		SortOrder:             req.SortOrder,
		Active:                active,
	}
}

// CreatePackage handles POST /tours/{tourId}/packages.
func (s *Server) CreatePackage(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	var req packageRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	pkg := req.toDomain()
	pkg.TourID = tourID

	created, err := s.pkgs.Create(r.Context(), pkg)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListPackages handles GET /tours/{tourId}/packages.
func (s *Server) ListPackages(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	pkgs, err := s.pkgs.ListByTourID(r.Context(), tourID)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, pkgs)
}

// GetPackage handles GET /tours/{tourId}/packages/{packageId}.
func (s *Server) GetPackage(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	pkg, err := s.pkgs.GetByID(r.Context(), tourID, pkgID)
	if err != nil {
		writeError(w, err, "package not found")
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// UpdatePackage handles PUT /tours/{tourId}/packages/{packageId}.
func (s *Server) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	var req packageRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	pkg := req.toDomain()
	pkg.ID = pkgID
	pkg.TourID = tourID

	updated, err := s.pkgs.Update(r.Context(), pkg)
	if err != nil {
		writeError(w, err, "package not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// SetDefaultPackage handles POST /tours/{tourId}/packages/{packageId}/default.
func (s *Server) SetDefaultPackage(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	if err := s.pkgs.SetDefault(r.Context(), tourID, pkgID); err != nil {
		writeError(w, err, "package not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePackage handles DELETE /tours/{tourId}/packages/{packageId}.
func (s *Server) DeletePackage(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	if err := s.pkgs.Delete(r.Context(), tourID, pkgID); err != nil {
		writeError(w, err, "package not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
