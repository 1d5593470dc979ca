package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/mzavros/tour-catalog/internal/pricing"
)

// quoteResponse wraps the resolver output with display-ready major-unit
// strings. Cents stay authoritative; formatting happens only here, at the
// display boundary.
type quoteResponse struct {
	AdultPrice         int64  `json:"adult_price_cents"`
	ChildPrice         int64  `json:"child_price_cents"`
	InfantPrice        int64  `json:"infant_price_cents"`
	AdultPriceDisplay  string `json:"adult_price"`
	ChildPriceDisplay  string `json:"child_price"`
	InfantPriceDisplay string `json:"infant_price"`
	Bookable           bool   `json:"bookable"`
}

func toQuoteResponse(q pricing.Quote) quoteResponse {
	return quoteResponse{
		AdultPrice:         int64(q.AdultPrice),
		ChildPrice:         int64(q.ChildPrice),
		InfantPrice:        int64(q.InfantPrice),
		AdultPriceDisplay:  q.AdultPrice.String(),
		ChildPriceDisplay:  q.ChildPrice.String(),
		InfantPriceDisplay: q.InfantPrice.String(),
		Bookable:           q.Bookable,
	}
}

// GetResolvedPackages handles GET /tours/{tourId}/resolved-packages.
// It returns the canonical package list feeding the public package picker.
func (s *Server) GetResolvedPackages(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	pkgs, err := s.quotes.ResolvedPackages(r.Context(), tourID)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	if pkgs == nil {
		pkgs = []pricing.ResolvedPackage{}
	}
	writeJSON(w, http.StatusOK, pkgs)
}

// GetAvailability handles GET /tours/{tourId}/availability.
// It returns bookable departures grouped by calendar month.
func (s *Server) GetAvailability(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	groups, err := s.quotes.Availability(r.Context(), tourID, s.now())
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	if groups == nil {
		groups = []pricing.MonthGroup{}
	}
	writeJSON(w, http.StatusOK, groups)
}

// GetQuote handles GET /tours/{tourId}/quote?package_id=...&date_id=...
func (s *Server) GetQuote(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	pkgID, err := uuid.Parse(r.URL.Query().Get("package_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid package_id"))
		return
	}
	dateID, err := uuid.Parse(r.URL.Query().Get("date_id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, requestBody("invalid date_id"))
		return
	}

	quote, err := s.quotes.Quote(r.Context(), tourID, pkgID, dateID, s.now())
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, toQuoteResponse(quote))
}
