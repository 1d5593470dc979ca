package handler

import (
	"net/http"
	"time"

	"github.com/mzavros/tour-catalog/internal/domain"
)

// dateLayout is the wire format for calendar dates. Departure dates carry no
// time-of-day component.
const dateLayout = "2006-01-02"

// dateRequest is the payload for creating or replacing a departure date.
type dateRequest struct {
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	IsAvailable     *bool  `json:"is_available"` // nil defaults to true
	MaxParticipants int    `json:"max_participants" validate:"min=0"`
	RepeatPattern   string `json:"repeat_pattern" validate:"omitempty,oneof=daily weekly monthly yearly"`
	RepeatUntil     string `json:"repeat_until" validate:"omitempty,datetime=2006-01-02"`
	Notes           string `json:"notes"`
}

func (req dateRequest) toDomain() domain.TourDate {
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}
	d := domain.TourDate{
		IsAvailable:     available,
		MaxParticipants: req.MaxParticipants,
		RepeatPattern:   domain.RepeatPattern(req.RepeatPattern),
		Notes:           req.Notes,
	}
	// Formats are already guaranteed by the datetime validate tag.
	d.StartDate, _ = time.Parse(dateLayout, req.StartDate)
	if req.EndDate != "" {
		end, _ := time.Parse(dateLayout, req.EndDate)
		d.EndDate = &end
	}
	if req.RepeatUntil != "" {
		until, _ := time.Parse(dateLayout, req.RepeatUntil)
		d.RepeatUntil = &until
	}
	return d
}

// overrideRequest is the payload for upserting a per-date package override.
type overrideRequest struct {
	Enabled                 bool   `json:"enabled"`
	PriceOverride           *int64 `json:"price_override_cents" validate:"omitempty,min=0"`
	MaxParticipantsOverride *int   `json:"max_participants_override" validate:"omitempty,min=0"`
	Notes                   string `json:"notes"`
}

// blockedDateRequest is the payload for blocking one calendar day.
type blockedDateRequest struct {
	BlockedOn string `json:"blocked_on" validate:"required,datetime=2006-01-02"`
}

// CreateDate handles POST /tours/{tourId}/dates.
func (s *Server) CreateDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	var req dateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	date := req.toDomain()
	date.TourID = tourID

	created, err := s.schedule.CreateDate(r.Context(), date)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// ListDates handles GET /tours/{tourId}/dates.
func (s *Server) ListDates(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}

	dates, err := s.schedule.ListDates(r.Context(), tourID)
	if err != nil {
		writeError(w, err, "tour not found")
		return
	}
	writeJSON(w, http.StatusOK, dates)
}

// GetDate handles GET /tours/{tourId}/dates/{dateId}.
func (s *Server) GetDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}

	date, err := s.schedule.GetDate(r.Context(), tourID, dateID)
	if err != nil {
		writeError(w, err, "date not found")
		return
	}
	writeJSON(w, http.StatusOK, date)
}

// UpdateDate handles PUT /tours/{tourId}/dates/{dateId}.
func (s *Server) UpdateDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}

	var req dateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	date := req.toDomain()
	date.ID = dateID
	date.TourID = tourID

	updated, err := s.schedule.UpdateDate(r.Context(), date)
	if err != nil {
		writeError(w, err, "date not found")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteDate handles DELETE /tours/{tourId}/dates/{dateId}.
func (s *Server) DeleteDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}

	if err := s.schedule.DeleteDate(r.Context(), tourID, dateID); err != nil {
		writeError(w, err, "date not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpsertOverride handles PUT /tours/{tourId}/dates/{dateId}/packages/{packageId}.
func (s *Server) UpsertOverride(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	var req overrideRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	o := domain.TourDatePackage{
		TourDateID:              dateID,
		PackageID:               pkgID,
		Enabled:                 req.Enabled,
		MaxParticipantsOverride: req.MaxParticipantsOverride,
		Notes:                   req.Notes,
	}
	if req.PriceOverride != nil {
		c := domain.Cents(*req.PriceOverride)
		o.PriceOverride = &c
	}

	saved, err := s.schedule.UpsertOverride(r.Context(), tourID, o)
	if err != nil {
		writeError(w, err, "date or package not found")
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// GetOverride handles GET /tours/{tourId}/dates/{dateId}/packages/{packageId}.
func (s *Server) GetOverride(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	o, err := s.schedule.GetOverride(r.Context(), tourID, dateID, pkgID)
	if err != nil {
		writeError(w, err, "override not found")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// DeleteOverride handles DELETE /tours/{tourId}/dates/{dateId}/packages/{packageId}.
func (s *Server) DeleteOverride(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	if err := s.schedule.DeleteOverride(r.Context(), tourID, dateID, pkgID); err != nil {
		writeError(w, err, "override not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// BlockDate handles POST /tours/{tourId}/dates/{dateId}/packages/{packageId}/blocked-dates.
func (s *Server) BlockDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}

	var req blockedDateRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	day, _ := time.Parse(dateLayout, req.BlockedOn)

	blocked, err := s.schedule.BlockDate(r.Context(), tourID, dateID, pkgID, day)
	if err != nil {
		writeError(w, err, "override not found")
		return
	}
	writeJSON(w, http.StatusCreated, blocked)
}

// UnblockDate handles DELETE /tours/{tourId}/dates/{dateId}/packages/{packageId}/blocked-dates/{blockedDateId}.
func (s *Server) UnblockDate(w http.ResponseWriter, r *http.Request) {
	tourID, ok := pathUUID(w, r, "tourId")
	if !ok {
		return
	}
	dateID, ok := pathUUID(w, r, "dateId")
	if !ok {
		return
	}
	pkgID, ok := pathUUID(w, r, "packageId")
	if !ok {
		return
	}
	blockedID, ok := pathUUID(w, r, "blockedDateId")
	if !ok {
		return
	}

	if err := s.schedule.UnblockDate(r.Context(), tourID, dateID, pkgID, blockedID); err != nil {
		writeError(w, err, "blocked date not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
