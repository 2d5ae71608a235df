package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
)

type healthNoteRequest struct {
	NoteDate               string   `json:"note_date" validate:"required,datetime=2006-01-02"`
	BloodSugar             *float64 `json:"blood_sugar" validate:"omitempty,gte=0"`
	BloodSugarStatus       *string  `json:"blood_sugar_status" validate:"omitempty,oneof=low normal high"`
	Cholesterol            *float64 `json:"cholesterol" validate:"omitempty,gte=0"`
	CholesterolStatus      *string  `json:"cholesterol_status" validate:"omitempty,oneof=low normal high"`
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic" validate:"omitempty,gte=0"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic" validate:"omitempty,gte=0"`
	BloodPressureStatus    *string  `json:"blood_pressure_status" validate:"omitempty,oneof=low normal high"`
	Notes                  *string  `json:"notes"`
}

func (h *Handler) listHealthNotes(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notes, err := h.notes.ListByUser(claims.UserID)
	if err != nil {
		h.logger.Error("failed to list health notes", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to list health notes")
		return
	}
	h.respond(w, http.StatusOK, notes)
}

func (h *Handler) healthNoteByDate(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	date := r.PathValue("date")
	note, err := h.notes.FindByDate(claims.UserID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "no note for this date")
			return
		}
		h.logger.Error("failed to load health note", slog.String("date", date), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load health note")
		return
	}
	h.respond(w, http.StatusOK, note)
}

// upsertHealthNote creates the day's entry or overwrites the existing one;
// a user keeps at most one note per date.
func (h *Handler) upsertHealthNote(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req healthNoteRequest
	if !h.decode(w, r, &req) {
		return
	}

	note := &domain.HealthNote{
		UserID:                 claims.UserID,
		NoteDate:               req.NoteDate,
		BloodSugar:             req.BloodSugar,
		BloodSugarStatus:       req.BloodSugarStatus,
		Cholesterol:            req.Cholesterol,
		CholesterolStatus:      req.CholesterolStatus,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		BloodPressureStatus:    req.BloodPressureStatus,
		Notes:                  req.Notes,
	}

	created, err := h.notes.Upsert(note)
	if err != nil {
		h.logger.Error("failed to save health note", slog.String("date", req.NoteDate), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to save health note")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	h.respond(w, status, note)
}

func (h *Handler) deleteHealthNote(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := h.notes.Delete(id, claims.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "note not found")
			return
		}
		h.logger.Error("failed to delete health note", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to delete health note")
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) allHealthNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.notes.ListAll()
	if err != nil {
		h.logger.Error("failed to list all health notes", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to list health notes")
		return
	}
	h.respond(w, http.StatusOK, notes)
}
