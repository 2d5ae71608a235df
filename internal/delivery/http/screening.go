package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
	"github.com/cecepns/stroke-care/internal/usecase"
)

type screeningRequest struct {
	Answers map[string]string `json:"answers" validate:"required,min=1,dive,oneof=A B C"`
}

// submitScreening stores a questionnaire. Score, category and risk level are
// always recomputed server-side; any client-supplied values are ignored.
func (h *Handler) submitScreening(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req screeningRequest
	if !h.decode(w, r, &req) {
		return
	}

	result := usecase.ScoreScreening(req.Answers)
	rawAnswers, err := json.Marshal(req.Answers)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid answers")
		return
	}

	screening := &domain.Screening{
		UserID:    claims.UserID,
		Answers:   string(rawAnswers),
		Score:     result.Score,
		Category:  result.Category,
		RiskLevel: result.RiskLevel,
	}
	if err := h.screenings.Create(screening); err != nil {
		h.logger.Error("failed to save screening", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to save screening")
		return
	}

	h.respond(w, http.StatusCreated, screening)
}

func (h *Handler) screeningHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	screenings, err := h.screenings.HistoryByUser(claims.UserID)
	if err != nil {
		h.logger.Error("failed to load screening history", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load screening history")
		return
	}
	h.respond(w, http.StatusOK, screenings)
}

// screeningByID returns one of the caller's own screenings; other users'
// rows are indistinguishable from missing ones.
func (h *Handler) screeningByID(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid screening id")
		return
	}

	screening, err := h.screenings.FindByID(id, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "screening not found")
			return
		}
		h.logger.Error("failed to load screening", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load screening")
		return
	}
	h.respond(w, http.StatusOK, screening)
}

func (h *Handler) allScreenings(w http.ResponseWriter, r *http.Request) {
	screenings, err := h.screenings.ListAll()
	if err != nil {
		h.logger.Error("failed to list screenings", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to list screenings")
		return
	}
	h.respond(w, http.StatusOK, screenings)
}
