package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
)

type materialRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Content     string `json:"content"`
	VideoURL    string `json:"video_url" validate:"omitempty,url,max=500"`
	Description string `json:"description" validate:"max=1000"`
	Type        string `json:"type" validate:"required,oneof=article video"`
	Status      string `json:"status" validate:"omitempty,oneof=draft published"`
}

type reorderRequest struct {
	OrderedIDs []int64 `json:"ordered_ids" validate:"required,min=1,dive,gt=0"`
}

func (h *Handler) listMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.materials.List()
	if err != nil {
		h.logger.Error("failed to list materials", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to list materials")
		return
	}
	h.respond(w, http.StatusOK, materials)
}

func (h *Handler) createMaterial(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req materialRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = domain.MaterialStatusDraft
	}

	material := &domain.Material{
		Title:       req.Title,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
		Description: req.Description,
		Type:        req.Type,
		Status:      req.Status,
		AuthorID:    claims.UserID,
	}
	if err := h.materials.Create(material); err != nil {
		h.logger.Error("failed to create material", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to create material")
		return
	}

	h.respond(w, http.StatusCreated, material)
}

func (h *Handler) updateMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	var req materialRequest
	if !h.decode(w, r, &req) {
		return
	}

	fields := map[string]any{
		"title":       req.Title,
		"content":     req.Content,
		"video_url":   req.VideoURL,
		"description": req.Description,
		"type":        req.Type,
	}
	if req.Status != "" {
		fields["status"] = req.Status
	}

	if err := h.materials.Update(id, fields); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to update material", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to update material")
		return
	}

	material, err := h.materials.FindByID(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load material")
		return
	}
	h.respond(w, http.StatusOK, material)
}

func (h *Handler) reorderMaterials(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.materials.Reorder(req.OrderedIDs); err != nil {
		h.logger.Error("failed to reorder materials", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to reorder materials")
		return
	}

	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) deleteMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid material id")
		return
	}

	if err := h.materials.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "material not found")
			return
		}
		h.logger.Error("failed to delete material", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to delete material")
		return
	}

	h.respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
