package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cecepns/stroke-care/internal/domain"
)

func (h *Handler) chatRoomSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.messages.RoomSummaries()
	if err != nil {
		h.logger.Error("failed to load room summaries", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}
	h.respond(w, http.StatusOK, summaries)
}

func (h *Handler) roomMessages(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	rows, err := h.messages.History(roomID)
	if err != nil {
		h.logger.Error("failed to load room messages", slog.String("room", roomID), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load messages")
		return
	}
	h.respond(w, http.StatusOK, rows)
}

func (h *Handler) deleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("roomId")
	if roomID == "" {
		h.respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	if err := h.messages.DeleteRoom(roomID); err != nil {
		h.logger.Error("failed to delete room", slog.String("room", roomID), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to delete room")
		return
	}
	h.respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) activeRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.messages.ActiveRooms()
	if err != nil {
		h.logger.Error("failed to load active rooms", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load active users")
		return
	}
	h.respond(w, http.StatusOK, rooms)
}

// userChatHistory returns the caller's own conversation log.
func (h *Handler) userChatHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	roomID := domain.UserRoomID(claims.UserID)
	rows, err := h.messages.History(roomID)
	if err != nil {
		h.logger.Error("failed to load user history", slog.String("room", roomID), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load chat history")
		return
	}

	history := domain.RoomHistory{
		RoomID:       roomID,
		MessageCount: int64(len(rows)),
		Messages:     rows,
	}
	if len(rows) > 0 {
		history.LastMessageAt = rows[len(rows)-1].CreatedAt
	}
	h.respond(w, http.StatusOK, history)
}

func (h *Handler) userRecentMessages(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.claims(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := h.cfg.RecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	roomID := domain.UserRoomID(claims.UserID)
	rows, err := h.messages.Recent(roomID, limit)
	if err != nil {
		h.logger.Error("failed to load recent messages", slog.String("room", roomID), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load recent messages")
		return
	}
	h.respond(w, http.StatusOK, rows)
}
