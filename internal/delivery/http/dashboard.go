package http

import (
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/cecepns/stroke-care/internal/domain"
)

// Activity is one row in the admin dashboard feed.
type Activity struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	UserName    string    `json:"user_name"`
	Timestamp   time.Time `json:"timestamp"`
}

const activityFeedSize = 10

func (h *Handler) dashboardStats(w http.ResponseWriter, r *http.Request) {
	totalUsers, err := h.users.Count()
	if err != nil {
		h.logger.Error("failed to count users", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	totalMaterials, err := h.materials.Count()
	if err != nil {
		h.logger.Error("failed to count materials", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}
	totalMessages, err := h.messages.Count()
	if err != nil {
		h.logger.Error("failed to count messages", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load stats")
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"total_users":     totalUsers,
		"total_materials": totalMaterials,
		"total_messages":  totalMessages,
		"online_users":    h.relay.OnlineCount(),
		"active_rooms":    h.relay.Directory().RoomCount(),
	})
}

// dashboardActivities merges recent registrations, chat traffic and
// screenings into one feed, newest first.
func (h *Handler) dashboardActivities(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.logger.Error("failed to load users for feed", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	rooms, err := h.messages.ActiveRooms()
	if err != nil {
		h.logger.Error("failed to load rooms for feed", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}
	screenings, err := h.screenings.ListAll()
	if err != nil {
		h.logger.Error("failed to load screenings for feed", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to load activities")
		return
	}

	feed := lo.Map(truncate(users), func(u domain.User, _ int) Activity {
		return Activity{
			Type:        "registration",
			Description: "New account registered",
			UserName:    u.Name,
			Timestamp:   u.CreatedAt,
		}
	})
	feed = append(feed, lo.Map(truncate(rooms), func(room domain.ActiveRoom, _ int) Activity {
		return Activity{
			Type:        "chat",
			Description: "New chat activity",
			UserName:    room.SenderName,
			Timestamp:   room.LastActivity,
		}
	})...)
	feed = append(feed, lo.Map(truncate(screenings), func(s domain.Screening, _ int) Activity {
		return Activity{
			Type:        "screening",
			Description: "Screening completed: " + s.Category,
			UserName:    s.UserName,
			Timestamp:   s.CreatedAt,
		}
	})...)

	sort.Slice(feed, func(i, j int) bool {
		return feed[i].Timestamp.After(feed[j].Timestamp)
	})
	h.respond(w, http.StatusOK, truncate(feed))
}

func truncate[T any](items []T) []T {
	if len(items) > activityFeedSize {
		return items[:activityFeedSize]
	}
	return items
}
