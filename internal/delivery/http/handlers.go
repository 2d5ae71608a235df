package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/cecepns/stroke-care/internal/config"
	"github.com/cecepns/stroke-care/internal/delivery/ws"
	"github.com/cecepns/stroke-care/internal/middleware"
	"github.com/cecepns/stroke-care/internal/repository"
	"github.com/cecepns/stroke-care/internal/usecase"
)

// Handler bundles the JSON API and the websocket upgrade endpoint.
type Handler struct {
	logger     *slog.Logger
	cfg        *config.Config
	auth       *usecase.AuthService
	users      *repository.UserRepository
	messages   *repository.MessageRepository
	materials  *repository.MaterialRepository
	notes      *repository.HealthNoteRepository
	screenings *repository.ScreeningRepository
	relay      *ws.Relay
	validate   *validator.Validate
	upgrader   websocket.Upgrader
}

// NewHandler creates the API handler.
func NewHandler(
	logger *slog.Logger,
	cfg *config.Config,
	auth *usecase.AuthService,
	users *repository.UserRepository,
	messages *repository.MessageRepository,
	materials *repository.MaterialRepository,
	notes *repository.HealthNoteRepository,
	screenings *repository.ScreeningRepository,
	relay *ws.Relay,
) *Handler {
	h := &Handler{
		logger:     logger.With(slog.String("component", "http")),
		cfg:        cfg,
		auth:       auth,
		users:      users,
		messages:   messages,
		materials:  materials,
		notes:      notes,
		screenings: screenings,
		relay:      relay,
		validate:   validator.New(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Routes registers every endpoint on the mux.
func (h *Handler) Routes(mux *http.ServeMux) {
	authed := middleware.RequireAuth(h.auth)
	admin := func(fn http.HandlerFunc) http.Handler {
		return authed(middleware.RequireAdmin(fn))
	}

	mux.HandleFunc("POST /api/auth/register", h.register)
	mux.HandleFunc("POST /api/auth/login", h.login)

	mux.Handle("GET /api/dashboard/stats", admin(h.dashboardStats))
	mux.Handle("GET /api/dashboard/activities", admin(h.dashboardActivities))

	mux.HandleFunc("GET /api/materials", h.listMaterials)
	mux.Handle("POST /api/materials", admin(h.createMaterial))
	mux.Handle("PUT /api/materials/order", admin(h.reorderMaterials))
	mux.Handle("PUT /api/materials/{id}", admin(h.updateMaterial))
	mux.Handle("DELETE /api/materials/{id}", admin(h.deleteMaterial))

	mux.Handle("GET /api/users", admin(h.listUsers))
	mux.Handle("POST /api/users", admin(h.createUser))
	mux.Handle("PUT /api/users/{id}", admin(h.updateUser))
	mux.Handle("DELETE /api/users/{id}", admin(h.deleteUser))

	mux.Handle("GET /api/chat-history", admin(h.chatRoomSummaries))
	mux.Handle("GET /api/chat-history/user", authed(http.HandlerFunc(h.userChatHistory)))
	mux.Handle("GET /api/chat-history/user/recent", authed(http.HandlerFunc(h.userRecentMessages)))
	mux.Handle("GET /api/chat-history/{roomId}/messages", admin(h.roomMessages))
	mux.Handle("DELETE /api/chat-history/{roomId}", admin(h.deleteRoom))
	mux.Handle("GET /api/chat-active-users", admin(h.activeRooms))

	mux.Handle("GET /api/health-notes", authed(http.HandlerFunc(h.listHealthNotes)))
	mux.Handle("POST /api/health-notes", authed(http.HandlerFunc(h.upsertHealthNote)))
	mux.Handle("GET /api/health-notes/{date}", authed(http.HandlerFunc(h.healthNoteByDate)))
	mux.Handle("DELETE /api/health-notes/{id}", authed(http.HandlerFunc(h.deleteHealthNote)))
	mux.Handle("GET /api/admin/health-notes", admin(h.allHealthNotes))

	mux.Handle("POST /api/screening", authed(http.HandlerFunc(h.submitScreening)))
	mux.Handle("GET /api/screening/history", authed(http.HandlerFunc(h.screeningHistory)))
	mux.Handle("GET /api/screening/{id}", authed(http.HandlerFunc(h.screeningByID)))
	mux.Handle("GET /api/admin/screenings", admin(h.allScreenings))

	mux.HandleFunc("GET /ws", h.serveWS)
	mux.HandleFunc("GET /health", h.healthCheck)
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respond(w, status, map[string]string{"error": message})
}

// decode parses and validates a JSON request body.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	if err := h.validate.Struct(out); err != nil {
		h.respondError(w, http.StatusBadRequest, "validation failed: "+err.Error())
		return false
	}
	return true
}

// claims returns the verified claims set by RequireAuth. Handlers behind the
// middleware can assume presence; the bool guards misuse.
func (h *Handler) claims(r *http.Request) (*usecase.Claims, bool) {
	return middleware.ClaimsFrom(r.Context())
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
