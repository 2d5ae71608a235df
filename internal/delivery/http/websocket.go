package http

import (
	"log/slog"
	"net/http"

	"github.com/cecepns/stroke-care/internal/delivery/ws"
	"github.com/cecepns/stroke-care/internal/middleware"
	"github.com/cecepns/stroke-care/internal/usecase"
)

// serveWS upgrades the connection and starts the pumps. A token is
// optional: guests connect bare, but a token that is present and invalid is
// rejected rather than silently downgraded to anonymous.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	var claims *usecase.Claims
	token := r.URL.Query().Get("token")
	if token == "" {
		token = middleware.BearerToken(r)
	}
	if token != "" {
		verified, err := h.auth.VerifyToken(token)
		if err != nil {
			h.respondError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		claims = verified
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", slog.Any("error", err))
		return
	}

	client := ws.NewClient(h.relay, conn, claims, h.logger)
	go client.WritePump()
	go client.ReadPump(int64(h.cfg.MaxMessageSize))
}

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// Non-browser clients (mobile app) send no Origin header
		return true
	}
	for _, allowed := range h.cfg.AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
