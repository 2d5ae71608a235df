package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cecepns/stroke-care/internal/usecase"
)

type registerRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password, "")
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			h.respondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("registration failed", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}

	h.respond(w, http.StatusCreated, user)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	token, user, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			h.respondError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "login failed")
		return
	}

	h.respond(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user,
	})
}
