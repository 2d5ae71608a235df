package http

import (
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/cecepns/stroke-care/internal/domain"
	"github.com/cecepns/stroke-care/internal/repository"
	"github.com/cecepns/stroke-care/internal/usecase"
)

type createUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

type updateUserRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List()
	if err != nil {
		h.logger.Error("failed to list users", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	h.respond(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.auth.Register(req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			h.respondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Error("failed to create user", slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}

	h.respond(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req updateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	update := domain.User{
		ID:    id,
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.respondError(w, http.StatusInternalServerError, "failed to update user")
			return
		}
		update.Password = string(hash)
	}

	if err := h.users.Update(&update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to update user", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to update user")
		return
	}

	user, err := h.users.FindByID(id)
	if err != nil {
		h.respondError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	h.respond(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		h.respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	claims, _ := h.claims(r)
	if claims != nil && claims.UserID == id {
		h.respondError(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	if err := h.users.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			h.respondError(w, http.StatusNotFound, "user not found")
			return
		}
		h.logger.Error("failed to delete user", slog.Int64("id", id), slog.Any("error", err))
		h.respondError(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	h.respond(w, http.StatusOK, map[string]string{"status": "deleted"})
}
