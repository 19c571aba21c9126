// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/store"
)

type AdminHandler struct {
	st  store.EntryStore
	cfg cliparse.Config
}

func NewAdminHandler(st store.EntryStore, cfg cliparse.Config) *AdminHandler {
	return &AdminHandler{st: st, cfg: cfg}
}

// Edit handles PUT /entries/{id}
// Admin-only: updates the contestant's name and phone.
func (h *AdminHandler) Edit(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)
	if role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entry id is required")
		return
	}

	var req models.EditEntryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if !validPhone(req.Phone) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Please enter a valid phone number.")
		return
	}

	if err := h.st.Edit(r.Context(), id, name, req.Phone); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Entry not found")
		case errors.Is(err, store.ErrDuplicatePhone):
			middleware.ErrorResponse(w, http.StatusConflict, "Another entry already uses this phone number")
		case errors.Is(err, store.ErrConfirmationTimeout):
			middleware.ErrorResponse(w, http.StatusGatewayTimeout, "Edit did not complete. Please try again.")
		default:
			slog.Error("failed to edit entry", "id", id, "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Edit failed")
		}
		return
	}

	slog.Info("entry edited", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /entries/{id}
// Admin-only: destroys the entry and releases its media blob.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)
	if role != models.RoleAdmin {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin access required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entry id is required")
		return
	}

	if err := h.st.Delete(r.Context(), id); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Entry not found")
		case errors.Is(err, store.ErrConfirmationTimeout):
			middleware.ErrorResponse(w, http.StatusGatewayTimeout, "Delete did not complete. Please try again.")
		default:
			slog.Error("failed to delete entry", "id", id, "error", err)
			middleware.ErrorResponse(w, http.StatusBadGateway, "Delete failed")
		}
		return
	}

	slog.Info("entry deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
