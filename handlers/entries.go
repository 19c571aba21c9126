// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/ranking"
	"github.com/danielhkuo/stage-score/store"
)

type EntryHandler struct {
	st    store.EntryStore
	media *store.MediaDir // nil in remote mode
	cfg   cliparse.Config
}

func NewEntryHandler(st store.EntryStore, media *store.MediaDir, cfg cliparse.Config) *EntryHandler {
	return &EntryHandler{st: st, media: media, cfg: cfg}
}

// List handles GET /entries
// Returns the full ranked entry list with viewer-scoped status text.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)

	entries, err := h.st.List(r.Context())
	if err != nil {
		slog.Error("failed to list entries", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load entries")
		return
	}

	ranked := ranking.Rank(entries)
	views := make([]models.EntryView, len(ranked))
	for i, e := range ranked {
		views[i] = buildView(e, i+1, role, h.cfg)
	}

	middleware.JSONResponse(w, http.StatusOK, models.ListEntriesResponse{Entries: views})
}

// Get handles GET /entries/{id}
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)

	e, position, err := h.find(r)
	if err != nil {
		h.renderLookupError(w, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, buildView(e, position, role, h.cfg))
}

// Media handles GET /entries/{id}/media
// Streams the local blob, or redirects to the remote file URL.
func (h *EntryHandler) Media(w http.ResponseWriter, r *http.Request) {
	e, _, err := h.find(r)
	if err != nil {
		h.renderLookupError(w, err)
		return
	}

	if !e.Media.Local() {
		target := mediaURL(e, h.cfg)
		if target == "" {
			middleware.ErrorResponse(w, http.StatusNotFound, "Entry has no media")
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	if h.media == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Media storage is not configured")
		return
	}

	f, err := h.media.Open(e.Media.BlobKey)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Media file not found")
			return
		}
		slog.Error("failed to open media blob", "id", e.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Could not read media")
		return
	}
	defer f.Close()

	if ct := e.Media.ContentType; ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	http.ServeContent(w, r, e.Media.Filename, e.CreatedAt, f)
}

// find returns the entry and its 1-indexed ranked position.
func (h *EntryHandler) find(r *http.Request) (models.Entry, int, error) {
	id := r.PathValue("id")
	if id == "" {
		return models.Entry{}, 0, store.ErrNotFound
	}

	entries, err := h.st.List(r.Context())
	if err != nil {
		return models.Entry{}, 0, err
	}
	for i, e := range ranking.Rank(entries) {
		if e.ID == id {
			return e, i + 1, nil
		}
	}
	return models.Entry{}, 0, store.ErrNotFound
}

func (h *EntryHandler) renderLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Entry not found")
		return
	}
	slog.Error("entry lookup failed", "error", err)
	middleware.ErrorResponse(w, http.StatusBadGateway, "Could not load entries")
}
