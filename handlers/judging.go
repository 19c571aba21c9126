// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/models"
	"github.com/danielhkuo/stage-score/ranking"
	"github.com/danielhkuo/stage-score/store"
)

type JudgingHandler struct {
	st  store.EntryStore
	cfg cliparse.Config
}

func NewJudgingHandler(st store.EntryStore, cfg cliparse.Config) *JudgingHandler {
	return &JudgingHandler{st: st, cfg: cfg}
}

// SubmitMark handles POST /entries/{id}/mark
// The viewer's judge identity selects the slot; a judge can never write
// the other judge's slot. Resubmission overwrites unconditionally.
func (h *JudgingHandler) SubmitMark(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)
	judge, ok := models.JudgeForRole(role)
	if !ok {
		middleware.ErrorResponse(w, http.StatusForbidden, "Only judges can submit marks")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "entry id is required")
		return
	}

	var req models.SubmitMarkRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Rejected locally - nothing reaches the store on a bad value.
	value, err := strconv.Atoi(strings.TrimSpace(req.Value))
	if err != nil || value < models.MinMark || value > models.MaxMark {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("Please enter a number between %d and %d.", models.MinMark, models.MaxMark))
		return
	}

	if err := h.st.SetMark(r.Context(), id, judge, value); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.ErrorResponse(w, http.StatusNotFound, "Entry not found")
			return
		}
		slog.Error("failed to save mark", "id", id, "judge", judge, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Could not save your mark.")
		return
	}

	slog.Info("mark submitted", "id", id, "judge", judge, "value", value)

	// Re-derive the status so the judge sees the current state, and echo
	// their own value back to keep the input populated.
	status := h.refreshedStatus(r, id, judge, value, role)
	middleware.JSONResponse(w, http.StatusOK, models.SubmitMarkResponse{
		Status: status,
		MyMark: value,
	})
}

func (h *JudgingHandler) refreshedStatus(r *http.Request, id string, judge models.Judge, value int, role string) string {
	entries, err := h.st.List(r.Context())
	if err == nil {
		for _, e := range entries {
			if e.ID == id {
				return ranking.StatusFor(e, role, judgeNames(h.cfg))
			}
		}
	}

	// The list refresh failing must not fail the submit: derive the
	// status from the value just written.
	e := models.Entry{ID: id}
	if judge == models.JudgeA {
		e.Marks.JudgeA = &value
	} else {
		e.Marks.JudgeB = &value
	}
	return ranking.StatusFor(e, role, judgeNames(h.cfg))
}
