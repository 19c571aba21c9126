// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/stage-score/auth"
	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/models"
)

const roleCookie = "role"

// ResolveRole determines the caller's effective role for this request.
// A valid ?role= query parameter overrides and re-persists the cookie;
// otherwise the signed cookie is used; otherwise the caller is public.
func ResolveRole(w http.ResponseWriter, r *http.Request, cfg cliparse.Config) string {
	if q := r.URL.Query().Get("role"); q != "" {
		if models.ValidRole(q) {
			setRoleCookie(w, q, cfg.RoleTokenSalt)
			return q
		}
		slog.Warn("ignoring unknown role override", "role", q)
	}

	c, err := r.Cookie(roleCookie)
	if err != nil {
		return models.RolePublic
	}
	role, err := auth.VerifyRole(c.Value, cfg.RoleTokenSalt)
	if err != nil {
		return models.RolePublic
	}
	return role
}

func setRoleCookie(w http.ResponseWriter, role, salt string) {
	http.SetCookie(w, &http.Cookie{
		Name:     roleCookie,
		Value:    auth.SignRole(role, salt),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type SessionHandler struct {
	cfg cliparse.Config
}

func NewSessionHandler(cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{cfg: cfg}
}

// Me handles GET /session
func (h *SessionHandler) Me(w http.ResponseWriter, r *http.Request) {
	role := ResolveRole(w, r, h.cfg)
	middleware.JSONResponse(w, http.StatusOK, h.sessionResponse(role))
}

// Login handles POST /session/login
// Compares the submitted PIN against the three configured role secrets
// and persists the matching role.
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	role, err := auth.RoleForPin(req.Pin, h.cfg)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid PIN")
		return
	}

	setRoleCookie(w, role, h.cfg.RoleTokenSalt)
	slog.Info("login", "role", role)
	middleware.JSONResponse(w, http.StatusOK, h.sessionResponse(role))
}

// Logout handles POST /session/logout
func (h *SessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     roleCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	middleware.JSONResponse(w, http.StatusOK, h.sessionResponse(models.RolePublic))
}

func (h *SessionHandler) sessionResponse(role string) models.SessionResponse {
	resp := models.SessionResponse{
		Role:       role,
		Privileged: models.IsPrivileged(role),
	}
	switch role {
	case models.RoleJudgeA:
		resp.JudgeName = h.cfg.JudgeAName
	case models.RoleJudgeB:
		resp.JudgeName = h.cfg.JudgeBName
	}
	return resp
}
