// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/danielhkuo/stage-score/cliparse"
	"github.com/danielhkuo/stage-score/handlers"
	"github.com/danielhkuo/stage-score/middleware"
	"github.com/danielhkuo/stage-score/store"
)

func NewRouter(st store.EntryStore, media *store.MediaDir, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(cfg)
	entryHandler := handlers.NewEntryHandler(st, media, cfg)
	uploadHandler := handlers.NewUploadHandler(st, cfg)
	judgingHandler := handlers.NewJudgingHandler(st, cfg)
	adminHandler := handlers.NewAdminHandler(st, cfg)

	// Uploads fan out into confirmation polling, so they get a per-IP
	// budget: one every 10s, burst of 3.
	uploadLimiter := middleware.NewIPRateLimiter(rate.Every(10*time.Second), 3)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Session (role resolution, PIN login)
	mux.HandleFunc("GET /session", middleware.WithLogging(sessionHandler.Me))
	mux.HandleFunc("POST /session/login", middleware.WithLogging(sessionHandler.Login))
	mux.HandleFunc("POST /session/logout", middleware.WithLogging(sessionHandler.Logout))

	// Entries (public listing, contestant submission)
	mux.HandleFunc("GET /entries", middleware.WithLogging(entryHandler.List))
	mux.HandleFunc("POST /entries", middleware.WithLogging(uploadLimiter.Wrap(uploadHandler.Create)))
	mux.HandleFunc("GET /entries/{id}", middleware.WithLogging(entryHandler.Get))
	mux.HandleFunc("GET /entries/{id}/media", middleware.WithLogging(entryHandler.Media))

	// Judging
	mux.HandleFunc("POST /entries/{id}/mark", middleware.WithLogging(judgingHandler.SubmitMark))

	// Admin operations
	mux.HandleFunc("PUT /entries/{id}", middleware.WithLogging(adminHandler.Edit))
	mux.HandleFunc("DELETE /entries/{id}", middleware.WithLogging(adminHandler.Delete))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("stage-score API v1"))
	})

	return mux
}
