// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"expvar"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/livepoll/admission"
	"github.com/danielhkuo/livepoll/cliparse"
	"github.com/danielhkuo/livepoll/handlers"
	"github.com/danielhkuo/livepoll/hub"
	"github.com/danielhkuo/livepoll/middleware"
	"github.com/danielhkuo/livepoll/store"
	"github.com/danielhkuo/livepoll/tally"
)

// NewRouter wires the store, tally engine and live hub into the HTTP API.
// The registry is owned by the caller, which closes it on shutdown.
func NewRouter(db *sql.DB, cfg cliparse.Config, registry *hub.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	started := time.Now()

	ballots := store.New(db)
	engine := tally.NewEngine(ballots)
	dispatcher := hub.NewDispatcher(registry)
	controller := admission.NewController(ballots, engine, dispatcher)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(ballots, dispatcher)
	votingHandler := handlers.NewVotingHandler(controller)
	resultsHandler := handlers.NewResultsHandler(engine)
	liveHandler := handlers.NewLiveHandler(registry, dispatcher, cfg.SendBuffer)

	authed := middleware.RequireIdentity(cfg.JWTSecret)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		middleware.JSONResponse(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"started": humanize.Time(started),
		})
	})
	mux.Handle("GET /debug/vars", expvar.Handler())

	// Poll management
	mux.HandleFunc("POST /polls", middleware.WithLogging(authed(pollHandler.CreatePoll)))
	mux.HandleFunc("GET /polls", middleware.WithLogging(authed(pollHandler.ListPolls)))
	mux.HandleFunc("GET /polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("PATCH /polls/{id}", middleware.WithLogging(authed(pollHandler.UpdatePoll)))
	mux.HandleFunc("DELETE /polls/{id}", middleware.WithLogging(authed(pollHandler.DeletePoll)))

	// Results (public, always current)
	mux.HandleFunc("GET /polls/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Voting
	mux.HandleFunc("POST /votes", middleware.WithLogging(authed(votingHandler.SubmitVote)))

	// Live updates (websocket)
	mux.HandleFunc("GET /live", middleware.WithLogging(authed(liveHandler.Connect)))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("livepoll API v1"))
	})

	return mux
}
