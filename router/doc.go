// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the livepoll API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	registry := hub.NewRegistry()
	defer registry.Close()
	mux := router.NewRouter(db, cfg, registry)

# Endpoints

Health and metrics:

	GET /health     - {"status":"ok","started":"3 minutes ago"}
	GET /debug/vars - expvar counters

Polls (bearer token unless noted):

	POST   /polls              - Create poll with its options
	GET    /polls              - List the caller's polls
	GET    /polls/{id}         - Poll and options (public)
	PATCH  /polls/{id}         - Change question or published flag (owner)
	DELETE /polls/{id}         - Delete poll, options and votes (owner)
	GET    /polls/{id}/results - Current tally (public)

Voting:

	POST /votes - {"option_id": "..."}

Live updates:

	GET /live?poll={id} - Websocket; see package hub for the frames

# Wiring

The router builds one of each component and shares them:

	ballots := store.New(db)
	engine := tally.NewEngine(ballots)
	dispatcher := hub.NewDispatcher(registry)
	controller := admission.NewController(ballots, engine, dispatcher)
*/
package router
