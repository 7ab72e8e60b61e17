// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the livepoll API.

# Handler Types

Each handler is a struct holding the components it drives:

  - PollHandler: Poll create, list, read, update and delete
  - VotingHandler: Vote submission through admission.Controller
  - ResultsHandler: Current tally from tally.Engine
  - LiveHandler: Websocket upgrade into a hub.Client

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(store, dispatcher)
	votingHandler := handlers.NewVotingHandler(controller)

Handlers that act for a user read the ID set by middleware.RequireIdentity:

	voterID, ok := middleware.VoterID(r.Context())

# Voting

	POST /votes {"option_id": "..."}

Status codes:

	201 vote stored; body has the vote and the new tally
	400 missing option_id or bad JSON
	403 poll not published (owners included)
	404 option does not exist
	409 caller already voted in this poll
	503 the store failed; details are only logged

# Poll Ownership

PATCH and DELETE on /polls/{id} return 403 unless the caller created the
poll. Unpublishing keeps existing votes. Deleting sends a poll_deleted
frame to live subscribers of that poll.

# Live Updates

GET /live upgrades to a websocket. Browsers cannot set headers on the
upgrade request, so the token may be passed as ?access_token=. Add
?poll={id} to join a poll immediately.
*/
package handlers
