// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the livepoll API server.

livepoll runs single-choice polls with live results. Each user gets one
vote per poll; every accepted vote recomputes the poll's tally and pushes
it to everyone watching that poll over a websocket.

# Starting the Server

The server requires a JWT secret; everything else has a default:

	JWT_SECRET=dev go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -jwt-secret dev

A .env file in the working directory is loaded first.

# Development Tokens

Identity comes from an external provider. For local testing, mint a token
with the same secret and exit:

	go run . -jwt-secret dev -mint alice

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HS256 secret shared with the identity provider

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - DATABASE_URL (-d): Connection string (default: ./livepoll.db)
  - LIVE_SEND_BUFFER (-send-buffer): Frames queued per websocket (default: 16)

# Architecture

  - admission: One-vote-per-poll admission and post-vote broadcast
  - tally: Vote counts to percentages
  - hub: Subscription registry, broadcast dispatcher, websocket clients
  - store: Polls, options and votes over database/sql
  - handlers: HTTP request handlers
  - router: Route definitions using Go 1.22+ routing
  - middleware: Identity, CORS, logging, JSON helpers
  - models: Request/response and live message types
  - auth: JWT verification
  - metrics: expvar counters
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
