// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes process counters through expvar at /debug/vars.
package metrics

import (
	"expvar"
	"time"
)

var (
	// VotesAccepted counts admitted votes
	VotesAccepted = expvar.NewInt("votes_accepted")

	// VotesRejected counts rejected votes by reason
	// (not_found, unpublished, conflict_early, conflict_late, unavailable)
	VotesRejected = expvar.NewMap("votes_rejected")

	// TalliesPublished counts Publish calls that reached fan-out
	TalliesPublished = expvar.NewInt("tallies_published")

	// TalliesStale counts tallies dropped because a newer one was already sent
	TalliesStale = expvar.NewInt("tallies_stale")

	// DeliveriesFailed counts subscribers pruned after a failed send
	DeliveriesFailed = expvar.NewInt("deliveries_failed")

	// LiveConnections is the number of open websocket connections
	LiveConnections = expvar.NewInt("live_connections")

	// StartedAt is the process start as a unix timestamp
	StartedAt = expvar.NewInt("started_at")
)

// Reasons used with VotesRejected
const (
	RejectNotFound      = "not_found"
	RejectUnpublished   = "unpublished"
	RejectConflictEarly = "conflict_early"
	RejectConflictLate  = "conflict_late"
	RejectUnavailable   = "unavailable"
)

// Init records the start time.
func Init(started time.Time) {
	StartedAt.Set(started.Unix())
}
