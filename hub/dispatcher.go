// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

// Dispatcher fans tallies and lifecycle notices out to a poll's
// subscribers. Sends only enqueue, so a slow subscriber never holds up
// the caller or the other subscribers.
type Dispatcher struct {
	registry *Registry

	mu sync.Mutex
	// highest TotalVotes published per poll; only polls with viewers
	// keep an entry
	last map[string]int
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		last:     make(map[string]int),
	}
}

// Publish sends the tally to everyone subscribed to the poll right now.
// A tally with fewer votes than one already published for the poll is
// dropped, so subscribers never see the count go backwards. With nobody
// watching there is nothing to order, and the poll's entry is dropped.
func (d *Dispatcher) Publish(pollID string, tally models.Tally) {
	payload, err := json.Marshal(models.LiveMessage{Type: models.MessageTally, Data: tally})
	if err != nil {
		slog.Error("failed to encode tally", "error", err, "poll_id", pollID)
		return
	}

	d.mu.Lock()
	if d.registry.Count(pollID) == 0 {
		delete(d.last, pollID)
		d.mu.Unlock()
		return
	}
	if last, ok := d.last[pollID]; ok && tally.TotalVotes < last {
		d.mu.Unlock()
		metrics.TalliesStale.Add(1)
		slog.Debug("stale tally dropped", "poll_id", pollID, "total", tally.TotalVotes, "last", last)
		return
	}
	d.last[pollID] = tally.TotalVotes
	failed := d.sendLocked(pollID, payload)
	d.mu.Unlock()

	metrics.TalliesPublished.Add(1)
	d.prune(failed)
}

// Notify sends a lifecycle notice to the poll's subscribers.
func (d *Dispatcher) Notify(pollID, msgType string, data interface{}) {
	payload, err := json.Marshal(models.LiveMessage{Type: msgType, Data: data})
	if err != nil {
		slog.Error("failed to encode notice", "error", err, "type", msgType)
		return
	}

	d.mu.Lock()
	failed := d.sendLocked(pollID, payload)
	d.mu.Unlock()

	d.prune(failed)
}

// AnnouncePresence tells a poll's subscribers how many viewers it has.
func (d *Dispatcher) AnnouncePresence(pollID string) {
	d.Notify(pollID, models.MessagePresence, models.PresenceNotice{
		PollID:  pollID,
		Viewers: d.registry.Count(pollID),
	})
}

// Forget drops ordering state for a deleted poll.
func (d *Dispatcher) Forget(pollID string) {
	d.mu.Lock()
	delete(d.last, pollID)
	d.mu.Unlock()
}

// sendLocked must hold d.mu so payloads for one poll are queued in the
// same order for every subscriber.
func (d *Dispatcher) sendLocked(pollID string, payload []byte) []Subscriber {
	var failed []Subscriber
	for _, sub := range d.registry.Members(pollID) {
		if !sub.Send(payload) {
			failed = append(failed, sub)
		}
	}
	return failed
}

// prune removes subscribers that could not take a message. Their
// remaining topics are told the new viewer count.
func (d *Dispatcher) prune(failed []Subscriber) {
	for _, sub := range failed {
		left := d.registry.Disconnect(sub)
		sub.Close()
		metrics.DeliveriesFailed.Add(1)
		slog.Debug("subscriber pruned after failed send", "topics", len(left))

		for _, pollID := range left {
			d.AnnouncePresence(pollID)
		}
	}
}
