// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"log/slog"
	"sync"
)

// Subscriber is one live connection. Send must not block: it either
// queues the payload or reports false.
type Subscriber interface {
	Send(payload []byte) bool
	Close()
}

// Registry tracks which subscribers follow which polls.
// It is process-local and starts empty.
type Registry struct {
	mu       sync.RWMutex
	topics   map[string]map[Subscriber]struct{}
	joined   map[Subscriber]map[string]struct{}
	attached map[Subscriber]struct{}
	closed   bool
}

func NewRegistry() *Registry {
	return &Registry{
		topics:   make(map[string]map[Subscriber]struct{}),
		joined:   make(map[Subscriber]map[string]struct{}),
		attached: make(map[Subscriber]struct{}),
	}
}

// Attach records a live connection so Close can reach it before it joins
// any topic. Returns false once the registry is closed.
func (r *Registry) Attach(sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}
	r.attached[sub] = struct{}{}
	return true
}

// Join adds sub to the poll's topic. Joining twice is a no-op.
// Reports whether sub was newly added.
func (r *Registry) Join(pollID string, sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return false
	}

	members, ok := r.topics[pollID]
	if !ok {
		members = make(map[Subscriber]struct{})
		r.topics[pollID] = members
	}
	if _, dup := members[sub]; dup {
		return false
	}
	members[sub] = struct{}{}

	polls, ok := r.joined[sub]
	if !ok {
		polls = make(map[string]struct{})
		r.joined[sub] = polls
	}
	polls[pollID] = struct{}{}

	slog.Debug("subscriber joined", "poll_id", pollID, "members", len(members))
	return true
}

// Leave removes sub from the poll's topic. Leaving a topic that was never
// joined is a no-op. Reports whether sub was removed.
func (r *Registry) Leave(pollID string, sub Subscriber) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.leaveLocked(pollID, sub)
}

func (r *Registry) leaveLocked(pollID string, sub Subscriber) bool {
	members, ok := r.topics[pollID]
	if !ok {
		return false
	}
	if _, ok := members[sub]; !ok {
		return false
	}

	delete(members, sub)
	if len(members) == 0 {
		delete(r.topics, pollID)
	}

	if polls, ok := r.joined[sub]; ok {
		delete(polls, pollID)
		if len(polls) == 0 {
			delete(r.joined, sub)
		}
	}

	return true
}

// Disconnect removes sub from every topic and returns the polls it left.
func (r *Registry) Disconnect(sub Subscriber) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.attached, sub)

	polls := r.joined[sub]
	left := make([]string, 0, len(polls))
	for pollID := range polls {
		left = append(left, pollID)
	}
	for _, pollID := range left {
		r.leaveLocked(pollID, sub)
	}

	return left
}

// Members returns a snapshot of the poll's subscribers.
func (r *Registry) Members(pollID string) []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[pollID]
	out := make([]Subscriber, 0, len(members))
	for sub := range members {
		out = append(out, sub)
	}

	return out
}

// Count returns the number of subscribers following the poll.
func (r *Registry) Count(pollID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.topics[pollID])
}

// followed returns the polls sub currently follows.
func (r *Registry) followed(sub Subscriber) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.joined[sub]))
	for pollID := range r.joined[sub] {
		out = append(out, pollID)
	}

	return out
}

// Close drops all memberships and closes every subscriber.
// Later joins are refused.
func (r *Registry) Close() {
	r.mu.Lock()
	seen := make(map[Subscriber]struct{}, len(r.attached)+len(r.joined))
	for sub := range r.attached {
		seen[sub] = struct{}{}
	}
	for sub := range r.joined {
		seen[sub] = struct{}{}
	}
	subs := make([]Subscriber, 0, len(seen))
	for sub := range seen {
		subs = append(subs, sub)
	}
	r.topics = make(map[string]map[Subscriber]struct{})
	r.joined = make(map[Subscriber]map[string]struct{})
	r.attached = make(map[Subscriber]struct{})
	r.closed = true
	r.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}

	slog.Info("subscription registry closed", "subscribers", len(subs))
}
