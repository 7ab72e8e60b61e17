// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package hub distributes live poll updates to connected clients.

# Registry

Registry maps poll IDs to the subscribers following them, plus the reverse
index used when a connection drops:

	reg := hub.NewRegistry()
	reg.Join(pollID, client)   // idempotent
	reg.Leave(pollID, client)  // no-op if never joined
	reg.Disconnect(client)     // leaves every topic
	defer reg.Close()          // at shutdown

Membership lives in memory only. After a restart clients must rejoin.

# Dispatcher

Dispatcher pushes frames to the members of a topic at the moment of the call:

	d := hub.NewDispatcher(reg)
	d.Publish(pollID, tally)
	d.Notify(pollID, models.MessagePollDeleted, nil)

Subscriber.Send never blocks. A subscriber that cannot take a frame is
removed from the registry and closed. Publish drops a tally whose total is
below the last one sent for that poll.

# Client

Client is the websocket Subscriber. Each client owns a buffered send queue
and a writer goroutine; the read loop handles join and leave commands:

	{"action": "join", "poll_id": "…"}
	{"action": "leave", "poll_id": "…"}
*/
package hub
