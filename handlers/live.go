// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/hub"
	"github.com/danielhkuo/livepoll/middleware"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CORS is handled by middleware.CORS for the REST API; browsers send
	// the token explicitly, so any origin may open a socket
	CheckOrigin: func(r *http.Request) bool { return true },
}

type LiveHandler struct {
	registry   *hub.Registry
	dispatcher *hub.Dispatcher
	sendBuffer int
}

func NewLiveHandler(registry *hub.Registry, dispatcher *hub.Dispatcher, sendBuffer int) *LiveHandler {
	if sendBuffer < 1 {
		sendBuffer = hub.DefaultSendBuffer
	}
	return &LiveHandler{registry: registry, dispatcher: dispatcher, sendBuffer: sendBuffer}
}

// Connect handles GET /live
// Upgrades to a websocket; ?poll=<id> joins that poll right away
func (h *LiveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	voterID, ok := middleware.VoterID(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Valid bearer token required")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		slog.Warn("websocket upgrade failed", "error", err, "remote", middleware.GetClientIP(r))
		return
	}

	client := hub.NewClient(conn, voterID, h.registry, h.dispatcher, h.sendBuffer)
	client.Run(r.URL.Query().Get("poll"))
}
