// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024

	DefaultSendBuffer = 16
)

// Client is a websocket subscriber. Outbound frames go through a buffered
// queue drained by its own writer goroutine.
type Client struct {
	ID      string
	VoterID string

	conn       *websocket.Conn
	registry   *Registry
	dispatcher *Dispatcher
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
}

func NewClient(conn *websocket.Conn, voterID string, registry *Registry, dispatcher *Dispatcher, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	return &Client{
		ID:         uuid.NewString(),
		VoterID:    voterID,
		conn:       conn,
		registry:   registry,
		dispatcher: dispatcher,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// Send queues a payload without blocking. It fails when the client is
// closed or its queue is full.
func (c *Client) Send(payload []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// Close tells the writer to send a normal close frame and hang up.
// Safe to call twice.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// Run serves the connection until it fails. initialPoll, if set, is joined
// before any frame is read.
func (c *Client) Run(initialPoll string) {
	if !c.registry.Attach(c) {
		c.Close()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		c.conn.Close()
		return
	}
	metrics.LiveConnections.Add(1)
	slog.Info("live client connected", "connection_id", c.ID, "voter_id", c.VoterID)

	go c.writePump()

	c.reply(models.MessageConnected, models.ConnectedNotice{ConnectionID: c.ID, VoterID: c.VoterID})
	if initialPoll != "" {
		c.join(initialPoll)
	}

	c.readPump()

	for _, pollID := range c.registry.Disconnect(c) {
		c.dispatcher.AnnouncePresence(pollID)
	}
	c.Close()
	metrics.LiveConnections.Add(-1)
	slog.Info("live client disconnected", "connection_id", c.ID)
}

func (c *Client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("live client read error", "connection_id", c.ID, "error", err)
			}
			return
		}

		var cmd models.LiveCommand
		if err := json.Unmarshal(data, &cmd); err != nil {
			c.reply(models.MessageError, "invalid command")
			continue
		}
		if cmd.PollID == "" {
			c.reply(models.MessageError, "poll_id is required")
			continue
		}

		switch cmd.Action {
		case models.ActionJoin:
			c.join(cmd.PollID)
		case models.ActionLeave:
			c.leave(cmd.PollID)
		default:
			c.reply(models.MessageError, "unknown action")
		}
	}
}

// writePump owns the connection's write side and closes the connection
// on the way out, which also ends readPump.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				slog.Debug("live client write failed", "connection_id", c.ID, "error", err)
				c.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (c *Client) join(pollID string) {
	c.registry.Join(pollID, c)
	c.reply(models.MessageJoined, models.PresenceNotice{PollID: pollID, Viewers: c.registry.Count(pollID)})
	c.dispatcher.AnnouncePresence(pollID)
}

func (c *Client) leave(pollID string) {
	if c.registry.Leave(pollID, c) {
		c.dispatcher.AnnouncePresence(pollID)
	}
	c.reply(models.MessageLeft, models.PresenceNotice{PollID: pollID, Viewers: c.registry.Count(pollID)})
}

// reply sends a frame to this client only.
func (c *Client) reply(msgType string, data interface{}) {
	payload, err := json.Marshal(models.LiveMessage{Type: msgType, Data: data})
	if err != nil {
		slog.Error("failed to encode reply", "error", err, "type", msgType)
		return
	}
	if !c.Send(payload) {
		c.Close()
	}
}
