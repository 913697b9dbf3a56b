// Package ws exposes the realtime tracking endpoint. Each websocket
// connection becomes an observer in the tracking hub; inbound messages are
// dispatched to the same command handlers the REST API uses, so both
// surfaces share one write path.
package ws

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/tracking"

	"github.com/gorilla/websocket"
)

const (
	// sendBufferSize bounds the per-client outbound queue. A client that
	// cannot drain it fast enough loses events rather than stalling
	// broadcasts for everyone else.
	sendBufferSize = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// ErrSendBufferFull reports a client whose outbound queue overflowed.
var ErrSendBufferFull = errors.New("client send buffer is full")

// Client is one websocket connection registered as a tracking observer.
// The write pump owns the connection for writes; Send only enqueues.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan tracking.Event
	logger *slog.Logger

	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     kernel.NewUUID().String(),
		conn:   conn,
		send:   make(chan tracking.Event, sendBufferSize),
		logger: logger,
		done:   make(chan struct{}),
	}
}

// ID returns the connection identifier used for room membership.
func (c *Client) ID() string {
	return c.id
}

// Send enqueues an event for delivery to this client. Never blocks;
// returns ErrSendBufferFull when the outbound queue is saturated.
func (c *Client) Send(event tracking.Event) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	case c.send <- event:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// writePump serializes all writes to the connection: queued events and
// periodic pings. Exits when the client closes or a write fails.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			return
		case event := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				c.logger.Debug("write failed, dropping client",
					"clientId", c.id, "error", err)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil,
				time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}
