package ws

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cecepns/stroke-care/internal/usecase"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10
)

// Client represents a single websocket connection. Identity is established
// by the first join event the peer sends, not at upgrade time; claims from
// an authenticated upgrade are kept so the relay can verify declared roles.
type Client struct {
	relay  *Relay
	conn   *websocket.Conn
	claims *usecase.Claims
	logger *slog.Logger
	send   chan []byte
}

// NewClient wraps an upgraded connection. claims is nil for anonymous
// connections.
func NewClient(relay *Relay, conn *websocket.Conn, claims *usecase.Claims, logger *slog.Logger) *Client {
	return &Client{
		relay:  relay,
		conn:   conn,
		claims: claims,
		logger: logger,
		send:   make(chan []byte, 256),
	}
}

// ReadPump pumps envelopes from the websocket connection into the relay.
func (c *Client) ReadPump(maxMessageSize int64) {
	defer func() {
		c.relay.HandleDisconnect(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("unexpected socket close", slog.Any("error", err))
			}
			break
		}

		var envelope Envelope
		if err := json.Unmarshal(message, &envelope); err != nil {
			c.logger.Debug("malformed envelope dropped", slog.Any("error", err))
			continue
		}

		c.dispatch(envelope)
	}
}

func (c *Client) dispatch(envelope Envelope) {
	switch envelope.Event {
	case EventJoinChat:
		var payload JoinPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleJoinChat(c, payload)
		}

	case EventJoinAnonymousChat:
		var payload JoinPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleJoinAnonymousChat(c, payload)
		}

	case EventJoinChatRoom:
		var payload JoinRoomPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleJoinChatRoom(c, payload)
		}

	case EventJoinAdminChat:
		var payload JoinPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleJoinAdminChat(c, payload)
		}

	case EventSendMessage:
		var payload SendPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleSendMessage(c, payload)
		}

	case EventSendAnonymousMessage:
		var payload SendPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleSendAnonymousMessage(c, payload)
		}

	case EventAdminSendToUser:
		var payload AdminSendPayload
		if c.decode(envelope, &payload) {
			c.relay.HandleAdminSendToUser(c, payload)
		}

	default:
		c.logger.Debug("unknown event dropped", slog.String("event", envelope.Event))
	}
}

func (c *Client) decode(envelope Envelope, out any) bool {
	if err := json.Unmarshal(envelope.Payload, out); err != nil {
		c.logger.Debug("malformed payload dropped",
			slog.String("event", envelope.Event),
			slog.Any("error", err),
		)
		return false
	}
	return true
}

// WritePump pumps queued messages from the relay to the websocket
// connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send adds a message to the client's send queue. A full buffer drops the
// message rather than blocking the relay.
func (c *Client) Send(msg []byte) {
	if msg == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
	}
}
