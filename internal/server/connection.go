package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/gesturejack/internal/settings"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection represents a WebSocket connection to a client. Each
// connection owns its session, so two browser tabs play two independent
// tables.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	session   *Session
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a connection wrapper and its backing session
func NewConnection(conn *websocket.Conn, logger *log.Logger, cfg SessionConfig) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	c := &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
	}

	cfg.Send = func(msg *Message) { _ = c.SendMessage(msg) }
	c.session = NewSession(cfg)

	return c
}

// Start begins handling the connection: the read and write pumps plus
// the session's gesture pipeline. The client gets its initial state and
// settings immediately so it can render without a round trip.
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
	go func() {
		if err := c.session.Run(c.ctx); err != nil {
			c.logger.Error("session stopped", "session", c.session.ID(), "error", err)
			c.sendError("session_failed", err.Error())
		}
	}()

	c.session.SendState("")
	c.sendSettings("")
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client. Game
// actions never fail with an error reply; illegal ones are absorbed by
// the table and the client just sees an unchanged state.
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "session", c.session.ID())

	switch msg.Type {
	case MessageTypePlaceBet:
		var data PlaceBetData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse bet data")
			return
		}
		c.session.PlaceBet(data.Amount)

	case MessageTypeHit:
		c.session.Hit()

	case MessageTypeStand:
		c.session.Stand()

	case MessageTypeDouble:
		c.session.Double()

	case MessageTypeNewRound:
		c.session.NextRound()

	case MessageTypeReset:
		c.session.Reset()

	case MessageTypeGetState:
		c.session.SendState(msg.RequestID)

	case MessageTypeGestureSample:
		var data GestureSampleData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse gesture sample")
			return
		}
		c.session.PushSample(data.Name, data.Confidence)

	case MessageTypeUpdateSettings:
		var data settings.Settings
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse settings")
			return
		}
		if err := c.session.UpdateSettings(data); err != nil {
			c.sendError("invalid_settings", err.Error())
			return
		}
		c.sendSettings(msg.RequestID)

	case MessageTypeGetSettings:
		c.sendSettings(msg.RequestID)

	case MessageTypeGestureStats:
		response, err := NewMessage(MessageTypeGestureStatsRes, GestureStatsData{
			Summary: c.session.GestureStats(),
		})
		if err != nil {
			c.logger.Error("Failed to encode gesture stats", "error", err)
			return
		}
		response.RequestID = msg.RequestID
		_ = c.SendMessage(response)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

func (c *Connection) sendSettings(requestID string) {
	response, err := NewMessage(MessageTypeSettings, c.session.Settings())
	if err != nil {
		c.logger.Error("Failed to encode settings", "error", err)
		return
	}
	response.RequestID = requestID
	_ = c.SendMessage(response)
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg)
}
