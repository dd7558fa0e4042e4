package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // demo server, any origin
	},
}

// Client is one WebSocket connection. Other connections' goroutines deliver
// broadcasts to it, so the send channel and game membership are guarded by
// mu; closeSend wins over any concurrent trySend.
type Client struct {
	conn   *websocket.Conn
	logger *zap.Logger

	mu       sync.Mutex
	send     chan []byte
	closed   bool
	playerID string
	gameID   string
}

func (c *Client) joinGame(gameID, playerID string) {
	c.mu.Lock()
	c.gameID = gameID
	if playerID != "" {
		c.playerID = playerID
	}
	c.mu.Unlock()
}

func (c *Client) game() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gameID
}

// trySend queues a payload without blocking. Returns false when the client
// is disconnected or its buffer is full.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend shuts the send channel exactly once, ending the write pump.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.removeClient(c)
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("websocket read error", zap.Error(err))
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.logger.Warn("malformed message", zap.Error(err))
			c.sendError("malformed message: " + err.Error())
			continue
		}

		hub.handleMessage(c, msg)
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			break
		}
	}
	// send channel closed: tell the peer we are going away
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (c *Client) sendJSON(msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		c.logger.Error("failed to marshal payload", zap.Error(err))
		return
	}
	payload, err := json.Marshal(WSMessage{Type: msgType, Data: raw})
	if err != nil {
		return
	}
	if !c.trySend(payload) {
		c.logger.Warn("dropping message for slow or disconnected client",
			zap.String("type", msgType))
	}
}

func (c *Client) sendError(message string) {
	c.sendJSON("error", errorPayload{Message: message})
}

// ServeWS upgrades an HTTP request and attaches the connection to the hub.
func ServeWS(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		send:   make(chan []byte, 256),
		logger: hub.logger.Named("client"),
	}

	hub.addClient(client)

	go client.writePump()
	go client.readPump(hub)
}
