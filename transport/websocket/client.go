package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wricardo/oasis-tiles/game/engine"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10 // must stay below pongWait
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The host only listens for a local front-end
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection watching a session
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	sessionID string
}

// write sends a single frame under the write deadline
func (c *Client) write(messageType int, payload []byte) error {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, payload)
}

// handleInput decodes one inbound frame and hands it to the input handler.
// A frame with any unknown event kind is dropped whole.
func (c *Client) handleInput(data []byte) {
	if c.hub.onInput == nil {
		return
	}

	var msg InputMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		log.Printf("Ignoring malformed input from session %s: %v", c.sessionID, err)
		return
	}
	for _, ev := range msg.Events {
		if _, err := engine.ParseInputKind(string(ev.Kind)); err != nil {
			log.Printf("Ignoring input from session %s: %v", c.sessionID, err)
			return
		}
	}

	c.hub.onInput(c.sessionID, msg.Events, time.Duration(msg.DtMs)*time.Millisecond)
}

// readPump feeds inbound frames to handleInput until the peer goes away,
// then unregisters the client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	extend := func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
	c.conn.SetReadLimit(maxMessageSize)
	extend("")
	c.conn.SetPongHandler(extend)

	for {
		_, data, err := c.conn.ReadMessage()
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
			log.Printf("WebSocket error: %v", err)
		}
		if err != nil {
			return
		}
		c.handleInput(data)
	}
}

// writePump drains c.send onto the connection, one JSON document per frame,
// and keeps the peer alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		var err error
		select {
		case message, ok := <-c.send:
			if !ok {
				c.write(websocket.CloseMessage, []byte{})
				return
			}
			err = c.write(websocket.TextMessage, message)
		case <-ticker.C:
			err = c.write(websocket.PingMessage, nil)
		}
		if err != nil {
			return
		}
	}
}
