package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/wricardo/oasis-tiles/game/engine"
)

// Message is an outbound WebSocket message
type Message struct {
	SessionID string            `json:"session_id"`
	GameState *engine.GameState `json:"game_state,omitempty"`
	Event     string            `json:"event,omitempty"`
	Data      interface{}       `json:"data,omitempty"`
}

// InputMessage is a batch of front-end input sent by a client for one frame
type InputMessage struct {
	Events []engine.InputEvent `json:"events"`
	DtMs   int                 `json:"dt_ms,omitempty"`
}

// InputHandler receives decoded client input for a session
type InputHandler func(sessionID string, events []engine.InputEvent, dt time.Duration)

type countQuery struct {
	sessionID string
	reply     chan int
}

// Hub fans session updates out to the WebSocket clients watching them.
// The sessions map is owned by the Run goroutine; everything else reaches it
// through the channels.
type Hub struct {
	sessions   map[string]map[*Client]bool // session ID -> watchers
	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	counts     chan countQuery

	onInput InputHandler
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		broadcast:  make(chan *Message, engine.WebSocketBufferSize),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		counts:     make(chan countQuery),
	}
}

// SetInputHandler installs the callback for client input. Call before Run.
func (h *Hub) SetInputHandler(handler InputHandler) {
	h.onInput = handler
}

// Run starts the hub's event loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case q := <-h.counts:
			q.reply <- len(h.sessions[q.sessionID])
		}
	}
}

// ServeWS handles WebSocket requests from clients
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, engine.WebSocketBufferSize),
		sessionID: sessionID,
	}

	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// ClientCount returns the number of clients watching a session. Requires Run.
func (h *Hub) ClientCount(sessionID string) int {
	reply := make(chan int)
	h.counts <- countQuery{sessionID: sessionID, reply: reply}
	return <-reply
}

// BroadcastToSession queues a state update for every client of a session
func (h *Hub) BroadcastToSession(sessionID string, state *engine.GameState) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		GameState: state,
		Event:     "state_update",
	}
}

// BroadcastEvent queues a custom event for every client of a session
func (h *Hub) BroadcastEvent(sessionID string, event string, data interface{}) {
	h.broadcast <- &Message{
		SessionID: sessionID,
		Event:     event,
		Data:      data,
	}
}

// registerClient adds a client to its session's watcher set
func (h *Hub) registerClient(client *Client) {
	watchers := h.sessions[client.sessionID]
	if watchers == nil {
		watchers = make(map[*Client]bool)
		h.sessions[client.sessionID] = watchers
	}
	watchers[client] = true
	log.Printf("Client registered for session %s (total clients: %d)", client.sessionID, len(watchers))
}

// unregisterClient drops a client and closes its send channel. Unknown
// clients are ignored, so a client may be unregistered twice.
func (h *Hub) unregisterClient(client *Client) {
	watchers := h.sessions[client.sessionID]
	if !watchers[client] {
		return
	}
	delete(watchers, client)
	close(client.send)
	if len(watchers) == 0 {
		delete(h.sessions, client.sessionID)
	}
	log.Printf("Client unregistered from session %s (remaining clients: %d)", client.sessionID, len(watchers))
}

// broadcastMessage encodes message once and queues it for each watcher of
// its session. Watchers that cannot keep up are disconnected.
func (h *Hub) broadcastMessage(message *Message) {
	watchers := h.sessions[message.SessionID]
	if len(watchers) == 0 {
		return
	}

	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Failed to marshal broadcast message: %v", err)
		return
	}

	var slow []*Client
	for client := range watchers {
		select {
		case client.send <- data:
		default:
			slow = append(slow, client)
		}
	}
	for _, client := range slow {
		h.unregisterClient(client)
	}
}
