package storefront

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"skouce/assistant"
)

// Client is one websocket attached to a session's assistant.
type Client struct {
	Conn    *websocket.Conn
	Send    chan []byte
	Session string
}

type broadcastMsg struct {
	Session string
	Data    []byte
}

// Hub fans assistant events out to every socket of a session.
type Hub struct {
	sessions   map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	stopOnce   sync.Once
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		sessions:   make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.sessions[c.Session] == nil {
				h.sessions[c.Session] = make(map[*Client]bool)
			}
			h.sessions[c.Session][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			h.drop(c)
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.sessions[m.Session] {
				select {
				case c.Send <- m.Data:
				default:
					// slow reader
					h.drop(c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.sessions {
				for c := range conns {
					close(c.Send)
				}
			}
			h.sessions = make(map[string]map[*Client]bool)
			h.mu.Unlock()
			return
		}
	}
}

// drop closes c's queue and forgets the session once its last client goes.
// Callers hold h.mu.
func (h *Hub) drop(c *Client) {
	conns := h.sessions[c.Session]
	if !conns[c] {
		return
	}
	delete(conns, c)
	close(c.Send)
	if len(conns) == 0 {
		delete(h.sessions, c.Session)
	}
}

// Stop ends Run and closes every client's send queue.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.quit) })
}

func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.quit:
		close(c.Send)
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.quit:
	}
}

// Publish sends an event to the session's sockets. It never blocks after Stop.
func (h *Hub) Publish(sessionID string, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Hub] encode event: %v", err)
		return
	}
	select {
	case h.broadcast <- broadcastMsg{Session: sessionID, Data: data}:
	case <-h.quit:
	}
}

// OnReply adapts Publish for session.Deps.
func (h *Hub) OnReply(sessionID string, m assistant.Message) {
	h.Publish(sessionID, Event{Action: "message", Message: &m})
}

// Event is what assistant sockets receive.
type Event struct {
	Action   string              `json:"action"` // "history", "message", "typing", "error"
	Message  *assistant.Message  `json:"message,omitempty"`
	Messages []assistant.Message `json:"messages,omitempty"`
	Typing   bool                `json:"typing"`
	Error    string              `json:"error,omitempty"`
}
