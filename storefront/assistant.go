package storefront

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"skouce/assistant"
	"skouce/middleware"
	"skouce/ratelim"
	"skouce/session"
	"skouce/utils"
)

func (h *Handler) GetAssistant(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"messages": s.Assistant.Messages(),
		"typing":   s.Assistant.Typing(),
	})
}

type sendRequest struct {
	Text string `json:"text"`
}

// SendAssistantMessage records the message and returns before the reply,
// which arrives on the socket or the next GetAssistant.
func (h *Handler) SendAssistantMessage(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	s, ok := current(w, r)
	if !ok {
		return
	}
	var req sendRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	msg, _, err := s.Assistant.Send(req.Text)
	if err != nil {
		fail(w, err)
		return
	}
	h.publishSent(s.ID, msg)
	utils.RespondWithJSON(w, http.StatusAccepted, utils.M{"message": msg, "typing": true})
}

// publishSent echoes a user message to the session's sockets.
func (h *Handler) publishSent(id string, msg assistant.Message) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(id, Event{Action: "message", Message: &msg})
	h.Hub.Publish(id, Event{Action: "typing", Typing: true})
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// inbound is what assistant sockets send.
type inbound struct {
	Action string `json:"action"` // "send"
	Text   string `json:"text"`
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

// AssistantSocket streams the session's conversation. The session id comes
// from the X-Session-ID header or the ?session= query parameter.
func (h *Handler) AssistantSocket(limiter *ratelim.RateLimiter) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		s, ok := h.Store.Get(middleware.SessionID(r))
		if !ok {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unknown or expired session")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:    conn,
			Send:    make(chan []byte, 64),
			Session: s.ID,
		}

		// history first, then live events
		if data, err := json.Marshal(Event{Action: "history", Messages: s.Assistant.Messages(), Typing: s.Assistant.Typing()}); err == nil {
			client.Send <- data
		}
		h.Hub.Register(client)
		go writePump(client)
		go h.readPump(client, s, limiter)
	}
}

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readPump(c *Client, s *session.Session, limiter *ratelim.RateLimiter) {
	defer func() {
		h.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(4096)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var in inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			log.Println("invalid payload:", err)
			continue
		}

		switch in.Action {
		case "send":
			if limiter != nil && !limiter.Allow(s.ID) {
				h.Hub.Publish(s.ID, Event{Action: "error", Error: "Too many requests"})
				continue
			}
			msg, _, err := s.Assistant.Send(in.Text)
			if err != nil {
				h.Hub.Publish(s.ID, Event{Action: "error", Error: err.Error(), Typing: s.Assistant.Typing()})
				continue
			}
			h.publishSent(s.ID, msg)

		default:
			log.Println("unknown action:", in.Action)
		}
	}
}
