package notify

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Channel names understood by connected clients.
const (
	ChannelSessions = "sessions"
	ChannelMatches  = "matches"
	ChannelFeedback = "feedback"
)

var ErrHubBusy = errors.New("notification hub is busy")

// Envelope wraps every pushed notification with its addressing metadata.
type Envelope struct {
	EventID   string `json:"event_id"`
	Channel   string `json:"channel"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// Hub fans notifications out to a user's open websocket connections. It is
// the delivery half of the notification gateway: publishing never blocks the
// caller and a slow client is dropped rather than backing up the hub.
type Hub struct {
	clients    map[int64]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	outbound   chan *delivery
}

type delivery struct {
	userID  int64
	payload []byte
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID int64
	send   chan []byte
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		outbound:   make(chan *delivery, 64),
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				close(client.send)
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case d := <-h.outbound:
			h.sendToUser(d.userID, d.payload)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish queues payload for every connection the user has open. An offline
// user is not an error; a full hub queue is, so the caller can log it.
func (h *Hub) Publish(channel string, userID int64, payload any) error {
	encoded, err := json.Marshal(Envelope{
		EventID:   uuid.NewString(),
		Channel:   channel,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      payload,
	})
	if err != nil {
		return err
	}

	select {
	case h.outbound <- &delivery{userID: userID, payload: encoded}:
		return nil
	default:
		return ErrHubBusy
	}
}

func (h *Hub) sendToUser(userID int64, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		select {
		case client.send <- payload:
		default:
			delete(set, client)
			close(client.send)
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// ReadPump drains the connection until it closes. The notification stream is
// one-way; inbound frames are discarded.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Printf("notify hub write to user %d: %v", c.userID, err)
			return
		}
	}
}
