package websocket

import (
	"encoding/json"
	"net/http"
	"sync"

	fiberws "github.com/gofiber/websocket/v2"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Hub maintains the set of connected clients and fans check-in events
// out to all of them.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound messages to every client.
	broadcast chan []byte

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mutex sync.RWMutex
}

// Client is a middleman between one websocket connection and the hub.
type Client struct {
	hub *Hub

	conn *websocket.Conn

	// Buffered channel of outbound messages.
	send chan []byte
}

// Message is the envelope every broadcast uses.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The feed is read-only dashboard data; any origin may watch.
		return true
	},
}

// NewHub creates an empty hub. Call Run in a goroutine before serving
// clients.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 16),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run processes register/unregister/broadcast events until the
// process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			logrus.Debug("WebSocket client connected")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()
			logrus.Debug("WebSocket client disconnected")

		case message := <-h.broadcast:
			// Full lock: stalled clients are evicted here, and that
			// is a map write.
			h.mutex.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Broadcast sends a typed message to every connected client. Marshal
// failures are logged and dropped; a dead feed must never fail the
// operation that produced the event.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	payload, err := json.Marshal(Message{Type: messageType, Data: data})
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal websocket message")
		return
	}
	h.broadcast <- payload
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeWS upgrades a plain net/http request and attaches it to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	h.ServeConn(conn)
}

// ServeConn registers an already-upgraded connection and blocks until
// it closes.
func (h *Hub) ServeConn(conn *websocket.Conn) {
	client := &Client{hub: h, conn: conn, send: make(chan []byte, 16)}
	h.register <- client

	go client.writePump()
	client.readPump()
}

// ServeFiberConn attaches a Fiber websocket connection to the hub and
// blocks until it closes. The read side runs inline so the connection
// never crosses goroutines mid-handshake.
func (h *Hub) ServeFiberConn(c *fiberws.Conn) {
	client := &Client{hub: h, send: make(chan []byte, 16)}
	h.register <- client

	go h.fiberWritePump(client, c)
	h.fiberReadPump(client, c)
}

func (h *Hub) fiberWritePump(client *Client, c *fiberws.Conn) {
	defer c.Close()
	for message := range client.send {
		if err := c.WriteMessage(fiberws.TextMessage, message); err != nil {
			return
		}
	}
	c.WriteMessage(fiberws.CloseMessage, []byte{})
}

func (h *Hub) fiberReadPump(client *Client, c *fiberws.Conn) {
	defer func() {
		h.unregister <- client
		c.Close()
	}()
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; the feed is one-way. It exists to
// notice the close handshake.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// send channel closed by the hub: tell the peer we are done.
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
