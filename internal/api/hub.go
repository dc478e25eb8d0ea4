/*
Package api
File: hub.go
Description:
    The WebSocket Hub fans out tick snapshots to connected observers
    (wired via sim.Engine.SetOnTick). Unlike a chat-style hub, a newly
    connected observer isn't interested in history it missed before
    connecting — it wants the simulation's current state — so the hub
    replays the most recent tick to every client as soon as it registers,
    instead of leaving it to wait out the rest of the current tick
    interval for its first snapshot.

    Architecture:
    - Hub: the singleton manager, run as a goroutine.
    - Client: one browser/tooling connection.
    - ServeWs: the HTTP handler that upgrades a request to a WebSocket.
*/

package api

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

// Message is the standard JSON envelope for everything sent over the socket.
type Message struct {
	Type    string      `json:"type"`    // e.g. "tick"
	Payload interface{} `json:"payload"` // tick snapshot or event data
}

// Client represents one connected observer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of active clients, replays the latest tick
// snapshot to newcomers, and fans out every new one as it arrives.
type Hub struct {
	clients map[*Client]bool

	// last is the most recently broadcast tick snapshot, replayed to each
	// client as soon as it registers. Nil until the first tick arrives.
	last []byte

	// Broadcast is exported so the engine's tick callback can push onto it.
	Broadcast chan []byte

	register   chan *Client
	unregister chan *Client
}

// NewHub creates a new Hub. Call Run in a goroutine before serving traffic.
func NewHub() *Hub {
	return &Hub{
		Broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run is the Hub's event loop. It blocks; call as `go hub.Run()`.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if h.last != nil {
				client.send <- h.last
			}
			log.Println("api: observer connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}

		case message := <-h.Broadcast:
			h.last = message
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades an HTTP request to a WebSocket and registers the client.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("api: ws upgrade error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	client.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump's only job is noticing disconnects: a tick-feed observer has
// nothing meaningful to send upstream, unlike a chat client.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("api: ws error: %v", err)
			}
			break
		}
	}
}

// writePump pumps snapshots from the hub to the websocket connection.
func (c *Client) writePump() {
	defer c.conn.Close()

	for message := range c.send {
		w, err := c.conn.NextWriter(websocket.TextMessage)
		if err != nil {
			return
		}
		w.Write(message)
		if err := w.Close(); err != nil {
			return
		}
	}
}
