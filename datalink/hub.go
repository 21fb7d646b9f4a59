package datalink

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
)

const (
	socketBufferSize  = 1024
	messageBufferSize = 16
)

var upgrader = &websocket.Upgrader{
	ReadBufferSize:  socketBufferSize,
	WriteBufferSize: socketBufferSize,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// Hub mirrors telemetry to browser clients over websockets. Text messages
// from a client are treated as uplink commands.
type Hub struct {
	// forward holds telemetry waiting to go out to every client.
	forward chan []byte
	join    chan *client
	leave   chan *client
	clients map[*client]bool
	uplink  *Uplink
	done    chan struct{}
}

// NewHub returns a hub; uplink may be nil for a read-only mirror.
func NewHub(uplink *Uplink) *Hub {
	return &Hub{
		forward: make(chan []byte, messageBufferSize),
		join:    make(chan *client),
		leave:   make(chan *client),
		clients: make(map[*client]bool),
		uplink:  uplink,
		done:    make(chan struct{}),
	}
}

// Run serves joins, leaves and broadcasts until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.send)
			}
			return
		case c := <-h.join:
			h.clients[c] = true
			log.Printf("[WS] Client joined (%d connected)", len(h.clients))
		case c := <-h.leave:
			if h.clients[c] {
				delete(h.clients, c)
				close(c.send)
				log.Printf("[WS] Client left (%d connected)", len(h.clients))
			}
		case msg := <-h.forward:
			for c := range h.clients {
				select {
				case c.send <- msg:
				default:
					// Slow client, skip this frame.
				}
			}
		}
	}
}

// Send queues a message for every client. It drops the message when the
// hub is backed up.
func (h *Hub) Send(payload []byte) {
	select {
	case h.forward <- payload:
	default:
	}
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	socket, err := upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Printf("[WS] Upgrade failed: %v", err)
		return
	}
	c := &client{
		socket: socket,
		send:   make(chan []byte, messageBufferSize),
		hub:    h,
	}
	select {
	case h.join <- c:
	case <-h.done:
		socket.Close()
		return
	}
	defer func() {
		select {
		case h.leave <- c:
		case <-h.done:
		}
	}()
	go c.write()
	c.read()
}

type client struct {
	socket *websocket.Conn
	send   chan []byte
	hub    *Hub
}

func (c *client) read() {
	defer c.socket.Close()
	for {
		kind, msg, err := c.socket.ReadMessage()
		if err != nil {
			return
		}
		if kind == websocket.TextMessage && c.hub.uplink != nil {
			c.hub.uplink.Push(msg)
		}
	}
}

func (c *client) write() {
	defer c.socket.Close()
	for msg := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}
