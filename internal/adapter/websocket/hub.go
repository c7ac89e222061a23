package websocket

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// EventHub fans completed evaluation events out to connected observers.
// Observers only listen; inbound frames are drained to keep the
// connection alive.
type EventHub struct {
	observers  map[*observer]bool
	broadcast  chan []byte
	register   chan *observer
	unregister chan *observer

	mu sync.RWMutex
}

type observer struct {
	hub  *EventHub
	conn *websocket.Conn
	send chan []byte
}

func NewEventHub() *EventHub {
	return &EventHub{
		observers:  make(map[*observer]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *observer),
		unregister: make(chan *observer),
	}
}

// Run dispatches registrations and broadcasts. Call it on its own
// goroutine; it loops until the process exits.
func (h *EventHub) Run() {
	for {
		select {
		case o := <-h.register:
			h.mu.Lock()
			h.observers[o] = true
			h.mu.Unlock()
		case o := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.observers[o]; ok {
				delete(h.observers, o)
				close(o.send)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for o := range h.observers {
				select {
				case o.send <- message:
				default:
					// Slow observer; drop it rather than block the hub.
					delete(h.observers, o)
					close(o.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast queues one event for every connected observer.
func (h *EventHub) Broadcast(event []byte) {
	h.broadcast <- event
}

// Serve registers the connection and blocks until it closes.
func (h *EventHub) Serve(conn *websocket.Conn) {
	o := &observer{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- o

	go o.writePump()
	o.readPump()
}

func (o *observer) readPump() {
	defer func() {
		o.hub.unregister <- o
		o.conn.Close()
	}()
	for {
		if _, _, err := o.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (o *observer) writePump() {
	defer o.conn.Close()
	for message := range o.send {
		if err := o.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	o.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
