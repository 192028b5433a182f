package ws

import (
	"log"
	"net/http"
	"sync"
	"time"

	"church-backend/internal/timeutil"

	"github.com/gorilla/websocket"
)

// Event is one message pushed to connected dashboard clients
type Event struct {
	Event     string      `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub fans domain events out to every connected websocket client
type Hub struct {
	clients    map[*websocket.Conn]bool
	clientsMux sync.Mutex
	broadcast  chan Event
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewHub() *Hub {
	h := &Hub{
		clients:   make(map[*websocket.Conn]bool),
		broadcast: make(chan Event, 64),
	}

	go h.run()

	return h
}

// Broadcast queues an event for all connected clients. Never blocks the
// caller; if the queue is full the event is dropped.
func (h *Hub) Broadcast(event string, payload interface{}) {
	e := Event{
		Event:     event,
		Payload:   payload,
		Timestamp: timeutil.Now(),
	}

	select {
	case h.broadcast <- e:
	default:
		log.Printf("[WS] Broadcast queue full, dropping %s event", event)
	}
}

// HandleWebSocket upgrades the connection and keeps it registered until the
// client goes away
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("[WS] Upgrade error:", err)
		return
	}
	defer conn.Close()

	h.clientsMux.Lock()
	h.clients[conn] = true
	h.clientsMux.Unlock()

	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			h.clientsMux.Lock()
			delete(h.clients, conn)
			h.clientsMux.Unlock()
			break
		}
	}
}

func (h *Hub) run() {
	for e := range h.broadcast {
		h.clientsMux.Lock()
		for client := range h.clients {
			if err := client.WriteJSON(e); err != nil {
				client.Close()
				delete(h.clients, client)
			}
		}
		h.clientsMux.Unlock()
	}
}

// ClientCount reports how many dashboard clients are connected
func (h *Hub) ClientCount() int {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	return len(h.clients)
}
