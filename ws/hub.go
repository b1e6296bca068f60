package ws

import (
	"encoding/json"
	"log"
	"sync"
	"sync/atomic"
)

// EventPublisher es la interface que usan los services para emitir eventos.
//
// Dependency Inversion: los services no conocen el struct Hub, solo esta
// interface. Así en los tests del service se inyecta un publisher falso y la
// implementación del Hub puede cambiar sin tocar los services.
type EventPublisher interface {
	BroadcastToAll(event Event)
	BroadcastToUser(userID string, event Event)
	GetOnlineUserIDs() []string
}

// Hub administra todas las conexiones WebSocket (Observer pattern).
//
// Hub.Run() corre como goroutine y lee de los channels register/unregister
// con select; los broadcasts recorren el map bajo RLock.
type Hub struct {
	// clients: userID → set de conexiones (un usuario puede tener varias
	// pestañas abiertas). En Go no hay set: map[*Client]bool con true fijo.
	clients map[string]map[*Client]bool

	mu sync.RWMutex

	register   chan *Client
	unregister chan *Client

	// seq: contador creciente por event saliente.
	// atomic.Int64 evita la race entre goroutines de broadcast.
	seq atomic.Int64
}

// NewHub, constructor.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run es el event loop del Hub. Se arranca con `go hub.Run()` en main.go.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	log.Printf("[ws] cliente conectado: usuario=%s (conexiones del usuario: %d)",
		client.userID, len(h.clients[client.userID]))
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.userID]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.userID)
				log.Printf("[ws] usuario completamente desconectado: %s", client.userID)
			} else {
				log.Printf("[ws] cliente desconectado: usuario=%s (quedan: %d)",
					client.userID, len(clients))
			}
		}
	}
}

// BroadcastToAll envía el event a todas las conexiones.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal broadcast event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				// buffer lleno — cliente lento, se desconecta
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// BroadcastToUser envía el event a todas las conexiones de un usuario.
func (h *Hub) BroadcastToUser(userID string, event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal user event: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[userID]; ok {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

// GetOnlineUserIDs devuelve los IDs de los usuarios conectados.
func (h *Hub) GetOnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// Shutdown cierra todas las conexiones (graceful shutdown).
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			close(client.send)
		}
	}
	h.clients = make(map[string]map[*Client]bool)
	log.Println("[ws] hub apagado, todas las conexiones cerradas")
}
