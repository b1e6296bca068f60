package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait: máximo para escribir un mensaje antes de dar la conexión
	// por perdida.
	writeWait = 10 * time.Second

	// pongWait: máximo sin heartbeat del cliente. 3 heartbeats perdidos
	// (30s × 3) = desconectado.
	pongWait = 90 * time.Second

	// maxMessageSize: tamaño máximo de mensaje entrante en bytes. Por el
	// socket solo viajan heartbeats — todo lo demás va por HTTP.
	maxMessageSize = 1024

	// sendBufferSize: buffer del channel de salida de cada cliente. Lleno
	// significa cliente colgado y se desconecta.
	sendBufferSize = 64
)

// Client representa una conexión WebSocket.
//
// Patrón de dos goroutines por conexión: ReadPump lee del socket, WritePump
// escribe. gorilla/websocket solo admite una lectura y una escritura
// concurrentes, y con dos goroutines ninguna bloquea a la otra.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	// send buffera los mensajes salientes: el Hub hace `client.send <- data`
	// y WritePump los drena hacia el socket.
	send chan []byte
	mu   sync.Mutex // protege las escrituras a conn
}

// ReadPump lee mensajes del socket hasta que la conexión se cierra.
// Al salir, saca al cliente del Hub y cierra la conexión.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)

	// Si no llega nada en pongWait, Read falla y la conexión se da por
	// muerta. Cada heartbeat renueva el deadline.
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
		return
	}

	for {
		_, rawMessage, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] cierre inesperado para usuario %s: %v", c.userID, err)
			}
			return
		}

		var event Event
		if err := json.Unmarshal(rawMessage, &event); err != nil {
			log.Printf("[ws] mensaje inválido de usuario %s: %v", c.userID, err)
			continue
		}

		c.handleEvent(event)
	}
}

// handleEvent procesa los eventos entrantes. El portal solo acepta
// heartbeats — las notificaciones son de una sola dirección.
func (c *Client) handleEvent(event Event) {
	switch event.Op {
	case OpHeartbeat:
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("[ws] failed to set read deadline for user %s: %v", c.userID, err)
			return
		}
		c.sendEvent(Event{Op: OpHeartbeatAck})

	default:
		log.Printf("[ws] op desconocida de usuario %s: %s", c.userID, event.Op)
	}
}

// sendEvent envía un event a este cliente.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[ws] failed to marshal event for user %s: %v", c.userID, err)
		return
	}

	select {
	case c.send <- data:
	default:
		log.Printf("[ws] buffer de envío lleno para usuario %s, cerrando conexión", c.userID)
		c.hub.unregister <- c
	}
}

// WritePump drena el channel send hacia el socket.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		message, ok := <-c.send
		if !ok {
			// channel cerrado — el Hub sacó al cliente
			c.writeMessage(websocket.CloseMessage, nil)
			return
		}

		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// writeMessage escribe al socket bajo mutex — gorilla/websocket no tolera
// escrituras concurrentes sobre la misma conexión.
func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
