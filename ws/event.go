// Package ws gestiona las conexiones WebSocket del portal y el reparto de
// notificaciones en tiempo real.
//
// Arquitectura:
// - Hub: estructura central que administra todas las conexiones (Observer)
// - Client: una conexión WebSocket concreta
// - Event: el formato de mensaje cliente ↔ servidor
//
// Flujo típico:
// 1. Un gestor cambia el estado de una PQRS → HTTP PATCH → Service → DB
// 2. El service llama a Hub.BroadcastToUser con el dueño de la solicitud
// 3. El Hub reparte el event a todas las conexiones de ese usuario
// 4. El WritePump de cada conexión lo escribe al socket
package ws

// Event es un mensaje que viaja por el WebSocket.
//
// Op: tipo de event ("pqrs_update", "heartbeat", ...).
// Data: payload específico del event.
// Seq: número creciente por event saliente — el frontend lo usa para
// detectar eventos perdidos (tras seq 5 llega seq 7 → se perdió el 6).
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Operaciones cliente → servidor
const (
	OpHeartbeat = "heartbeat" // el cliente lo manda cada 30s — "sigo conectado"
)

// Operaciones servidor → cliente
const (
	OpReady             = "ready"              // primer event tras conectar
	OpHeartbeatAck      = "heartbeat_ack"      // respuesta al heartbeat
	OpPqrsUpdate        = "pqrs_update"        // cambió el estado de una solicitud del usuario
	OpPublicacionCreate = "publicacion_create" // se publicó contenido nuevo en el portal
)

// ReadyData, payload del primer event tras conectar.
type ReadyData struct {
	UsuarioID string `json:"usuario_id"`
}

// PqrsUpdateData, payload de pqrs_update. Va solo al dueño de la solicitud.
type PqrsUpdateData struct {
	Radicado  string  `json:"radicado"`
	Estado    string  `json:"estado"`
	Respuesta *string `json:"respuesta,omitempty"`
}

// PublicacionCreateData, payload de publicacion_create. Broadcast general —
// lleva lo mínimo para que el frontend decida si refresca el listado.
type PublicacionCreateData struct {
	ID     string `json:"id"`
	Tipo   string `json:"tipo"`
	Titulo string `json:"titulo"`
}
