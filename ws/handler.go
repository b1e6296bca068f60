package ws

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/vozciudadana/portal/models"
)

// TokenValidator es la interface que el handler WS usa para validar el JWT.
//
// No se usa services.AuthService directamente para evitar el ciclo
// ws → services → ws (los services emiten eventos por EventPublisher).
// El handler solo necesita ValidateToken — interface pequeña y enfocada;
// authService la satisface de forma implícita.
type TokenValidator interface {
	ValidateToken(tokenString string) (*models.IdentityClaims, error)
}

// upgrader convierte la conexión HTTP en WebSocket.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// CheckOrigin permisivo — el portal sirve frontend y API desde el mismo
	// origen y nginx filtra orígenes externos en producción.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler atiende las peticiones de conexión WebSocket.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
}

// NewHandler, constructor.
func NewHandler(hub *Hub, tokenValidator TokenValidator) *Handler {
	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
	}
}

// HandleConnection valida el token, hace el upgrade y registra al cliente.
//
// El token viaja como query parameter (ws://server/ws?token=JWT) porque el
// navegador no permite headers custom al abrir un WebSocket.
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade fallido para usuario %s: %v", claims.Subject, err)
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.Subject,
		send:   make(chan []byte, sendBufferSize),
	}

	h.hub.register <- client

	client.sendEvent(Event{Op: OpReady, Data: ReadyData{UsuarioID: claims.Subject}})

	// WritePump en goroutine aparte; ReadPump en esta — bloquea hasta que la
	// conexión se cierra, manteniendo vivo el HTTP handler.
	go client.WritePump()
	client.ReadPump()
}
