package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/pkg/email"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/ws"
)

// PqrsService, ciclo de vida de las solicitudes ciudadanas: radicación
// pública, consulta por radicado y gestión de estados desde el panel.
type PqrsService interface {
	// Radicar crea la solicitud y devuelve el número de radicado.
	// usuarioID es nil en radicación anónima. Si hay email de contacto se
	// envía la confirmación con el radicado.
	Radicar(ctx context.Context, usuarioID *string, req *models.CrearPqrsRequest) (*models.Pqrs, error)
	// Consultar devuelve la vista pública de una solicitud por su radicado —
	// sin datos de contacto ni ID interno.
	Consultar(ctx context.Context, radicado string) (*models.ConsultaPqrs, error)
	// Obtener devuelve la solicitud completa — solo panel de gestión.
	Obtener(ctx context.Context, id string) (*models.Pqrs, error)
	// Listar, listado paginado del panel de gestión.
	Listar(ctx context.Context, f *models.FiltroPqrs) (*models.PaginaPqrs, error)
	// CambiarEstado aplica una transición del ciclo de vida y notifica al
	// dueño por WebSocket si la solicitud no fue anónima.
	CambiarEstado(ctx context.Context, id string, req *models.CambiarEstadoPqrsRequest) (*models.Pqrs, error)
}

type pqrsService struct {
	repo   repository.PqrsRepository
	hub    ws.EventPublisher
	sender email.EmailSender // nil deshabilita la confirmación por correo
}

// NewPqrsService, constructor.
func NewPqrsService(repo repository.PqrsRepository, hub ws.EventPublisher, sender email.EmailSender) PqrsService {
	return &pqrsService{repo: repo, hub: hub, sender: sender}
}

// nuevoRadicado genera un número de radicado "PQRS-XXXXXXXX".
// Son los primeros 8 hex de un UUID v4 en mayúsculas — legible por teléfono
// y con colisión prácticamente imposible al volumen del portal (la columna
// tiene UNIQUE como red de seguridad).
func nuevoRadicado() string {
	id := uuid.NewString()
	return "PQRS-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

func (s *pqrsService) Radicar(ctx context.Context, usuarioID *string, req *models.CrearPqrsRequest) (*models.Pqrs, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	p := &models.Pqrs{
		Radicado:         nuevoRadicado(),
		Tipo:             req.Tipo,
		Asunto:           req.Asunto,
		Descripcion:      req.Descripcion,
		Estado:           models.PqrsRadicada,
		NombreContacto:   req.NombreContacto,
		EmailContacto:    req.EmailContacto,
		TelefonoContacto: req.TelefonoContacto,
		UsuarioID:        usuarioID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	if s.sender != nil && p.EmailContacto != "" {
		// El correo no bloquea la radicación: si falla se loguea y ya.
		if err := s.sender.SendPqrsConfirmacion(ctx, p.EmailContacto, p); err != nil {
			log.Printf("[pqrs] fallo enviando confirmación de %s: %v", p.Radicado, err)
		}
	}

	return p, nil
}

func (s *pqrsService) Consultar(ctx context.Context, radicado string) (*models.ConsultaPqrs, error) {
	radicado = strings.ToUpper(strings.TrimSpace(radicado))
	if radicado == "" {
		return nil, fmt.Errorf("%w: el radicado es obligatorio", pkg.ErrBadRequest)
	}

	p, err := s.repo.GetByRadicado(ctx, radicado)
	if err != nil {
		return nil, err
	}

	return p.Consulta(), nil
}

func (s *pqrsService) Obtener(ctx context.Context, id string) (*models.Pqrs, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *pqrsService) Listar(ctx context.Context, f *models.FiltroPqrs) (*models.PaginaPqrs, error) {
	if f.Tipo != "" && !f.Tipo.Valido() {
		return nil, fmt.Errorf("%w: tipo de solicitud inválido: %q", pkg.ErrBadRequest, f.Tipo)
	}
	return s.repo.List(ctx, f)
}

func (s *pqrsService) CambiarEstado(ctx context.Context, id string, req *models.CambiarEstadoPqrsRequest) (*models.Pqrs, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.Estado.PuedeTransicionar(req.Estado) {
		return nil, fmt.Errorf("%w: transición inválida de %q a %q", pkg.ErrBadRequest, p.Estado, req.Estado)
	}

	var respuesta *string
	if req.Estado == models.PqrsResuelta {
		r := strings.TrimSpace(req.Respuesta)
		if r == "" {
			return nil, fmt.Errorf("%w: resolver una solicitud requiere respuesta", pkg.ErrBadRequest)
		}
		respuesta = &r
	}

	if err := s.repo.ActualizarEstado(ctx, id, req.Estado, respuesta); err != nil {
		return nil, err
	}

	p.Estado = req.Estado
	if respuesta != nil {
		p.Respuesta = respuesta
	}

	// Notificación en tiempo real al dueño — solo si no fue anónima.
	if p.UsuarioID != nil {
		s.hub.BroadcastToUser(*p.UsuarioID, ws.Event{
			Op: ws.OpPqrsUpdate,
			Data: ws.PqrsUpdateData{
				Radicado:  p.Radicado,
				Estado:    string(p.Estado),
				Respuesta: p.Respuesta,
			},
		})
	}

	return p, nil
}
