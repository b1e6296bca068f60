package services

import (
	"context"
	"fmt"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/ws"
)

// PublicacionService, gestión del contenido del portal (noticias, eventos,
// ofertas, convocatorias).
type PublicacionService interface {
	// Crear da de alta una pieza de contenido. autorID viene del usuario
	// autenticado, nunca del body.
	Crear(ctx context.Context, autorID string, req *models.CrearPublicacionRequest) (*models.Publicacion, error)
	// Obtener devuelve una publicación por ID. Si no está publicada, solo es
	// visible desde el panel de gestión (incluirBorradores).
	Obtener(ctx context.Context, id string, incluirBorradores bool) (*models.Publicacion, error)
	// Listar devuelve el listado paginado. El listado público fuerza
	// SoloPublicadas en el handler.
	Listar(ctx context.Context, f *models.FiltroPublicaciones) (*models.PaginaPublicaciones, error)
	// Actualizar edita parcialmente — los campos nil del request no cambian.
	Actualizar(ctx context.Context, id string, req *models.ActualizarPublicacionRequest) (*models.Publicacion, error)
	Eliminar(ctx context.Context, id string) error
}

type publicacionService struct {
	repo repository.PublicacionRepository
	hub  ws.EventPublisher
}

// NewPublicacionService, constructor.
func NewPublicacionService(repo repository.PublicacionRepository, hub ws.EventPublisher) PublicacionService {
	return &publicacionService{repo: repo, hub: hub}
}

func (s *publicacionService) Crear(ctx context.Context, autorID string, req *models.CrearPublicacionRequest) (*models.Publicacion, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	p := &models.Publicacion{
		Tipo:        req.Tipo,
		Titulo:      req.Titulo,
		Resumen:     req.Resumen,
		Cuerpo:      req.Cuerpo,
		ImagenURL:   req.ImagenURL,
		FechaEvento: req.FechaEvento,
		Publicada:   req.Publicada,
		AutorID:     autorID,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	// Solo el contenido visible al público genera notificación.
	if p.Publicada {
		s.hub.BroadcastToAll(ws.Event{
			Op: ws.OpPublicacionCreate,
			Data: ws.PublicacionCreateData{
				ID:     p.ID,
				Tipo:   string(p.Tipo),
				Titulo: p.Titulo,
			},
		})
	}

	return p, nil
}

func (s *publicacionService) Obtener(ctx context.Context, id string, incluirBorradores bool) (*models.Publicacion, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !p.Publicada && !incluirBorradores {
		// un borrador no existe para el público
		return nil, pkg.ErrNotFound
	}

	return p, nil
}

func (s *publicacionService) Listar(ctx context.Context, f *models.FiltroPublicaciones) (*models.PaginaPublicaciones, error) {
	if f.Tipo != "" && !f.Tipo.Valido() {
		return nil, fmt.Errorf("%w: tipo de publicación inválido: %q", pkg.ErrBadRequest, f.Tipo)
	}
	return s.repo.List(ctx, f)
}

func (s *publicacionService) Actualizar(ctx context.Context, id string, req *models.ActualizarPublicacionRequest) (*models.Publicacion, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eraBorrador := !p.Publicada

	if req.Tipo != nil {
		if !req.Tipo.Valido() {
			return nil, fmt.Errorf("%w: tipo de publicación inválido: %q", pkg.ErrBadRequest, *req.Tipo)
		}
		p.Tipo = *req.Tipo
	}
	if req.Titulo != nil {
		p.Titulo = *req.Titulo
	}
	if req.Resumen != nil {
		p.Resumen = *req.Resumen
	}
	if req.Cuerpo != nil {
		p.Cuerpo = *req.Cuerpo
	}
	if req.ImagenURL != nil {
		p.ImagenURL = req.ImagenURL
	}
	if req.FechaEvento != nil {
		p.FechaEvento = req.FechaEvento
	}
	if req.Publicada != nil {
		p.Publicada = *req.Publicada
	}

	if p.Tipo == models.PublicacionEvento && p.FechaEvento == nil {
		return nil, fmt.Errorf("%w: los eventos requieren fecha_evento", pkg.ErrBadRequest)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Publicar un borrador equivale a crearlo de cara al público.
	if eraBorrador && p.Publicada {
		s.hub.BroadcastToAll(ws.Event{
			Op: ws.OpPublicacionCreate,
			Data: ws.PublicacionCreateData{
				ID:     p.ID,
				Tipo:   string(p.Tipo),
				Titulo: p.Titulo,
			},
		})
	}

	return p, nil
}

func (s *publicacionService) Eliminar(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
