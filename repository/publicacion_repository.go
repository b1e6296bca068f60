package repository

import (
	"context"

	"github.com/vozciudadana/portal/models"
)

// PublicacionRepository, acceso al contenido del portal.
type PublicacionRepository interface {
	Create(ctx context.Context, p *models.Publicacion) error
	GetByID(ctx context.Context, id string) (*models.Publicacion, error)
	Update(ctx context.Context, p *models.Publicacion) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f *models.FiltroPublicaciones) (*models.PaginaPublicaciones, error)
}
