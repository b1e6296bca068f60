package repository

import (
	"context"

	"github.com/vozciudadana/portal/models"
)

// PqrsRepository, acceso a solicitudes ciudadanas.
//
// La implementación cifra/descifra los datos de contacto — los modelos que
// entran y salen por esta interfaz siempre llevan los valores en claro.
type PqrsRepository interface {
	Create(ctx context.Context, p *models.Pqrs) error
	GetByID(ctx context.Context, id string) (*models.Pqrs, error)
	GetByRadicado(ctx context.Context, radicado string) (*models.Pqrs, error)
	List(ctx context.Context, f *models.FiltroPqrs) (*models.PaginaPqrs, error)
	ActualizarEstado(ctx context.Context, id string, estado models.EstadoPqrs, respuesta *string) error
}
