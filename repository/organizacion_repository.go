package repository

import (
	"context"

	"github.com/vozciudadana/portal/models"
)

// OrganizacionRepository, acceso a datos de organizaciones y comités.
type OrganizacionRepository interface {
	Create(ctx context.Context, o *models.Organizacion) error
	GetByID(ctx context.Context, id string) (*models.Organizacion, error)
	// List devuelve todas las organizaciones, opcionalmente filtradas por tipo
	// (vacío = todas), ordenadas por nombre.
	List(ctx context.Context, tipo models.TipoOrganizacion) ([]models.Organizacion, error)
	Update(ctx context.Context, o *models.Organizacion) error
	Delete(ctx context.Context, id string) error
}
