package services

import (
	"context"
	"fmt"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/repository"
)

// OrganizacionService, directorio de organizaciones sociales y comités.
type OrganizacionService interface {
	Crear(ctx context.Context, req *models.GuardarOrganizacionRequest) (*models.Organizacion, error)
	Obtener(ctx context.Context, id string) (*models.Organizacion, error)
	// Listar filtra por tipo (vacío = todas). soloActivas lo fuerza el
	// listado público; el panel de gestión ve todo.
	Listar(ctx context.Context, tipo models.TipoOrganizacion, soloActivas bool) ([]models.Organizacion, error)
	Actualizar(ctx context.Context, id string, req *models.GuardarOrganizacionRequest) (*models.Organizacion, error)
	Eliminar(ctx context.Context, id string) error
}

type organizacionService struct {
	repo repository.OrganizacionRepository
}

// NewOrganizacionService, constructor.
func NewOrganizacionService(repo repository.OrganizacionRepository) OrganizacionService {
	return &organizacionService{repo: repo}
}

func (s *organizacionService) Crear(ctx context.Context, req *models.GuardarOrganizacionRequest) (*models.Organizacion, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	o := &models.Organizacion{
		Nombre:        req.Nombre,
		Tipo:          req.Tipo,
		Descripcion:   req.Descripcion,
		EmailContacto: req.EmailContacto,
		Direccion:     req.Direccion,
		Activa:        req.Activa,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *organizacionService) Obtener(ctx context.Context, id string) (*models.Organizacion, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *organizacionService) Listar(ctx context.Context, tipo models.TipoOrganizacion, soloActivas bool) ([]models.Organizacion, error) {
	if tipo != "" && !tipo.Valido() {
		return nil, fmt.Errorf("%w: tipo de organización inválido: %q", pkg.ErrBadRequest, tipo)
	}

	todas, err := s.repo.List(ctx, tipo)
	if err != nil {
		return nil, err
	}
	if !soloActivas {
		return todas, nil
	}

	activas := make([]models.Organizacion, 0, len(todas))
	for _, o := range todas {
		if o.Activa {
			activas = append(activas, o)
		}
	}
	return activas, nil
}

func (s *organizacionService) Actualizar(ctx context.Context, id string, req *models.GuardarOrganizacionRequest) (*models.Organizacion, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	o.Nombre = req.Nombre
	o.Tipo = req.Tipo
	o.Descripcion = req.Descripcion
	o.EmailContacto = req.EmailContacto
	o.Direccion = req.Direccion
	o.Activa = req.Activa

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *organizacionService) Eliminar(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
