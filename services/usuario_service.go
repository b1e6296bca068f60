package services

import (
	"context"
	"fmt"

	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/repository"
)

// UsuarioService, administración de cuentas y roles desde el panel.
// Las operaciones de identidad (login, registro, contraseñas) viven en
// AuthService — aquí solo la gestión que hace un ADMIN_USUARIOS.
type UsuarioService interface {
	Listar(ctx context.Context) ([]models.Usuario, error)
	Obtener(ctx context.Context, id string) (*models.Usuario, error)
	// SetActivo activa o desactiva una cuenta. Un usuario no puede
	// desactivarse a sí mismo.
	SetActivo(ctx context.Context, actorID, usuarioID string, activo bool) error
	// AsignarRol agrega un rol por nombre a la cuenta.
	AsignarRol(ctx context.Context, usuarioID, rolNombre string) (*models.Usuario, error)
	// QuitarRol retira un rol por nombre. Un administrador no puede quitarse
	// su propio rol ADMINISTRADOR.
	QuitarRol(ctx context.Context, actorID, usuarioID, rolNombre string) (*models.Usuario, error)
	Roles(ctx context.Context) ([]models.Rol, error)
}

type usuarioService struct {
	usuarioRepo repository.UsuarioRepository
	rolRepo     repository.RolRepository
}

// NewUsuarioService, constructor.
func NewUsuarioService(usuarioRepo repository.UsuarioRepository, rolRepo repository.RolRepository) UsuarioService {
	return &usuarioService{usuarioRepo: usuarioRepo, rolRepo: rolRepo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]models.Usuario, error) {
	usuarios, err := s.usuarioRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range usuarios {
		usuarios[i].PasswordHash = ""
	}
	return usuarios, nil
}

func (s *usuarioService) Obtener(ctx context.Context, id string) (*models.Usuario, error) {
	u, err := s.usuarioRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *usuarioService) SetActivo(ctx context.Context, actorID, usuarioID string, activo bool) error {
	if actorID == usuarioID && !activo {
		return fmt.Errorf("%w: no puedes desactivar tu propia cuenta", pkg.ErrBadRequest)
	}
	return s.usuarioRepo.SetActivo(ctx, usuarioID, activo)
}

func (s *usuarioService) AsignarRol(ctx context.Context, usuarioID, rolNombre string) (*models.Usuario, error) {
	rol, err := s.rolRepo.GetByNombre(ctx, rolNombre)
	if err != nil {
		return nil, err
	}

	if err := s.usuarioRepo.AsignarRol(ctx, usuarioID, rol.ID); err != nil {
		return nil, err
	}

	return s.Obtener(ctx, usuarioID)
}

func (s *usuarioService) QuitarRol(ctx context.Context, actorID, usuarioID, rolNombre string) (*models.Usuario, error) {
	if actorID == usuarioID && rolNombre == models.RolAdministrador {
		return nil, fmt.Errorf("%w: no puedes quitarte tu propio rol de administrador", pkg.ErrBadRequest)
	}

	rol, err := s.rolRepo.GetByNombre(ctx, rolNombre)
	if err != nil {
		return nil, err
	}

	if err := s.usuarioRepo.QuitarRol(ctx, usuarioID, rol.ID); err != nil {
		return nil, err
	}

	return s.Obtener(ctx, usuarioID)
}

func (s *usuarioService) Roles(ctx context.Context) ([]models.Rol, error) {
	return s.rolRepo.GetAll(ctx)
}
