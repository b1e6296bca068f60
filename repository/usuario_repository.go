// Package repository define las interfaces de acceso a datos y sus
// implementaciones SQLite.
//
// Cada entidad tiene su par: la interfaz (lo que las capas superiores
// conocen) y el struct sqlite* (la implementación). Los services dependen de
// la interfaz, nunca del struct — Dependency Inversion.
package repository

import (
	"context"

	"github.com/vozciudadana/portal/models"
)

// UsuarioRepository, acceso a cuentas de usuario.
// Los métodos que devuelven *models.Usuario incluyen siempre los roles.
//
// Create inserta la cuenta y sus roles iniciales en una sola transacción:
// nunca queda un usuario registrado sin su rol.
type UsuarioRepository interface {
	Create(ctx context.Context, u *models.Usuario, rolIDs ...string) error
	GetByID(ctx context.Context, id string) (*models.Usuario, error)
	GetByEmail(ctx context.Context, email string) (*models.Usuario, error)
	List(ctx context.Context) ([]models.Usuario, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	SetActivo(ctx context.Context, id string, activo bool) error
	AsignarRol(ctx context.Context, usuarioID, rolID string) error
	QuitarRol(ctx context.Context, usuarioID, rolID string) error
}

// RolRepository, catálogo de roles.
type RolRepository interface {
	GetAll(ctx context.Context) ([]models.Rol, error)
	GetByNombre(ctx context.Context, nombre string) (*models.Rol, error)
}
