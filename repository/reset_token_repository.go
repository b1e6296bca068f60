package repository

import (
	"context"

	"github.com/vozciudadana/portal/models"
)

// ResetTokenRepository, acceso a datos de tokens de restablecimiento.
type ResetTokenRepository interface {
	Create(ctx context.Context, t *models.ResetToken) error
	GetByTokenHash(ctx context.Context, hash string) (*models.ResetToken, error)
	// GetUltimoPorUsuario devuelve el token emitido más recientemente para el
	// usuario, para aplicar el tiempo de espera entre solicitudes.
	GetUltimoPorUsuario(ctx context.Context, usuarioID string) (*models.ResetToken, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByUsuarioID(ctx context.Context, usuarioID string) error
}
