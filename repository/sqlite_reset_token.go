package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vozciudadana/portal/database"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
)

// sqliteResetTokenRepo, implementación SQLite de ResetTokenRepository.
type sqliteResetTokenRepo struct {
	db database.TxQuerier
}

// NewSQLiteResetTokenRepo, constructor.
func NewSQLiteResetTokenRepo(db database.TxQuerier) ResetTokenRepository {
	return &sqliteResetTokenRepo{db: db}
}

func (r *sqliteResetTokenRepo) Create(ctx context.Context, t *models.ResetToken) error {
	query := `
		INSERT INTO reset_tokens (id, usuario_id, token_hash, expires_at)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.UsuarioID, t.TokenHash, t.ExpiresAt,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *sqliteResetTokenRepo) GetByTokenHash(ctx context.Context, hash string) (*models.ResetToken, error) {
	return r.getOne(ctx,
		"SELECT id, usuario_id, token_hash, expires_at, created_at FROM reset_tokens WHERE token_hash = ?",
		hash)
}

func (r *sqliteResetTokenRepo) GetUltimoPorUsuario(ctx context.Context, usuarioID string) (*models.ResetToken, error) {
	return r.getOne(ctx, `
		SELECT id, usuario_id, token_hash, expires_at, created_at
		FROM reset_tokens WHERE usuario_id = ?
		ORDER BY created_at DESC LIMIT 1`,
		usuarioID)
}

func (r *sqliteResetTokenRepo) getOne(ctx context.Context, query string, arg any) (*models.ResetToken, error) {
	t := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&t.ID, &t.UsuarioID, &t.TokenHash, &t.ExpiresAt, &t.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return t, nil
}

func (r *sqliteResetTokenRepo) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reset_tokens WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}

func (r *sqliteResetTokenRepo) DeleteByUsuarioID(ctx context.Context, usuarioID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM reset_tokens WHERE usuario_id = ?", usuarioID); err != nil {
		return fmt.Errorf("failed to delete reset tokens: %w", err)
	}
	return nil
}
