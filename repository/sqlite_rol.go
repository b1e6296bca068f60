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

// sqliteRolRepo, implementación SQLite de RolRepository.
// El catálogo de roles lo crea la migración seed — aquí solo se lee.
type sqliteRolRepo struct {
	db database.TxQuerier
}

// NewSQLiteRolRepo, constructor.
func NewSQLiteRolRepo(db database.TxQuerier) RolRepository {
	return &sqliteRolRepo{db: db}
}

func (r *sqliteRolRepo) GetAll(ctx context.Context) ([]models.Rol, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, nombre, descripcion FROM roles ORDER BY nombre")
	if err != nil {
		return nil, fmt.Errorf("failed to get roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Rol
	for rows.Next() {
		var rol models.Rol
		if err := rows.Scan(&rol.ID, &rol.Nombre, &rol.Descripcion); err != nil {
			return nil, fmt.Errorf("failed to scan rol: %w", err)
		}
		roles = append(roles, rol)
	}
	return roles, rows.Err()
}

func (r *sqliteRolRepo) GetByNombre(ctx context.Context, nombre string) (*models.Rol, error) {
	rol := &models.Rol{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, nombre, descripcion FROM roles WHERE nombre = ?", nombre,
	).Scan(&rol.ID, &rol.Nombre, &rol.Descripcion)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rol: %w", err)
	}
	return rol, nil
}
