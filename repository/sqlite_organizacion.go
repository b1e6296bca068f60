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

// sqliteOrganizacionRepo, implementación SQLite de OrganizacionRepository.
type sqliteOrganizacionRepo struct {
	db database.TxQuerier
}

// NewSQLiteOrganizacionRepo, constructor.
func NewSQLiteOrganizacionRepo(db database.TxQuerier) OrganizacionRepository {
	return &sqliteOrganizacionRepo{db: db}
}

const organizacionCols = `id, nombre, tipo, descripcion, email_contacto, direccion, activa, created_at`

func (r *sqliteOrganizacionRepo) Create(ctx context.Context, o *models.Organizacion) error {
	query := `
		INSERT INTO organizaciones (id, nombre, tipo, descripcion, email_contacto, direccion, activa)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		o.Nombre, o.Tipo, o.Descripcion, o.EmailContacto, o.Direccion, o.Activa,
	).Scan(&o.ID, &o.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return pkg.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create organizacion: %w", err)
	}
	return nil
}

func (r *sqliteOrganizacionRepo) GetByID(ctx context.Context, id string) (*models.Organizacion, error) {
	o := &models.Organizacion{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+organizacionCols+" FROM organizaciones WHERE id = ?", id,
	).Scan(&o.ID, &o.Nombre, &o.Tipo, &o.Descripcion, &o.EmailContacto, &o.Direccion, &o.Activa, &o.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get organizacion: %w", err)
	}
	return o, nil
}

func (r *sqliteOrganizacionRepo) List(ctx context.Context, tipo models.TipoOrganizacion) ([]models.Organizacion, error) {
	query := "SELECT " + organizacionCols + " FROM organizaciones"
	var args []any
	if tipo != "" {
		query += " WHERE tipo = ?"
		args = append(args, tipo)
	}
	query += " ORDER BY nombre"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizaciones: %w", err)
	}
	defer rows.Close()

	items := []models.Organizacion{}
	for rows.Next() {
		var o models.Organizacion
		if err := rows.Scan(&o.ID, &o.Nombre, &o.Tipo, &o.Descripcion,
			&o.EmailContacto, &o.Direccion, &o.Activa, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan organizacion: %w", err)
		}
		items = append(items, o)
	}

	return items, rows.Err()
}

func (r *sqliteOrganizacionRepo) Update(ctx context.Context, o *models.Organizacion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE organizaciones
		SET nombre = ?, tipo = ?, descripcion = ?, email_contacto = ?, direccion = ?, activa = ?
		WHERE id = ?`,
		o.Nombre, o.Tipo, o.Descripcion, o.EmailContacto, o.Direccion, o.Activa, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update organizacion: %w", err)
	}
	return requireAffected(res)
}

func (r *sqliteOrganizacionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM organizaciones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete organizacion: %w", err)
	}
	return requireAffected(res)
}
