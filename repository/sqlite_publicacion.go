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

// sqlitePublicacionRepo, implementación SQLite de PublicacionRepository.
type sqlitePublicacionRepo struct {
	db database.TxQuerier
}

// NewSQLitePublicacionRepo, constructor.
func NewSQLitePublicacionRepo(db database.TxQuerier) PublicacionRepository {
	return &sqlitePublicacionRepo{db: db}
}

const publicacionCols = `id, tipo, titulo, resumen, cuerpo, imagen_url, fecha_evento, publicada, autor_id, created_at, updated_at`

func (r *sqlitePublicacionRepo) Create(ctx context.Context, p *models.Publicacion) error {
	query := `
		INSERT INTO publicaciones (id, tipo, titulo, resumen, cuerpo, imagen_url, fecha_evento, publicada, autor_id)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		p.Tipo, p.Titulo, p.Resumen, p.Cuerpo, p.ImagenURL, p.FechaEvento, p.Publicada, p.AutorID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create publicacion: %w", err)
	}
	return nil
}

func (r *sqlitePublicacionRepo) GetByID(ctx context.Context, id string) (*models.Publicacion, error) {
	p := &models.Publicacion{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+publicacionCols+" FROM publicaciones WHERE id = ?", id,
	).Scan(&p.ID, &p.Tipo, &p.Titulo, &p.Resumen, &p.Cuerpo, &p.ImagenURL,
		&p.FechaEvento, &p.Publicada, &p.AutorID, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get publicacion: %w", err)
	}
	return p, nil
}

func (r *sqlitePublicacionRepo) Update(ctx context.Context, p *models.Publicacion) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE publicaciones
		SET tipo = ?, titulo = ?, resumen = ?, cuerpo = ?, imagen_url = ?,
		    fecha_evento = ?, publicada = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		p.Tipo, p.Titulo, p.Resumen, p.Cuerpo, p.ImagenURL, p.FechaEvento, p.Publicada, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update publicacion: %w", err)
	}
	return requireAffected(res)
}

func (r *sqlitePublicacionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM publicaciones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete publicacion: %w", err)
	}
	return requireAffected(res)
}

// List arma el WHERE dinámicamente según el filtro. Los argumentos van
// SIEMPRE por placeholder — nada de concatenar valores en el SQL.
func (r *sqlitePublicacionRepo) List(ctx context.Context, f *models.FiltroPublicaciones) (*models.PaginaPublicaciones, error) {
	f.Normalizar()

	where := "WHERE 1=1"
	var args []any

	if f.Tipo != "" {
		where += " AND tipo = ?"
		args = append(args, f.Tipo)
	}
	if f.SoloPublicadas {
		where += " AND publicada = 1"
	}
	if f.Buscar != "" {
		where += " AND (titulo LIKE ? OR resumen LIKE ?)"
		patron := "%" + f.Buscar + "%"
		args = append(args, patron, patron)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM publicaciones "+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count publicaciones: %w", err)
	}

	query := "SELECT " + publicacionCols + " FROM publicaciones " + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.PorPagina, f.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list publicaciones: %w", err)
	}
	defer rows.Close()

	pagina := &models.PaginaPublicaciones{
		Items:     []models.Publicacion{},
		Total:     total,
		Pagina:    f.Pagina,
		PorPagina: f.PorPagina,
	}

	for rows.Next() {
		var p models.Publicacion
		if err := rows.Scan(&p.ID, &p.Tipo, &p.Titulo, &p.Resumen, &p.Cuerpo, &p.ImagenURL,
			&p.FechaEvento, &p.Publicada, &p.AutorID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan publicacion: %w", err)
		}
		pagina.Items = append(pagina.Items, p)
	}

	return pagina, rows.Err()
}
