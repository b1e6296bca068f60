package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vozciudadana/portal/database"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/pkg/crypto"
)

// sqlitePqrsRepo, implementación SQLite de PqrsRepository.
//
// aesKey cifra email y teléfono de contacto en reposo. Con aesKey nil
// (desarrollo sin PQRS_AES_KEY) los valores se guardan en claro — main.go
// lo avisa por log al arrancar.
type sqlitePqrsRepo struct {
	db     database.TxQuerier
	aesKey []byte
}

// NewSQLitePqrsRepo, constructor.
func NewSQLitePqrsRepo(db database.TxQuerier, aesKey []byte) PqrsRepository {
	return &sqlitePqrsRepo{db: db, aesKey: aesKey}
}

const pqrsCols = `id, radicado, tipo, asunto, descripcion, estado, nombre_contacto,
	email_contacto, telefono_contacto, usuario_id, respuesta, created_at, updated_at`

func (r *sqlitePqrsRepo) Create(ctx context.Context, p *models.Pqrs) error {
	email, err := r.cifrar(p.EmailContacto)
	if err != nil {
		return err
	}
	telefono, err := r.cifrar(p.TelefonoContacto)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pqrs (id, radicado, tipo, asunto, descripcion, estado,
			nombre_contacto, email_contacto, telefono_contacto, usuario_id)
		VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, created_at, updated_at`

	err = r.db.QueryRowContext(ctx, query,
		p.Radicado, p.Tipo, p.Asunto, p.Descripcion, p.Estado,
		p.NombreContacto, email, telefono, p.UsuarioID,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create pqrs: %w", err)
	}
	return nil
}

func (r *sqlitePqrsRepo) GetByID(ctx context.Context, id string) (*models.Pqrs, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *sqlitePqrsRepo) GetByRadicado(ctx context.Context, radicado string) (*models.Pqrs, error) {
	return r.getOne(ctx, "radicado = ?", radicado)
}

func (r *sqlitePqrsRepo) getOne(ctx context.Context, where string, arg any) (*models.Pqrs, error) {
	p := &models.Pqrs{}
	err := r.db.QueryRowContext(ctx,
		"SELECT "+pqrsCols+" FROM pqrs WHERE "+where, arg,
	).Scan(&p.ID, &p.Radicado, &p.Tipo, &p.Asunto, &p.Descripcion, &p.Estado,
		&p.NombreContacto, &p.EmailContacto, &p.TelefonoContacto,
		&p.UsuarioID, &p.Respuesta, &p.CreatedAt, &p.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pqrs: %w", err)
	}

	if err := r.descifrarContacto(p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *sqlitePqrsRepo) List(ctx context.Context, f *models.FiltroPqrs) (*models.PaginaPqrs, error) {
	f.Normalizar()

	where := "WHERE 1=1"
	var args []any

	if f.Tipo != "" {
		where += " AND tipo = ?"
		args = append(args, f.Tipo)
	}
	if f.Estado != "" {
		where += " AND estado = ?"
		args = append(args, f.Estado)
	}

	var total int
	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pqrs "+where, args...,
	).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count pqrs: %w", err)
	}

	query := "SELECT " + pqrsCols + " FROM pqrs " + where +
		" ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, f.PorPagina, f.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pqrs: %w", err)
	}
	defer rows.Close()

	pagina := &models.PaginaPqrs{
		Items:     []models.Pqrs{},
		Total:     total,
		Pagina:    f.Pagina,
		PorPagina: f.PorPagina,
	}

	for rows.Next() {
		var p models.Pqrs
		if err := rows.Scan(&p.ID, &p.Radicado, &p.Tipo, &p.Asunto, &p.Descripcion, &p.Estado,
			&p.NombreContacto, &p.EmailContacto, &p.TelefonoContacto,
			&p.UsuarioID, &p.Respuesta, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pqrs: %w", err)
		}
		if err := r.descifrarContacto(&p); err != nil {
			return nil, err
		}
		pagina.Items = append(pagina.Items, p)
	}

	return pagina, rows.Err()
}

func (r *sqlitePqrsRepo) ActualizarEstado(ctx context.Context, id string, estado models.EstadoPqrs, respuesta *string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pqrs
		SET estado = ?, respuesta = COALESCE(?, respuesta), updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		estado, respuesta, id)
	if err != nil {
		return fmt.Errorf("failed to update pqrs estado: %w", err)
	}
	return requireAffected(res)
}

// cifrar cifra un valor de contacto; vacío queda vacío, sin clave queda en claro.
func (r *sqlitePqrsRepo) cifrar(valor string) (string, error) {
	if valor == "" || r.aesKey == nil {
		return valor, nil
	}
	enc, err := crypto.Encrypt(valor, r.aesKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt contact data: %w", err)
	}
	return enc, nil
}

// descifrarContacto repone los valores en claro en el modelo.
func (r *sqlitePqrsRepo) descifrarContacto(p *models.Pqrs) error {
	if r.aesKey == nil {
		return nil
	}

	var err error
	if p.EmailContacto != "" {
		if p.EmailContacto, err = crypto.Decrypt(p.EmailContacto, r.aesKey); err != nil {
			return fmt.Errorf("failed to decrypt contact email: %w", err)
		}
	}
	if p.TelefonoContacto != "" {
		if p.TelefonoContacto, err = crypto.Decrypt(p.TelefonoContacto, r.aesKey); err != nil {
			return fmt.Errorf("failed to decrypt contact phone: %w", err)
		}
	}
	return nil
}
