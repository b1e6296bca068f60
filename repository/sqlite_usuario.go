package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/vozciudadana/portal/database"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
)

// sqliteUsuarioRepo, implementación SQLite de UsuarioRepository.
//
// A diferencia de los demás repos recibe *sql.DB y no TxQuerier: Create abre
// su propia transacción con database.WithTx.
type sqliteUsuarioRepo struct {
	db *sql.DB
}

// NewSQLiteUsuarioRepo, constructor. Devuelve la interfaz, no el struct.
func NewSQLiteUsuarioRepo(db *sql.DB) UsuarioRepository {
	return &sqliteUsuarioRepo{db: db}
}

// Create inserta el usuario y sus roles iniciales como unidad atómica: si un
// rolID no existe, la transacción se revierte y el usuario no queda creado.
func (r *sqliteUsuarioRepo) Create(ctx context.Context, u *models.Usuario, rolIDs ...string) error {
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		query := `
			INSERT INTO usuarios (id, nombre, email, password_hash, activo)
			VALUES (lower(hex(randomblob(8))), ?, ?, ?, ?)
			RETURNING id, created_at`

		err := tx.QueryRowContext(ctx, query,
			u.Nombre,
			u.Email,
			u.PasswordHash,
			u.Activo,
		).Scan(&u.ID, &u.CreatedAt)

		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: el email ya está registrado", pkg.ErrAlreadyExists)
			}
			return fmt.Errorf("failed to create usuario: %w", err)
		}

		for _, rolID := range rolIDs {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO usuario_roles (usuario_id, rol_id) VALUES (?, ?)",
				u.ID, rolID,
			); err != nil {
				return fmt.Errorf("failed to asignar rol inicial: %w", err)
			}
		}

		return nil
	})
}

func (r *sqliteUsuarioRepo) GetByID(ctx context.Context, id string) (*models.Usuario, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *sqliteUsuarioRepo) GetByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	return r.getOne(ctx, "email = ?", email)
}

func (r *sqliteUsuarioRepo) getOne(ctx context.Context, where string, arg any) (*models.Usuario, error) {
	query := `
		SELECT id, nombre, email, password_hash, activo, created_at
		FROM usuarios WHERE ` + where

	u := &models.Usuario{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Activo, &u.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, pkg.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get usuario: %w", err)
	}

	if err := r.cargarRoles(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

func (r *sqliteUsuarioRepo) List(ctx context.Context) ([]models.Usuario, error) {
	query := `
		SELECT id, nombre, email, password_hash, activo, created_at
		FROM usuarios ORDER BY nombre`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list usuarios: %w", err)
	}
	defer rows.Close() // sin esto la conexión del pool se fuga

	var usuarios []models.Usuario
	for rows.Next() {
		var u models.Usuario
		if err := rows.Scan(&u.ID, &u.Nombre, &u.Email, &u.PasswordHash, &u.Activo, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan usuario: %w", err)
		}
		usuarios = append(usuarios, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate usuarios: %w", err)
	}

	// Roles de cada usuario — el listado de administración los muestra.
	for i := range usuarios {
		if err := r.cargarRoles(ctx, &usuarios[i]); err != nil {
			return nil, err
		}
	}

	return usuarios, nil
}

func (r *sqliteUsuarioRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE usuarios SET password_hash = ? WHERE id = ?", passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireAffected(res)
}

func (r *sqliteUsuarioRepo) SetActivo(ctx context.Context, id string, activo bool) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE usuarios SET activo = ? WHERE id = ?", activo, id)
	if err != nil {
		return fmt.Errorf("failed to set activo: %w", err)
	}
	return requireAffected(res)
}

func (r *sqliteUsuarioRepo) AsignarRol(ctx context.Context, usuarioID, rolID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO usuario_roles (usuario_id, rol_id) VALUES (?, ?)",
		usuarioID, rolID)
	if err != nil {
		return fmt.Errorf("failed to asignar rol: %w", err)
	}
	return nil
}

func (r *sqliteUsuarioRepo) QuitarRol(ctx context.Context, usuarioID, rolID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM usuario_roles WHERE usuario_id = ? AND rol_id = ?",
		usuarioID, rolID)
	if err != nil {
		return fmt.Errorf("failed to quitar rol: %w", err)
	}
	return nil
}

// cargarRoles completa u.Roles con un join sobre usuario_roles.
func (r *sqliteUsuarioRepo) cargarRoles(ctx context.Context, u *models.Usuario) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT r.id, r.nombre, r.descripcion
		FROM roles r
		JOIN usuario_roles ur ON ur.rol_id = r.id
		WHERE ur.usuario_id = ?
		ORDER BY r.nombre`, u.ID)
	if err != nil {
		return fmt.Errorf("failed to load roles: %w", err)
	}
	defer rows.Close()

	u.Roles = []models.Rol{}
	for rows.Next() {
		var rol models.Rol
		if err := rows.Scan(&rol.ID, &rol.Nombre, &rol.Descripcion); err != nil {
			return fmt.Errorf("failed to scan rol: %w", err)
		}
		u.Roles = append(u.Roles, rol)
	}
	return rows.Err()
}

// requireAffected traduce "0 filas afectadas" a ErrNotFound.
func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return pkg.ErrNotFound
	}
	return nil
}

// isUniqueViolation detecta violaciones de índice único de SQLite.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
