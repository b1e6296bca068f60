// Package database gestiona la conexión SQLite y el sistema de migraciones.
//
// database/sql da una interfaz común sobre drivers; el driver se registra por
// efecto secundario del import en blanco (_ "modernc.org/sqlite").
package database

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // driver SQLite en Go puro — sin CGO
)

// recoverableErrors: patrones de error tolerables al re-ejecutar una
// migración a medias. "duplicate column name" significa que el ALTER TABLE
// ya se aplicó y puede saltarse sin riesgo.
var recoverableErrors = []string{
	"duplicate column name",
}

// DB envuelve la conexión. *sql.DB es un pool: thread-safe, varios
// goroutines pueden usarlo a la vez.
type DB struct {
	Conn *sql.DB
}

// New abre la base SQLite y aplica las migraciones pendientes.
//
// dbPath: ruta del archivo (ej: "./data/portal.db")
// migrationsFS: fs.FS con los .sql (embed.FS u os.DirFS)
func New(dbPath string, migrationsFS fs.FS) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// foreign_keys: en SQLite vienen apagadas por defecto.
	// WAL: lecturas concurrentes con escrituras.
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn}

	if err := db.runMigrations(migrationsFS); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("[database] connected and migrations applied")
	return db, nil
}

// Close cierra la conexión.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// runMigrations ejecuta en orden los .sql del directorio de migraciones.
// Los nombres van numerados: 001_init.sql, 002_seed.sql, ...
//
// La tabla schema_migrations registra qué archivos ya se aplicaron, para que
// migraciones no idempotentes (ALTER TABLE) no se repitan.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	applied := make(map[string]bool)
	rows, err := db.Conn.Query("SELECT filename FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("failed to scan migration row: %w", err)
		}
		applied[name] = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate migration rows: %w", err)
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		// Statement a statement: cada uno es autocommit en SQLite, así que
		// una migración a medias se retoma saltando errores recuperables.
		if err := db.execStatements(file, string(content)); err != nil {
			return err
		}

		if _, err := db.Conn.Exec(
			"INSERT INTO schema_migrations (filename) VALUES (?)", file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		log.Printf("[database] migration applied: %s", file)
	}

	return nil
}

// execStatements parte el archivo por ';' y ejecuta cada statement,
// tolerando los errores recuperables.
func (db *DB) execStatements(file, content string) error {
	for _, stmt := range strings.Split(content, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.Conn.Exec(stmt); err != nil {
			if isRecoverable(err) {
				log.Printf("[database] skipping recoverable error in %s: %v", file, err)
				continue
			}
			return fmt.Errorf("migration %s failed: %w", file, err)
		}
	}
	return nil
}

func isRecoverable(err error) bool {
	msg := err.Error()
	for _, p := range recoverableErrors {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}
