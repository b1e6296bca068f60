// Las migraciones SQL se embeben en el binario — el deploy no necesita
// llevar los archivos al lado.
package database

import "embed"

// EmbeddedMigrations contiene los .sql de migrations/.
// Uso: fs.Sub(EmbeddedMigrations, "migrations") para acceder al subdirectorio.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS
