package repository

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/database"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/pkg/crypto"
)

func abrirDB(t *testing.T) *database.DB {
	t.Helper()
	migrationsFS, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	require.NoError(t, err)

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), migrationsFS)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func claveDePrueba(t *testing.T) []byte {
	t.Helper()
	key, err := crypto.DeriveKey(strings.Repeat("ab", 32))
	require.NoError(t, err)
	return key
}

func solicitudDePrueba(radicado string) *models.Pqrs {
	return &models.Pqrs{
		Radicado:         radicado,
		Tipo:             models.PqrsQueja,
		Asunto:           "Alumbrado dañado en el parque central",
		Descripcion:      "Los postes del costado norte llevan tres semanas apagados.",
		Estado:           models.PqrsRadicada,
		NombreContacto:   "Vecina Ejemplar",
		EmailContacto:    "vecina@example.com",
		TelefonoContacto: "3001234567",
	}
}

func TestPqrsContactoCifradoEnReposo(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, claveDePrueba(t))
	ctx := context.Background()

	p := solicitudDePrueba("PQRS-AAAA0001")
	require.NoError(t, repo.Create(ctx, p))
	require.NotEmpty(t, p.ID)

	// en la fila los datos de contacto no están en claro
	var emailCrudo, telCrudo string
	require.NoError(t, db.Conn.QueryRowContext(ctx,
		"SELECT email_contacto, telefono_contacto FROM pqrs WHERE id = ?", p.ID,
	).Scan(&emailCrudo, &telCrudo))
	assert.NotEqual(t, "vecina@example.com", emailCrudo)
	assert.NotEqual(t, "3001234567", telCrudo)
	assert.NotContains(t, emailCrudo, "@")

	// por el repository salen descifrados
	leida, err := repo.GetByRadicado(ctx, "PQRS-AAAA0001")
	require.NoError(t, err)
	assert.Equal(t, "vecina@example.com", leida.EmailContacto)
	assert.Equal(t, "3001234567", leida.TelefonoContacto)
}

func TestPqrsSinClaveGuardaEnClaro(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, nil)
	ctx := context.Background()

	p := solicitudDePrueba("PQRS-AAAA0002")
	require.NoError(t, repo.Create(ctx, p))

	var emailCrudo string
	require.NoError(t, db.Conn.QueryRowContext(ctx,
		"SELECT email_contacto FROM pqrs WHERE id = ?", p.ID,
	).Scan(&emailCrudo))
	assert.Equal(t, "vecina@example.com", emailCrudo)
}

func TestPqrsGetByIDInexistente(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, nil)

	_, err := repo.GetByID(context.Background(), "no-existe")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestPqrsActualizarEstado(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, claveDePrueba(t))
	ctx := context.Background()

	p := solicitudDePrueba("PQRS-AAAA0003")
	require.NoError(t, repo.Create(ctx, p))

	// sin respuesta: el COALESCE conserva el NULL existente
	require.NoError(t, repo.ActualizarEstado(ctx, p.ID, models.PqrsEnTramite, nil))
	leida, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PqrsEnTramite, leida.Estado)
	assert.Nil(t, leida.Respuesta)

	respuesta := "Se repararon los postes."
	require.NoError(t, repo.ActualizarEstado(ctx, p.ID, models.PqrsResuelta, &respuesta))
	leida, err = repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PqrsResuelta, leida.Estado)
	require.NotNil(t, leida.Respuesta)
	assert.Equal(t, respuesta, *leida.Respuesta)

	// id inexistente
	assert.ErrorIs(t, repo.ActualizarEstado(ctx, "no-existe", models.PqrsEnTramite, nil), pkg.ErrNotFound)
}

func TestPqrsRadicadoDuplicado(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, nil)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, solicitudDePrueba("PQRS-AAAA0004")))
	assert.Error(t, repo.Create(ctx, solicitudDePrueba("PQRS-AAAA0004")))
}

func TestPqrsListFiltraYPagina(t *testing.T) {
	db := abrirDB(t)
	repo := NewSQLitePqrsRepo(db.Conn, claveDePrueba(t))
	ctx := context.Background()

	for i, tipo := range []models.TipoPqrs{models.PqrsQueja, models.PqrsQueja, models.PqrsPeticion} {
		p := solicitudDePrueba("PQRS-BBBB000" + string(rune('1'+i)))
		p.Tipo = tipo
		require.NoError(t, repo.Create(ctx, p))
	}

	pag, err := repo.List(ctx, &models.FiltroPqrs{Tipo: models.PqrsQueja})
	require.NoError(t, err)
	assert.Equal(t, 2, pag.Total)
	assert.Len(t, pag.Items, 2)
	// los items del listado también salen descifrados
	assert.Equal(t, "vecina@example.com", pag.Items[0].EmailContacto)

	pag, err = repo.List(ctx, &models.FiltroPqrs{Estado: models.PqrsCerrada})
	require.NoError(t, err)
	assert.Equal(t, 0, pag.Total)
	assert.Empty(t, pag.Items)

	pag, err = repo.List(ctx, &models.FiltroPqrs{Pagina: 1, PorPagina: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, pag.Total)
	assert.Len(t, pag.Items, 2)
}
