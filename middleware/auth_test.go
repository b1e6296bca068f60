package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/handlers"
	"github.com/vozciudadana/portal/models"
	"github.com/vozciudadana/portal/pkg"
	"github.com/vozciudadana/portal/repository"
	"github.com/vozciudadana/portal/services"
)

const claveDeFirma = "secreto-de-test"

// repoDeUsuarios, fake mínimo: solo GetByID importa para el middleware.
type repoDeUsuarios struct {
	repository.UsuarioRepository // los métodos no usados hacen panic

	usuarios map[string]*models.Usuario
}

func (r *repoDeUsuarios) GetByID(ctx context.Context, id string) (*models.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, pkg.ErrNotFound
	}
	copia := *u
	return &copia, nil
}

func bearerFirmado(t *testing.T, sub string, exp time.Time, clave string) string {
	t.Helper()
	claims := &models.IdentityClaims{
		Email:       "vecina@example.com",
		Authorities: []string{models.RolCiudadano},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(clave))
	require.NoError(t, err)
	return tok
}

// authFixture arma el middleware con el verificador real de tokens.
// ValidateToken no toca los repositorios, así que van en nil.
func authFixture(usuarios ...*models.Usuario) *AuthMiddleware {
	repo := &repoDeUsuarios{usuarios: map[string]*models.Usuario{}}
	for _, u := range usuarios {
		repo.usuarios[u.ID] = u
	}
	authService := services.NewAuthService(nil, nil, nil, nil, claveDeFirma, 1)
	return NewAuthMiddleware(authService, repo)
}

// siguiente captura el usuario que el middleware dejó en el context.
func siguiente() (http.Handler, **models.Usuario) {
	var capturado *models.Usuario
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, ok := r.Context().Value(handlers.UsuarioContextKey).(*models.Usuario); ok {
			capturado = u
		}
		w.WriteHeader(http.StatusOK)
	})
	return h, &capturado
}

func vecinaActiva() *models.Usuario {
	return &models.Usuario{
		ID:           "u-1",
		Nombre:       "Vecina Ejemplar",
		Email:        "vecina@example.com",
		PasswordHash: "$2a$12$hash",
		Activo:       true,
		Roles:        []models.Rol{{ID: "rol-ciudadano", Nombre: models.RolCiudadano}},
	}
}

func TestRequireSinHeader(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, *capturado)
}

func TestRequireFormatoInvalido(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, _ := siguiente()

	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireFirmaAjena(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(time.Hour), "otra-clave")
	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, *capturado)
}

func TestRequireTokenVencido(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, _ := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(-time.Minute), claveDeFirma)
	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireUsuarioBorrado(t *testing.T) {
	// token válido pero la cuenta ya no existe en la DB
	mw := authFixture()
	next, _ := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(time.Hour), claveDeFirma)
	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireCuentaDesactivada(t *testing.T) {
	u := vecinaActiva()
	u.Activo = false
	mw := authFixture(u)
	next, _ := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(time.Hour), claveDeFirma)
	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdjuntaUsuarioSinHash(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(time.Hour), claveDeFirma)
	r := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Require(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, *capturado)
	assert.Equal(t, "u-1", (*capturado).ID)
	assert.Empty(t, (*capturado).PasswordHash)
}

func TestOptionalSinTokenPasa(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	r := httptest.NewRequest(http.MethodPost, "/api/pqrs", nil)
	w := httptest.NewRecorder()
	mw.Optional(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, *capturado)
}

func TestOptionalTokenInvalidoPasaAnonimo(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	r := httptest.NewRequest(http.MethodPost, "/api/pqrs", nil)
	r.Header.Set("Authorization", "Bearer basura")
	w := httptest.NewRecorder()
	mw.Optional(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, *capturado)
}

func TestOptionalTokenValidoAdjuntaUsuario(t *testing.T) {
	mw := authFixture(vecinaActiva())
	next, capturado := siguiente()

	tok := bearerFirmado(t, "u-1", time.Now().Add(time.Hour), claveDeFirma)
	r := httptest.NewRequest(http.MethodPost, "/api/pqrs", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	mw.Optional(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, *capturado)
	assert.Equal(t, "u-1", (*capturado).ID)
}
