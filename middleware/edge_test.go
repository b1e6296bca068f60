package middleware

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/pkg/session"
)

// paginas es el handler final: marca que el request llegó a renderizar.
func paginas() (http.Handler, *bool) {
	llego := false
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		llego = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &llego
}

func tokenFirmado(t *testing.T, claims map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(claims)
	require.NoError(t, err)
	return "h." + base64.RawURLEncoding.EncodeToString(raw) + ".s"
}

func tokenValido(t *testing.T) string {
	return tokenFirmado(t, map[string]any{
		"sub":         "u-1",
		"authorities": []string{"CIUDADANO"},
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
}

func tokenVencido(t *testing.T) string {
	return tokenFirmado(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()})
}

func servir(t *testing.T, r *http.Request) (*httptest.ResponseRecorder, *bool) {
	t.Helper()
	next, llego := paginas()
	w := httptest.NewRecorder()
	NewEdgeMiddleware(false).Gate(next).ServeHTTP(w, r)
	return w, llego
}

func conCookie(r *http.Request, tok string) *http.Request {
	r.AddCookie(&http.Cookie{Name: session.CookieName, Value: tok})
	return r
}

func TestEdgeIgnoraAPIYAssets(t *testing.T) {
	for _, p := range []string{"/api/publicaciones", "/ws", "/assets/app.js", "/logo.png", "/manifest.json", "/favicon.ico"} {
		r := httptest.NewRequest(http.MethodGet, p, nil)
		w, llego := servir(t, r)
		assert.Equal(t, http.StatusOK, w.Code, p)
		assert.True(t, *llego, p)
	}
}

func TestEdgeProtegidaSinCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/admin/usuario", nil)
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?callbackUrl=%2Fadmin%2Fusuario", w.Header().Get("Location"))
	assert.False(t, *llego)
}

func TestEdgePublicaSinCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/noticias/feria-agosto", nil)
	w, llego := servir(t, r)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *llego)
}

func TestEdgeLoginConSesionSinReferer(t *testing.T) {
	// Navegación directa a /login con sesión válida → al inicio.
	r := conCookie(httptest.NewRequest(http.MethodGet, "/login", nil), tokenValido(t))
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.False(t, *llego)
}

func TestEdgeLoginConSesionYRefererPropio(t *testing.T) {
	// Navegación interna → renderiza con X-Auth-Status: valid.
	r := conCookie(httptest.NewRequest(http.MethodGet, "/login", nil), tokenValido(t))
	r.Host = "portal.example.com"
	r.Header.Set("Referer", "http://portal.example.com/perfil")
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "valid", w.Header().Get("X-Auth-Status"))
	assert.True(t, *llego)
}

func TestEdgeLoginConRefererAjeno(t *testing.T) {
	// Referer de otro origen cuenta como navegación externa → al inicio.
	r := conCookie(httptest.NewRequest(http.MethodGet, "/login", nil), tokenValido(t))
	r.Host = "portal.example.com"
	r.Header.Set("Referer", "http://otro.example.org/")
	w, _ := servir(t, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestEdgeLoginConTokenVencido(t *testing.T) {
	// El login debe renderizar normal, con la cookie borrada y expired marcado.
	r := conCookie(httptest.NewRequest(http.MethodGet, "/login", nil), tokenVencido(t))
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *llego)
	assert.Equal(t, "expired", w.Header().Get("X-Auth-Status"))
	assertCookieBorrada(t, w)
}

func TestEdgeProtegidaConTokenVencido(t *testing.T) {
	r := conCookie(httptest.NewRequest(http.MethodGet, "/admin/pqrs", nil), tokenVencido(t))
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Equal(t, "expired", w.Header().Get("X-Auth-Status"))
	assert.False(t, *llego)
	assertCookieBorrada(t, w)
}

func TestEdgePermisoInsuficiente(t *testing.T) {
	// Sesión válida de ciudadano en el panel de gestión → no-encontrado,
	// nunca un 403.
	r := conCookie(httptest.NewRequest(http.MethodGet, "/admin/pqrs", nil), tokenValido(t))
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/404", w.Header().Get("Location"))
	assert.False(t, *llego)
}

func TestEdgePermisoSuficiente(t *testing.T) {
	tok := tokenFirmado(t, map[string]any{
		"sub":         "u-2",
		"authorities": []string{"GESTOR_PQRS"},
		"exp":         time.Now().Add(time.Hour).Unix(),
	})
	r := conCookie(httptest.NewRequest(http.MethodGet, "/admin/pqrs", nil), tok)
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *llego)
}

func TestEdgeTokenSinIdentificadorPasaElBorde(t *testing.T) {
	// El borde solo valida forma + vencimiento. Un token sin `sub` pasa;
	// el rechazo missing-identifier es del endpoint de sesión.
	tok := tokenFirmado(t, map[string]any{"email": "x@y.co", "exp": time.Now().Add(time.Hour).Unix()})
	r := conCookie(httptest.NewRequest(http.MethodGet, "/mis-solicitudes", nil), tok)
	w, llego := servir(t, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, *llego)
}

func assertCookieBorrada(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			assert.Empty(t, c.Value)
			assert.LessOrEqual(t, c.MaxAge, 0)
			return
		}
	}
	t.Fatalf("no se emitió Set-Cookie de borrado")
}
