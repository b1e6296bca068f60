package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/pkg/token"
)

func tokenConExp(t *testing.T, exp int64) string {
	t.Helper()
	raw, err := json.Marshal(map[string]any{"sub": "u-1", "exp": exp})
	require.NoError(t, err)
	return "h." + base64.RawURLEncoding.EncodeToString(raw) + ".s"
}

func TestMaxAgePisoDeUnaHora(t *testing.T) {
	// Token que vence en 10 minutos — la cookie igual vive 1 hora.
	tok := tokenConExp(t, time.Now().Add(10*time.Minute).Unix())
	assert.Equal(t, token.MinExpirySeconds, MaxAge(tok, false))
}

func TestMaxAgeSigueAlToken(t *testing.T) {
	tok := tokenConExp(t, time.Now().Add(4*time.Hour).Unix())
	assert.InDelta(t, 4*3600, MaxAge(tok, false), 2)
}

func TestMaxAgeRememberMePiso30Dias(t *testing.T) {
	// rememberMe con token de 10 minutos → al menos 2.592.000 segundos.
	tok := tokenConExp(t, time.Now().Add(10*time.Minute).Unix())
	assert.GreaterOrEqual(t, MaxAge(tok, true), 2_592_000)
}

func TestMaxAgeTokenIndecodificable(t *testing.T) {
	assert.Equal(t, token.MinExpirySeconds, MaxAge("basura", false))
	assert.Equal(t, RememberMeSeconds, MaxAge("basura", true))
}

func TestBuildAtributos(t *testing.T) {
	tok := tokenConExp(t, time.Now().Add(2*time.Hour).Unix())
	c := Build(tok, false, true)

	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, tok, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestExpiredBorraEnElWire(t *testing.T) {
	c := Expired(false)
	assert.Equal(t, CookieName, c.Name)
	assert.Empty(t, c.Value)
	// MaxAge negativo serializa como Max-Age=0 — borrado inmediato.
	assert.Contains(t, c.String(), "Max-Age=0")
}

func TestRead(t *testing.T) {
	t.Run("sin cookie", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		_, ok := Read(r)
		assert.False(t, ok)
	})

	t.Run("cookie vacía equivale a sin token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: ""})
		_, ok := Read(r)
		assert.False(t, ok)
	})

	t.Run("cookie presente", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: CookieName, Value: "tok-123"})
		v, ok := Read(r)
		assert.True(t, ok)
		assert.Equal(t, "tok-123", v)
	})
}
