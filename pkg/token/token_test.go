package token

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// forjar construye un token con la forma header.payload.firma sin firma real —
// este paquete solo mira la estructura, la firma es irrelevante aquí.
func forjar(t *testing.T, claims map[string]any) string {
	t.Helper()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	raw, err := json.Marshal(claims)
	require.NoError(t, err)
	payload := base64.RawURLEncoding.EncodeToString(raw)

	return header + "." + payload + ".firma-falsa"
}

func TestExtractPayloadMalformado(t *testing.T) {
	casos := map[string]string{
		"vacío":              "",
		"sin puntos":         "abcdef",
		"dos segmentos":      "a.b",
		"cuatro segmentos":   "a.b.c.d",
		"base64 inválido":    "cabecera.!!!no-base64!!!.firma",
		"json inválido":      "cabecera." + base64.RawURLEncoding.EncodeToString([]byte("no soy json")) + ".firma",
	}

	for nombre, tok := range casos {
		t.Run(nombre, func(t *testing.T) {
			assert.Nil(t, ExtractPayload(tok))
		})
	}
}

func TestExtractPayloadBienFormado(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	tok := forjar(t, map[string]any{
		"sub":         "u-123",
		"email":       "vecina@example.com",
		"authorities": []string{"GESTOR_PQRS"},
		"exp":         exp,
	})

	p := ExtractPayload(tok)
	require.NotNil(t, p)
	assert.Equal(t, "u-123", p.Sub)
	assert.Equal(t, "vecina@example.com", p.Email)
	assert.Equal(t, []string{"GESTOR_PQRS"}, p.AuthorityNames())
	assert.Equal(t, exp, p.Exp)
}

func TestExtractPayloadAuthoritiesComoObjetos(t *testing.T) {
	// Variante estilo Spring: authorities como objetos {"authority": ...}.
	// La normalización ocurre en el decode, no en quien consume.
	tok := forjar(t, map[string]any{
		"sub": "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
		"authorities": []map[string]string{
			{"authority": "ADMINISTRADOR"},
			{"nombre": "GESTOR_CONTENIDO"},
		},
	})

	p := ExtractPayload(tok)
	require.NotNil(t, p)
	assert.Equal(t, []string{"ADMINISTRADOR", "GESTOR_CONTENIDO"}, p.AuthorityNames())
}

func TestExtractPayloadConPadding(t *testing.T) {
	// Algunos emisores dejan el padding '=' en base64url.
	raw, err := json.Marshal(map[string]any{"sub": "u-9", "exp": time.Now().Add(time.Hour).Unix()})
	require.NoError(t, err)
	tok := "h." + base64.URLEncoding.EncodeToString(raw) + ".s"

	p := ExtractPayload(tok)
	require.NotNil(t, p)
	assert.Equal(t, "u-9", p.Sub)
}

func TestIsExpired(t *testing.T) {
	ahora := time.Now().Unix()

	t.Run("sin exp es vencido", func(t *testing.T) {
		p := ExtractPayload(forjar(t, map[string]any{"sub": "u-1"}))
		assert.True(t, IsExpired(p))
	})

	t.Run("exp en el pasado", func(t *testing.T) {
		p := ExtractPayload(forjar(t, map[string]any{"sub": "u-1", "exp": ahora - 1}))
		assert.True(t, IsExpired(p))
	})

	t.Run("exp en una hora", func(t *testing.T) {
		p := ExtractPayload(forjar(t, map[string]any{"sub": "u-1", "exp": ahora + 3600}))
		assert.False(t, IsExpired(p))
	})

	t.Run("payload nil", func(t *testing.T) {
		assert.True(t, IsExpired(nil))
	})
}

func TestHasIdentifier(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()

	assert.True(t, HasIdentifier(ExtractPayload(forjar(t, map[string]any{"sub": "u-1", "exp": exp}))))
	assert.True(t, HasIdentifier(ExtractPayload(forjar(t, map[string]any{"id": "u-2", "exp": exp}))))
	assert.False(t, HasIdentifier(ExtractPayload(forjar(t, map[string]any{"email": "x@y.co", "exp": exp}))))
	assert.False(t, HasIdentifier(nil))
}

func TestValidate(t *testing.T) {
	assert.True(t, Validate(forjar(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix()})))
	assert.False(t, Validate(forjar(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()})))
	assert.False(t, Validate("no.es.token.valido"))
	assert.False(t, Validate(""))
}

func TestExpirySeconds(t *testing.T) {
	t.Run("token sano", func(t *testing.T) {
		tok := forjar(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(10 * time.Minute).Unix()})
		s := ExpirySeconds(tok)
		assert.InDelta(t, 600, s, 2)
	})

	t.Run("vencido queda en cero", func(t *testing.T) {
		tok := forjar(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(-time.Hour).Unix()})
		assert.Equal(t, 0, ExpirySeconds(tok))
	})

	t.Run("indecodificable usa el mínimo", func(t *testing.T) {
		assert.Equal(t, MinExpirySeconds, ExpirySeconds("basura"))
	})

	t.Run("sin exp usa el mínimo", func(t *testing.T) {
		tok := forjar(t, map[string]any{"sub": "u-1"})
		assert.Equal(t, MinExpirySeconds, ExpirySeconds(tok))
	})
}
