package services

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/models"
)

func tokenConPayload(t *testing.T, claims map[string]any) string {
	t.Helper()
	raw, err := json.Marshal(claims)
	require.NoError(t, err)
	return "h." + base64.RawURLEncoding.EncodeToString(raw) + ".s"
}

func TestSessionStatusClasificacion(t *testing.T) {
	svc := NewSessionService()
	exp := time.Now().Add(time.Hour).Unix()

	tests := []struct {
		name   string
		tok    string
		valid  bool
		reason string
	}{
		{"sin token", "", false, models.SessionReasonNoToken},
		{"basura", "no-es-un-jwt", false, models.SessionReasonInvalidFormat},
		{"dos segmentos", "a.b", false, models.SessionReasonInvalidFormat},
		{"payload no json", "h." + base64.RawURLEncoding.EncodeToString([]byte("hola")) + ".s", false, models.SessionReasonInvalidFormat},
		{
			"vencido",
			tokenConPayload(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()}),
			false, models.SessionReasonExpired,
		},
		{
			"sin identificador",
			tokenConPayload(t, map[string]any{"exp": exp}),
			false, models.SessionReasonMissingIdentifier,
		},
		{
			"valido",
			tokenConPayload(t, map[string]any{"sub": "u-1", "exp": exp}),
			true, "",
		},
		{
			// sin claim exp se trata como vencido — fail-closed
			"sin exp es vencido",
			tokenConPayload(t, map[string]any{"sub": "u-1"}),
			false, models.SessionReasonExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := svc.Status(tt.tok)
			assert.Equal(t, tt.valid, st.Valid)
			assert.Equal(t, tt.reason, st.Reason)
		})
	}
}

func TestSessionStatusVencidoIncluyeExpiredAt(t *testing.T) {
	svc := NewSessionService()
	exp := time.Now().Add(-2 * time.Minute)

	st := svc.Status(tokenConPayload(t, map[string]any{"sub": "u-1", "exp": exp.Unix()}))

	require.NotNil(t, st.ExpiredAt)
	assert.Equal(t, exp.Unix(), st.ExpiredAt.Unix())
	assert.Equal(t, time.UTC, st.ExpiredAt.Location())
}

func TestSessionStatusUsuario(t *testing.T) {
	svc := NewSessionService()

	st := svc.Status(tokenConPayload(t, map[string]any{
		"sub":         "u-1",
		"email":       "vecina@example.com",
		"authorities": []any{"CIUDADANO", map[string]any{"authority": "GESTOR_PQRS"}},
		"exp":         time.Now().Add(time.Hour).Unix(),
	}))

	require.True(t, st.Valid)
	require.NotNil(t, st.User)
	assert.Equal(t, "u-1", st.User.ID)
	assert.Equal(t, "vecina@example.com", st.User.Email)
	// las authorities pueden venir como string plano o como objeto
	assert.Equal(t, []string{"CIUDADANO", "GESTOR_PQRS"}, st.User.Authorities)
}

func TestSessionAccept(t *testing.T) {
	svc := NewSessionService()

	assert.False(t, svc.Accept(""))
	assert.False(t, svc.Accept("basura"))
	assert.False(t, svc.Accept(tokenConPayload(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()})))

	// aceptar no exige identificador — eso es requisito de lectura
	assert.True(t, svc.Accept(tokenConPayload(t, map[string]any{"exp": time.Now().Add(time.Hour).Unix()})))
	assert.True(t, svc.Accept(tokenConPayload(t, map[string]any{"sub": "u-1", "exp": time.Now().Add(time.Hour).Unix()})))
}
