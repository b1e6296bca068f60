package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/models"
)

func guardCon(t *testing.T, api *fakeSessionAPI, hidratar bool) *Guard {
	t.Helper()
	s := NewStore(api)
	if hidratar {
		require.NoError(t, s.FetchUser(context.Background()))
	}
	return NewGuard(s)
}

func TestGuardAntesDeHidratarNoDecide(t *testing.T) {
	g := guardCon(t, &fakeSessionAPI{user: usuarioDePrueba()}, false)

	for _, p := range []string{"/", "/perfil", "/admin", "/login"} {
		d := g.Evaluate(p)
		assert.Equal(t, Loading, d.Outcome, "path %s", p)
	}
}

func TestGuardPublicaAnonimo(t *testing.T) {
	g := guardCon(t, &fakeSessionAPI{}, true)

	for _, p := range []string{"/", "/publicaciones", "/pqrs", "/organizaciones/5"} {
		d := g.Evaluate(p)
		assert.Equal(t, Render, d.Outcome, "path %s", p)
	}
}

func TestGuardProtegidaAnonimoVaAlLogin(t *testing.T) {
	g := guardCon(t, &fakeSessionAPI{}, true)

	d := g.Evaluate("/perfil")
	assert.Equal(t, Navigate, d.Outcome)
	assert.Equal(t, "/login?callbackUrl=%2Fperfil", d.Target)
}

func TestGuardLoginConSesionVaAlInicio(t *testing.T) {
	g := guardCon(t, &fakeSessionAPI{user: usuarioDePrueba()}, true)

	d := g.Evaluate("/login")
	assert.Equal(t, Navigate, d.Outcome)
	assert.Equal(t, "/", d.Target)
}

func TestGuardPermisoInsuficienteVaAlInicio(t *testing.T) {
	// en el cliente la política es el inicio, no /404
	g := guardCon(t, &fakeSessionAPI{user: usuarioDePrueba()}, true)

	d := g.Evaluate("/admin/usuarios")
	assert.Equal(t, Navigate, d.Outcome)
	assert.Equal(t, "/", d.Target)
}

func TestGuardGestorRendericaSuSeccion(t *testing.T) {
	gestor := &models.SessionUser{
		ID:          "u-2",
		Email:       "gestor@example.com",
		Authorities: []string{models.RolGestorContenido},
	}
	g := guardCon(t, &fakeSessionAPI{user: gestor}, true)

	assert.Equal(t, Render, g.Evaluate("/admin/publicaciones").Outcome)
	assert.Equal(t, Navigate, g.Evaluate("/admin/pqrs").Outcome)
}

func TestGuardAutenticadoEnSuPerfil(t *testing.T) {
	g := guardCon(t, &fakeSessionAPI{user: usuarioDePrueba()}, true)

	assert.Equal(t, Render, g.Evaluate("/perfil").Outcome)
}
