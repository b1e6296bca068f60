package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vozciudadana/portal/models"
)

// fakeSessionAPI simula el límite de sesión: el "servidor" es un usuario en
// memoria y un par de errores inyectables.
type fakeSessionAPI struct {
	user        *models.SessionUser
	fetchErr    error
	setErr      error
	removeErr   error
	setCalls    int
	removeCalls int
}

func (f *fakeSessionAPI) SetAuthCookie(ctx context.Context, token string, rememberMe bool) error {
	f.setCalls++
	return f.setErr
}

func (f *fakeSessionAPI) RemoveAuthCookie(ctx context.Context) error {
	f.removeCalls++
	return f.removeErr
}

func (f *fakeSessionAPI) FetchUser(ctx context.Context) (*models.SessionUser, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.user == nil {
		return nil, &APIError{StatusCode: 401, Reason: models.SessionReasonNoToken}
	}
	return f.user, nil
}

func usuarioDePrueba() *models.SessionUser {
	return &models.SessionUser{
		ID:          "u-1",
		Email:       "vecina@example.com",
		Authorities: []string{models.RolCiudadano},
	}
}

func TestStoreSinHidratar(t *testing.T) {
	s := NewStore(&fakeSessionAPI{})

	assert.False(t, s.Hydrated())
	assert.Nil(t, s.User())
}

func TestStoreFetchUserAutenticado(t *testing.T) {
	s := NewStore(&fakeSessionAPI{user: usuarioDePrueba()})

	require.NoError(t, s.FetchUser(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Hydrated)
	assert.False(t, snap.Loading)
	require.NotNil(t, snap.User)
	assert.Equal(t, "u-1", snap.User.ID)
	assert.NoError(t, snap.Err)
}

func TestStoreFetchUserAnonimo(t *testing.T) {
	// el rechazo del servidor no es un error: hidratado y anónimo
	s := NewStore(&fakeSessionAPI{})

	require.NoError(t, s.FetchUser(context.Background()))

	snap := s.Snapshot()
	assert.True(t, snap.Hydrated)
	assert.Nil(t, snap.User)
	assert.NoError(t, snap.Err)
}

func TestStoreFetchUserErrorDeRed(t *testing.T) {
	falla := errors.New("connection refused")
	s := NewStore(&fakeSessionAPI{fetchErr: falla})

	err := s.FetchUser(context.Background())
	require.Error(t, err)

	snap := s.Snapshot()
	assert.True(t, snap.Hydrated) // se intentó — eso cuenta como hidratación
	assert.Nil(t, snap.User)
	assert.ErrorIs(t, snap.Err, falla)
}

func TestStoreLogin(t *testing.T) {
	api := &fakeSessionAPI{user: usuarioDePrueba()}
	s := NewStore(api)

	require.NoError(t, s.Login(context.Background(), "tok", true))

	assert.Equal(t, 1, api.setCalls)
	require.NotNil(t, s.User())
	assert.Equal(t, "u-1", s.User().ID)
}

func TestStoreLoginRechazado(t *testing.T) {
	api := &fakeSessionAPI{setErr: &APIError{StatusCode: 401, Reason: models.SessionReasonExpired}}
	s := NewStore(api)

	err := s.Login(context.Background(), "tok-vencido", false)
	require.Error(t, err)
	assert.Nil(t, s.User())
}

func TestStoreLogoutLimpiaAunqueElServidorFalle(t *testing.T) {
	api := &fakeSessionAPI{user: usuarioDePrueba()}
	s := NewStore(api)
	require.NoError(t, s.FetchUser(context.Background()))
	require.NotNil(t, s.User())

	api.removeErr = errors.New("timeout")
	err := s.Logout(context.Background())

	assert.Error(t, err)          // el fallo se reporta...
	assert.Nil(t, s.User())       // ...pero el estado local queda limpio
	assert.True(t, s.Hydrated())
}
