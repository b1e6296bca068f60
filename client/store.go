package client

import (
	"context"
	"errors"
	"sync"

	"github.com/vozciudadana/portal/models"
)

// Store mantiene el estado de autenticación del cliente: el usuario actual,
// si ya se hidrató contra el servidor y el último error.
//
// Es el equivalente del store de sesión del frontend: la fuente de verdad
// del "quién soy" del lado cliente. Thread-safe — el Guard y el código de la
// aplicación pueden leerlo desde goroutines distintas.
type Store struct {
	mu       sync.RWMutex
	api      SessionAPI
	user     *models.SessionUser
	loading  bool
	hydrated bool
	err      error
}

// NewStore, constructor.
func NewStore(api SessionAPI) *Store {
	return &Store{api: api}
}

// Snapshot es una lectura consistente del estado del Store.
type Snapshot struct {
	User     *models.SessionUser
	Loading  bool
	Hydrated bool
	Err      error
}

// Snapshot devuelve el estado actual bajo RLock.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{User: s.user, Loading: s.loading, Hydrated: s.hydrated, Err: s.err}
}

// User devuelve el usuario actual (nil = anónimo).
func (s *Store) User() *models.SessionUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Hydrated indica si ya se consultó al servidor al menos una vez.
// Antes de la hidratación el Guard no decide — muestra "cargando".
func (s *Store) Hydrated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hydrated
}

// FetchUser hidrata el Store contra GET /api/auth/session.
//
// Un rechazo del servidor (sin sesión, vencida, malformada) NO es un error
// del Store: deja user en nil y el Store queda hidratado igual — anónimo es
// un estado válido. Solo los fallos de red/decodificación quedan en Err.
func (s *Store) FetchUser(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	user, err := s.api.FetchUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.hydrated = true

	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			// rechazo con razón: anónimo, no error
			s.user = nil
			s.err = nil
			return nil
		}
		s.err = err
		return err
	}

	s.user = user
	s.err = nil
	return nil
}

// Login crea la sesión con el token y rehidrata el usuario.
func (s *Store) Login(ctx context.Context, token string, rememberMe bool) error {
	if err := s.api.SetAuthCookie(ctx, token, rememberMe); err != nil {
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return err
	}

	return s.FetchUser(ctx)
}

// Logout borra la sesión y limpia el estado local. El estado local se
// limpia aunque la llamada al servidor falle — la intención del usuario es
// salir.
func (s *Store) Logout(ctx context.Context) error {
	err := s.api.RemoveAuthCookie(ctx)

	s.mu.Lock()
	s.user = nil
	s.err = nil
	s.hydrated = true
	s.mu.Unlock()

	return err
}
