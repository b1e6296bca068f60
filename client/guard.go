package client

import (
	"github.com/vozciudadana/portal/authz"
)

// Guard decide, del lado del cliente, si una navegación se renderiza o se
// redirige. Comparte la función de decisión con el middleware de borde
// (authz.Decide) con una política propia: permiso insuficiente va al inicio,
// no a la página de no-encontrado.
//
// La diferencia con el borde: el Guard no ve la cookie (HttpOnly), solo el
// resultado de la hidratación del Store. Y antes de hidratar no decide nada
// — navegar durante la carga produciría redirecciones falsas a /login.
type Guard struct {
	store *Store
}

// NewGuard, constructor.
func NewGuard(store *Store) *Guard {
	return &Guard{store: store}
}

// Outcome es el tipo de decisión del Guard.
type Outcome int

const (
	// Loading: el Store aún no se hidrató — mostrar el estado de carga.
	Loading Outcome = iota
	// Render: la vista se muestra.
	Render
	// Navigate: redirigir a Target.
	Navigate
)

// Decision es el resultado de evaluar una navegación.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Evaluate decide sobre una navegación al path dado.
func (g *Guard) Evaluate(path string) Decision {
	snap := g.store.Snapshot()

	if !snap.Hydrated || snap.Loading {
		return Decision{Outcome: Loading}
	}

	state := authz.State{
		Authenticated: snap.User != nil,
	}
	if snap.User != nil {
		state.Authorities = snap.User.Authorities
	}

	verdict := authz.Decide(path, state, authz.ClientPolicy)
	if verdict.Action == authz.Redirect {
		return Decision{Outcome: Navigate, Target: verdict.Target}
	}
	return Decision{Outcome: Render}
}
